package domain

import "strings"

// DeriveTemplate projects the current shape of the inspection into a new
// template. Answers, notes, images and provenance are dropped and every
// section and item gets a fresh id. Works on drafts and completed inspections.
func (in Inspection) DeriveTemplate(name, ownerID string, ids IDGenerator) (Template, error) {
	if len(in.Sections) == 0 {
		return Template{}, ErrEmptyInspection
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Template{}, templateErrorf("name is required")
	}

	sections := make([]TemplateSection, 0, len(in.Sections))
	for _, s := range in.Sections {
		items := make([]ItemSpec, 0, len(s.Items))
		for _, it := range s.Items {
			spec := it.ItemSpec
			spec.ID = ids.NewID()
			items = append(items, spec)
		}
		sections = append(sections, TemplateSection{
			ID:    ids.NewID(),
			Title: s.Title,
			Items: items,
		})
	}

	return Template{
		Name:     name,
		OwnerID:  strings.TrimSpace(ownerID),
		Sections: sections,
	}, nil
}
