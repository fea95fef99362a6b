package domain

import (
	"strings"
	"time"
)

// Template is a reusable, answer-free checklist owned by a single user.
type Template struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	Sections    []TemplateSection
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TemplateSection groups item shapes under a title.
type TemplateSection struct {
	ID    string
	Title string
	Items []ItemSpec
}

// TemplateInput is the raw template definition coming from the builder UI or a seed file.
type TemplateInput struct {
	Name        string
	Description string
	OwnerID     string
	Sections    []TemplateSectionInput
}

type TemplateSectionInput struct {
	ID    string
	Title string
	Items []ItemSpecInput
}

type ItemSpecInput struct {
	ID          string
	Type        string
	Label       string
	Required    bool
	AllowImages bool
}

// NewTemplate validates input and returns a template. Sections and items
// without an id get a fresh one; supplied ids are kept so an edit does not
// change identity.
func NewTemplate(input TemplateInput, ids IDGenerator) (Template, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Template{}, templateErrorf("name is required")
	}
	owner := strings.TrimSpace(input.OwnerID)
	if owner == "" {
		return Template{}, templateErrorf("owner is required")
	}

	seen := make(map[string]struct{})
	claim := func(id string) (string, error) {
		id = strings.TrimSpace(id)
		if id == "" {
			id = ids.NewID()
		}
		if _, dup := seen[id]; dup {
			return "", templateErrorf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
		return id, nil
	}

	sections := make([]TemplateSection, 0, len(input.Sections))
	for i, in := range input.Sections {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return Template{}, templateErrorf("section %d: title is required", i+1)
		}
		sectionID, err := claim(in.ID)
		if err != nil {
			return Template{}, err
		}
		items := make([]ItemSpec, 0, len(in.Items))
		for j, rawItem := range in.Items {
			spec, err := newItemSpec(rawItem)
			if err != nil {
				return Template{}, templateErrorf("section %d item %d: %v", i+1, j+1, err)
			}
			if spec.ID, err = claim(rawItem.ID); err != nil {
				return Template{}, err
			}
			items = append(items, spec)
		}
		sections = append(sections, TemplateSection{ID: sectionID, Title: title, Items: items})
	}

	return Template{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		OwnerID:     owner,
		Sections:    sections,
	}, nil
}

func newItemSpec(in ItemSpecInput) (ItemSpec, error) {
	itemType, err := NewItemType(in.Type)
	if err != nil {
		return ItemSpec{}, err
	}
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return ItemSpec{}, errLabelRequired
	}
	spec := ItemSpec{
		Type:        itemType,
		Label:       label,
		Required:    in.Required,
		AllowImages: in.AllowImages,
	}
	if itemType == ItemTypeHeader {
		spec.Required = false
		spec.AllowImages = false
	}
	return spec, nil
}

// MoveSection moves a section to index to, clamped to the valid range.
func (t Template) MoveSection(sectionID string, to int) (Template, error) {
	from := t.sectionIndex(sectionID)
	if from < 0 {
		return t, itemError(ErrInvalidTarget, ItemRef{SectionID: sectionID}, "section not found")
	}
	out := t.clone()
	out.Sections = move(out.Sections, from, to)
	return out, nil
}

// MoveItem moves an item to index to within its section.
func (t Template) MoveItem(ref ItemRef, to int) (Template, error) {
	si := t.sectionIndex(ref.SectionID)
	if si < 0 {
		return t, itemError(ErrInvalidTarget, ref, "section not found")
	}
	from := -1
	for i, item := range t.Sections[si].Items {
		if item.ID == ref.ItemID {
			from = i
			break
		}
	}
	if from < 0 {
		return t, itemError(ErrInvalidTarget, ref, "item not found")
	}
	out := t.clone()
	out.Sections[si].Items = move(out.Sections[si].Items, from, to)
	return out, nil
}

// ItemCount returns the number of items across all sections.
func (t Template) ItemCount() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Items)
	}
	return n
}

func (t Template) sectionIndex(id string) int {
	for i, s := range t.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (t Template) clone() Template {
	out := t
	out.Sections = make([]TemplateSection, len(t.Sections))
	for i, s := range t.Sections {
		s.Items = append([]ItemSpec(nil), s.Items...)
		out.Sections[i] = s
	}
	return out
}

func move[T any](list []T, from, to int) []T {
	if to < 0 {
		to = 0
	}
	if to > len(list)-1 {
		to = len(list) - 1
	}
	if from == to {
		return list
	}
	elem := list[from]
	list = append(list[:from], list[from+1:]...)
	list = append(list[:to], append([]T{elem}, list[to:]...)...)
	return list
}
