package mongo

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/elkontrol/inspections/api/internal/checklist/domain"
)

func objectIDOrNew(id string) (primitive.ObjectID, error) {
	if strings.TrimSpace(id) == "" {
		return primitive.NewObjectID(), nil
	}
	return primitive.ObjectIDFromHex(strings.TrimSpace(id))
}

func buildTemplateDocument(tpl *domain.Template) (TemplateDocument, error) {
	id, err := objectIDOrNew(tpl.ID)
	if err != nil {
		return TemplateDocument{}, err
	}
	sections := make([]TemplateSectionDocument, 0, len(tpl.Sections))
	for _, s := range tpl.Sections {
		items := make([]ItemSpecDocument, 0, len(s.Items))
		for _, spec := range s.Items {
			items = append(items, ItemSpecDocument{
				ID:          spec.ID,
				Type:        spec.Type.String(),
				Label:       spec.Label,
				Required:    spec.Required,
				AllowImages: spec.AllowImages,
			})
		}
		sections = append(sections, TemplateSectionDocument{ID: s.ID, Title: s.Title, Items: items})
	}
	return TemplateDocument{
		ID:          id,
		OwnerID:     tpl.OwnerID,
		Name:        tpl.Name,
		Description: tpl.Description,
		Sections:    sections,
		CreatedAt:   tpl.CreatedAt,
		UpdatedAt:   tpl.UpdatedAt,
	}, nil
}

func mapTemplate(doc TemplateDocument) (domain.Template, error) {
	sections := make([]domain.TemplateSection, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		items := make([]domain.ItemSpec, 0, len(s.Items))
		for _, raw := range s.Items {
			spec, err := mapItemSpec(raw)
			if err != nil {
				return domain.Template{}, fmt.Errorf("template %s: %w", doc.ID.Hex(), err)
			}
			items = append(items, spec)
		}
		sections = append(sections, domain.TemplateSection{ID: s.ID, Title: s.Title, Items: items})
	}
	return domain.Template{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Description: doc.Description,
		OwnerID:     doc.OwnerID,
		Sections:    sections,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

func mapItemSpec(doc ItemSpecDocument) (domain.ItemSpec, error) {
	itemType, err := domain.NewItemType(doc.Type)
	if err != nil {
		return domain.ItemSpec{}, err
	}
	return domain.ItemSpec{
		ID:          doc.ID,
		Type:        itemType,
		Label:       doc.Label,
		Required:    doc.Required,
		AllowImages: doc.AllowImages,
	}, nil
}

func buildInspectionDocument(in *domain.Inspection) (InspectionDocument, error) {
	id, err := objectIDOrNew(in.ID)
	if err != nil {
		return InspectionDocument{}, err
	}
	sections := make([]SectionDocument, 0, len(in.Sections))
	for _, s := range in.Sections {
		items := make([]ItemDocument, 0, len(s.Items))
		for _, it := range s.Items {
			images := make([]AttachmentDocument, 0, len(it.Images))
			for _, img := range it.Images {
				images = append(images, AttachmentDocument{
					ID:          img.ID,
					URL:         img.URL,
					Path:        img.Path,
					Name:        img.Name,
					ContentType: img.ContentType,
					Size:        img.Size,
					UploadedAt:  img.UploadedAt,
				})
			}
			items = append(items, ItemDocument{
				ID:          it.ID,
				Type:        it.Type.String(),
				Label:       it.Label,
				Required:    it.Required,
				AllowImages: it.AllowImages,
				Value:       encodeValue(it.Value),
				Notes:       it.Notes,
				Images:      images,
			})
		}
		sections = append(sections, SectionDocument{
			ID:           s.ID,
			Title:        s.Title,
			TemplateID:   s.TemplateID,
			TemplateName: s.TemplateName,
			Items:        items,
		})
	}
	return InspectionDocument{
		ID:             id,
		OwnerID:        in.OwnerID,
		Name:           in.Name,
		CustomerID:     in.CustomerID,
		AddressID:      in.AddressID,
		InstallationID: in.InstallationID,
		Status:         in.Status.String(),
		Sections:       sections,
		CompletedAt:    in.CompletedAt,
		CreatedAt:      in.CreatedAt,
		UpdatedAt:      in.UpdatedAt,
	}, nil
}

func mapInspection(doc InspectionDocument) (domain.Inspection, error) {
	status, err := domain.NewStatus(doc.Status)
	if err != nil {
		return domain.Inspection{}, fmt.Errorf("inspection %s: %w", doc.ID.Hex(), err)
	}
	sections := make([]domain.Section, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		items := make([]domain.Item, 0, len(s.Items))
		for _, raw := range s.Items {
			it, err := mapItem(raw)
			if err != nil {
				return domain.Inspection{}, fmt.Errorf("inspection %s item %s: %w", doc.ID.Hex(), raw.ID, err)
			}
			items = append(items, it)
		}
		sections = append(sections, domain.Section{
			ID:           s.ID,
			Title:        s.Title,
			TemplateID:   s.TemplateID,
			TemplateName: s.TemplateName,
			Items:        items,
		})
	}
	return domain.Inspection{
		ID:             doc.ID.Hex(),
		Name:           doc.Name,
		OwnerID:        doc.OwnerID,
		CustomerID:     doc.CustomerID,
		AddressID:      doc.AddressID,
		InstallationID: doc.InstallationID,
		Status:         status,
		Sections:       sections,
		CompletedAt:    doc.CompletedAt,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}

// mapItem tolerates documents written before images existed; Images is never nil.
func mapItem(doc ItemDocument) (domain.Item, error) {
	spec, err := mapItemSpec(ItemSpecDocument{
		ID:          doc.ID,
		Type:        doc.Type,
		Label:       doc.Label,
		Required:    doc.Required,
		AllowImages: doc.AllowImages,
	})
	if err != nil {
		return domain.Item{}, err
	}
	value, err := decodeValue(spec.Type, doc.Value)
	if err != nil {
		return domain.Item{}, err
	}
	images := make([]domain.Attachment, 0, len(doc.Images))
	for _, img := range doc.Images {
		images = append(images, domain.Attachment{
			ID:          img.ID,
			URL:         img.URL,
			Path:        img.Path,
			Name:        img.Name,
			ContentType: img.ContentType,
			Size:        img.Size,
			UploadedAt:  img.UploadedAt,
		})
	}
	return domain.Item{ItemSpec: spec, Value: value, Notes: doc.Notes, Images: images}, nil
}

func encodeValue(v domain.Value) any {
	switch value := v.(type) {
	case domain.YesNoValue:
		if value.Answer == domain.YesNoUnset {
			return nil
		}
		return string(value.Answer)
	case domain.CheckboxValue:
		return value.Checked
	case domain.TextValue:
		return value.Text
	default:
		return nil
	}
}

func decodeValue(t domain.ItemType, raw any) (domain.Value, error) {
	switch t {
	case domain.ItemTypeHeader:
		return nil, nil
	case domain.ItemTypeYesNo:
		if raw == nil {
			return domain.YesNoValue{}, nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("yesno value has type %T", raw)
		}
		answer, err := domain.NewYesNo(s)
		if err != nil {
			return nil, err
		}
		return domain.YesNoValue{Answer: answer}, nil
	case domain.ItemTypeCheckbox:
		if raw == nil {
			return domain.CheckboxValue{}, nil
		}
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("checkbox value has type %T", raw)
		}
		return domain.CheckboxValue{Checked: b}, nil
	case domain.ItemTypeText:
		if raw == nil {
			return domain.TextValue{}, nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("text value has type %T", raw)
		}
		return domain.TextValue{Text: s}, nil
	}
	return nil, fmt.Errorf("unknown item type %s", t)
}
