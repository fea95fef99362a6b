package checklist

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/elkontrol/inspections/api/internal/checklist/domain"
)

type templateRequest struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Sections    []templateSectionRequest `json:"sections"`
}

type templateSectionRequest struct {
	ID    string            `json:"id"`
	Title string            `json:"title"`
	Items []itemSpecRequest `json:"items"`
}

type itemSpecRequest struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Label       string `json:"label"`
	Required    bool   `json:"required"`
	AllowImages bool   `json:"allowImages"`
}

func (req templateRequest) input(ownerID string) domain.TemplateInput {
	sections := make([]domain.TemplateSectionInput, 0, len(req.Sections))
	for _, s := range req.Sections {
		items := make([]domain.ItemSpecInput, 0, len(s.Items))
		for _, it := range s.Items {
			items = append(items, it.input())
		}
		sections = append(sections, domain.TemplateSectionInput{ID: s.ID, Title: s.Title, Items: items})
	}
	return domain.TemplateInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
		Sections:    sections,
	}
}

func (req itemSpecRequest) input() domain.ItemSpecInput {
	return domain.ItemSpecInput{
		ID:          req.ID,
		Type:        req.Type,
		Label:       req.Label,
		Required:    req.Required,
		AllowImages: req.AllowImages,
	}
}

type moveRequest struct {
	To *int `json:"to"`
}

type inspectionCreateRequest struct {
	Name           string   `json:"name"`
	CustomerID     string   `json:"customerId"`
	AddressID      string   `json:"addressId"`
	InstallationID string   `json:"installationId"`
	TemplateIDs    []string `json:"templateIds"`
}

// itemUpdateRequest keeps value raw; its shape depends on the item type.
type itemUpdateRequest struct {
	Label *string         `json:"label"`
	Value json.RawMessage `json:"value"`
	Notes *string         `json:"notes"`
}

type deriveRequest struct {
	Name string `json:"name"`
}

type templateResponse struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	OwnerID     string                    `json:"ownerId"`
	Sections    []templateSectionResponse `json:"sections"`
	ItemCount   int                       `json:"itemCount"`
	CreatedAt   time.Time                 `json:"createdAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
}

type templateSectionResponse struct {
	ID    string             `json:"id"`
	Title string             `json:"title"`
	Items []itemSpecResponse `json:"items"`
}

type itemSpecResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Label       string `json:"label"`
	Required    bool   `json:"required"`
	AllowImages bool   `json:"allowImages"`
}

type inspectionResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	OwnerID        string            `json:"ownerId"`
	CustomerID     string            `json:"customerId,omitempty"`
	AddressID      string            `json:"addressId,omitempty"`
	InstallationID string            `json:"installationId,omitempty"`
	Status         string            `json:"status"`
	DisplayStatus  string            `json:"displayStatus"`
	Answered       int               `json:"answered"`
	Missing        int               `json:"missing"`
	Sections       []sectionResponse `json:"sections"`
	CompletedAt    *time.Time        `json:"completedAt,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type sectionResponse struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	TemplateID   string         `json:"templateId,omitempty"`
	TemplateName string         `json:"templateName,omitempty"`
	Items        []itemResponse `json:"items"`
}

type itemResponse struct {
	ID          string               `json:"id"`
	Type        string               `json:"type"`
	Label       string               `json:"label"`
	Required    bool                 `json:"required"`
	AllowImages bool                 `json:"allowImages"`
	Value       any                  `json:"value"`
	Notes       string               `json:"notes,omitempty"`
	Images      []attachmentResponse `json:"images"`
	Missing     bool                 `json:"missing"`
}

type attachmentResponse struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Path        string    `json:"path,omitempty"`
	Name        string    `json:"name,omitempty"`
	ContentType string    `json:"contentType,omitempty"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

func templateDomainToResponse(tpl domain.Template) templateResponse {
	sections := make([]templateSectionResponse, 0, len(tpl.Sections))
	for _, s := range tpl.Sections {
		items := make([]itemSpecResponse, 0, len(s.Items))
		for _, spec := range s.Items {
			items = append(items, itemSpecResponse{
				ID:          spec.ID,
				Type:        spec.Type.String(),
				Label:       spec.Label,
				Required:    spec.Required,
				AllowImages: spec.AllowImages,
			})
		}
		sections = append(sections, templateSectionResponse{ID: s.ID, Title: s.Title, Items: items})
	}
	return templateResponse{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Description: tpl.Description,
		OwnerID:     tpl.OwnerID,
		Sections:    sections,
		ItemCount:   tpl.ItemCount(),
		CreatedAt:   tpl.CreatedAt,
		UpdatedAt:   tpl.UpdatedAt,
	}
}

func inspectionDomainToResponse(in domain.Inspection) inspectionResponse {
	sections := make([]sectionResponse, 0, len(in.Sections))
	for _, s := range in.Sections {
		items := make([]itemResponse, 0, len(s.Items))
		for _, it := range s.Items {
			items = append(items, itemDomainToResponse(it))
		}
		sections = append(sections, sectionResponse{
			ID:           s.ID,
			Title:        s.Title,
			TemplateID:   s.TemplateID,
			TemplateName: s.TemplateName,
			Items:        items,
		})
	}
	return inspectionResponse{
		ID:             in.ID,
		Name:           in.Name,
		OwnerID:        in.OwnerID,
		CustomerID:     in.CustomerID,
		AddressID:      in.AddressID,
		InstallationID: in.InstallationID,
		Status:         in.Status.String(),
		DisplayStatus:  in.DisplayStatus().String(),
		Answered:       in.AnsweredCount(),
		Missing:        len(in.ReadinessCheck()),
		Sections:       sections,
		CompletedAt:    in.CompletedAt,
		CreatedAt:      in.CreatedAt,
		UpdatedAt:      in.UpdatedAt,
	}
}

func itemDomainToResponse(it domain.Item) itemResponse {
	images := make([]attachmentResponse, 0, len(it.Images))
	for _, att := range it.Images {
		images = append(images, attachmentDomainToResponse(att))
	}
	return itemResponse{
		ID:          it.ID,
		Type:        it.Type.String(),
		Label:       it.Label,
		Required:    it.Required,
		AllowImages: it.AllowImages,
		Value:       valueToJSON(it.Value),
		Notes:       it.Notes,
		Images:      images,
		Missing:     it.Missing(),
	}
}

func attachmentDomainToResponse(att domain.Attachment) attachmentResponse {
	return attachmentResponse{
		ID:          att.ID,
		URL:         att.URL,
		Path:        att.Path,
		Name:        att.Name,
		ContentType: att.ContentType,
		Size:        att.Size,
		UploadedAt:  att.UploadedAt,
	}
}

// valueToJSON renders yesno as "Ja", "Nej" or null, checkbox as a bool and
// text as a string. Headers carry null.
func valueToJSON(v domain.Value) any {
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

// valueFromJSON decodes raw against the type of the item it is meant for.
func valueFromJSON(t domain.ItemType, raw json.RawMessage) (domain.Value, error) {
	isNull := string(raw) == "null"
	switch t {
	case domain.ItemTypeYesNo:
		if isNull {
			return domain.YesNoValue{}, nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("expected \"Ja\", \"Nej\" or null")
		}
		answer, err := domain.NewYesNo(s)
		if err != nil {
			return nil, err
		}
		return domain.YesNoValue{Answer: answer}, nil
	case domain.ItemTypeCheckbox:
		var b bool
		if isNull || json.Unmarshal(raw, &b) != nil {
			return nil, fmt.Errorf("expected true or false")
		}
		return domain.CheckboxValue{Checked: b}, nil
	case domain.ItemTypeText:
		if isNull {
			return domain.TextValue{}, nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("expected a string")
		}
		return domain.TextValue{Text: s}, nil
	default:
		return nil, fmt.Errorf("header items take no value")
	}
}
