package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the persisted lifecycle state of an inspection.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
	// StatusInProgress is only reported by DisplayStatus and never persisted.
	StatusInProgress Status = "in-progress"
)

func NewStatus(value string) (Status, error) {
	switch s := Status(strings.TrimSpace(value)); s {
	case StatusDraft, StatusCompleted:
		return s, nil
	default:
		return "", fmt.Errorf("invalid status: %s", value)
	}
}

func (s Status) String() string {
	return string(s)
}

// Section is an ordered group of live items. TemplateID and TemplateName are
// empty for hand-built sections.
type Section struct {
	ID           string
	Title        string
	TemplateID   string
	TemplateName string
	Items        []Item
}

// Inspection is the working copy of one or more templates together with its answers.
type Inspection struct {
	ID             string
	Name           string
	OwnerID        string
	CustomerID     string
	AddressID      string
	InstallationID string
	Status         Status
	Sections       []Section
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewInspection carries the metadata of an inspection about to be built.
type NewInspection struct {
	Name           string
	OwnerID        string
	CustomerID     string
	AddressID      string
	InstallationID string
}

// BuildInspection concatenates the sections of templates, in order, into a
// new draft inspection. Every section and item receives a fresh id.
func BuildInspection(draft NewInspection, templates []Template, ids IDGenerator) (Inspection, error) {
	if len(templates) == 0 {
		return Inspection{}, ErrNoTemplatesSelected
	}
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return Inspection{}, fmt.Errorf("%w: inspection name is required", ErrInvalidValue)
	}

	var sections []Section
	for _, tpl := range templates {
		for _, ts := range tpl.Sections {
			items := make([]Item, 0, len(ts.Items))
			for _, spec := range ts.Items {
				spec.ID = ids.NewID()
				items = append(items, newItem(spec))
			}
			sections = append(sections, Section{
				ID:           ids.NewID(),
				Title:        ts.Title,
				TemplateID:   tpl.ID,
				TemplateName: tpl.Name,
				Items:        items,
			})
		}
	}
	if sections == nil {
		sections = []Section{}
	}

	return Inspection{
		Name:           name,
		OwnerID:        strings.TrimSpace(draft.OwnerID),
		CustomerID:     strings.TrimSpace(draft.CustomerID),
		AddressID:      strings.TrimSpace(draft.AddressID),
		InstallationID: strings.TrimSpace(draft.InstallationID),
		Status:         StatusDraft,
		Sections:       sections,
	}, nil
}

// IsCompleted reports whether the inspection is frozen.
func (in Inspection) IsCompleted() bool {
	return in.Status == StatusCompleted
}

// DisplayStatus returns in-progress for a draft with at least one answered item.
func (in Inspection) DisplayStatus() Status {
	if in.Status != StatusDraft {
		return in.Status
	}
	if in.AnsweredCount() > 0 {
		return StatusInProgress
	}
	return StatusDraft
}

// AnsweredCount counts non-header items holding an answer.
func (in Inspection) AnsweredCount() int {
	n := 0
	for _, s := range in.Sections {
		for _, it := range s.Items {
			if it.Value != nil && it.Value.Answered() {
				n++
			}
		}
	}
	return n
}

// Item returns the item addressed by ref.
func (in Inspection) Item(ref ItemRef) (Item, bool) {
	si, ii := in.locate(ref)
	if si < 0 || ii < 0 {
		return Item{}, false
	}
	return in.Sections[si].Items[ii], true
}

// Clone returns a deep copy sharing no slices with in.
func (in Inspection) Clone() Inspection {
	out := in
	if in.CompletedAt != nil {
		at := *in.CompletedAt
		out.CompletedAt = &at
	}
	if in.Sections != nil {
		out.Sections = make([]Section, len(in.Sections))
	}
	for i, s := range in.Sections {
		items := make([]Item, len(s.Items))
		for j, it := range s.Items {
			items[j] = it.clone()
		}
		s.Items = items
		out.Sections[i] = s
	}
	return out
}

func (in Inspection) sectionIndex(id string) int {
	for i, s := range in.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (in Inspection) locate(ref ItemRef) (int, int) {
	si := in.sectionIndex(ref.SectionID)
	if si < 0 {
		return -1, -1
	}
	for ii, it := range in.Sections[si].Items {
		if it.ID == ref.ItemID {
			return si, ii
		}
	}
	return si, -1
}

// guard rejects every mutation of a completed inspection.
func (in Inspection) guard() error {
	if in.IsCompleted() {
		return ErrFrozen
	}
	return nil
}

// target resolves ref to indexes after the frozen guard.
func (in Inspection) target(ref ItemRef) (int, int, error) {
	if err := in.guard(); err != nil {
		return -1, -1, err
	}
	si, ii := in.locate(ref)
	if si < 0 {
		return -1, -1, itemError(ErrInvalidTarget, ref, "section not found")
	}
	if ii < 0 {
		return -1, -1, itemError(ErrInvalidTarget, ref, "item not found")
	}
	return si, ii, nil
}
