package domain

import (
	"fmt"
	"strings"
	"time"
)

// ItemType decides which Value an item accepts.
type ItemType string

const (
	ItemTypeHeader   ItemType = "header"
	ItemTypeYesNo    ItemType = "yesno"
	ItemTypeCheckbox ItemType = "checkbox"
	ItemTypeText     ItemType = "text"
)

func NewItemType(value string) (ItemType, error) {
	switch t := ItemType(strings.ToLower(strings.TrimSpace(value))); t {
	case ItemTypeHeader, ItemTypeYesNo, ItemTypeCheckbox, ItemTypeText:
		return t, nil
	case "":
		return "", fmt.Errorf("item type is required")
	default:
		return "", fmt.Errorf("invalid item type: %s", value)
	}
}

func (t ItemType) String() string {
	return string(t)
}

// YesNo is the answer of a yesno item. The zero value means unanswered.
type YesNo string

const (
	YesNoUnset YesNo = ""
	Yes        YesNo = "Ja"
	No         YesNo = "Nej"
)

func NewYesNo(value string) (YesNo, error) {
	switch v := YesNo(strings.TrimSpace(value)); v {
	case YesNoUnset, Yes, No:
		return v, nil
	default:
		return "", fmt.Errorf("invalid yes/no answer: %s", value)
	}
}

// Value is the typed answer of a non-header item.
type Value interface {
	Type() ItemType
	// Answered reports whether the value satisfies a required item.
	Answered() bool
	isValue()
}

type YesNoValue struct {
	Answer YesNo
}

func (YesNoValue) Type() ItemType   { return ItemTypeYesNo }
func (v YesNoValue) Answered() bool { return v.Answer != YesNoUnset }
func (YesNoValue) isValue()         {}

type CheckboxValue struct {
	Checked bool
}

func (CheckboxValue) Type() ItemType   { return ItemTypeCheckbox }
func (v CheckboxValue) Answered() bool { return v.Checked }
func (CheckboxValue) isValue()         {}

type TextValue struct {
	Text string
}

func (TextValue) Type() ItemType   { return ItemTypeText }
func (v TextValue) Answered() bool { return strings.TrimSpace(v.Text) != "" }
func (TextValue) isValue()         {}

// ZeroValue returns the unanswered value for t, or nil for headers.
func ZeroValue(t ItemType) Value {
	switch t {
	case ItemTypeYesNo:
		return YesNoValue{}
	case ItemTypeCheckbox:
		return CheckboxValue{}
	case ItemTypeText:
		return TextValue{}
	default:
		return nil
	}
}

// ItemSpec is the answer-free shape of a checklist item as stored on templates.
type ItemSpec struct {
	ID          string
	Type        ItemType
	Label       string
	Required    bool
	AllowImages bool
}

// Item is a live checklist item on an inspection.
type Item struct {
	ItemSpec
	Value  Value
	Notes  string
	Images []Attachment
}

func newItem(spec ItemSpec) Item {
	return Item{
		ItemSpec: spec,
		Value:    ZeroValue(spec.Type),
		Images:   []Attachment{},
	}
}

func (it Item) clone() Item {
	out := it
	out.Images = append(make([]Attachment, 0, len(it.Images)), it.Images...)
	return out
}

// Missing reports whether a required item still lacks an answer.
func (it Item) Missing() bool {
	if !it.Required || it.Type == ItemTypeHeader {
		return false
	}
	return it.Value == nil || !it.Value.Answered()
}

// Attachment is metadata of an uploaded image. The binary lives in object storage.
type Attachment struct {
	ID          string
	URL         string
	Path        string
	Name        string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}

// ItemRef addresses an item by section and item id.
type ItemRef struct {
	SectionID string
	ItemID    string
}

func (r ItemRef) String() string {
	return r.SectionID + "/" + r.ItemID
}
