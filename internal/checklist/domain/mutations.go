package domain

import (
	"fmt"
	"strings"
)

// SetValue answers the addressed item. The value type has to match the item type.
func (in Inspection) SetValue(ref ItemRef, value Value) (Inspection, error) {
	si, ii, err := in.target(ref)
	if err != nil {
		return in, err
	}
	item := in.Sections[si].Items[ii]
	if item.Type == ItemTypeHeader {
		return in, itemError(ErrInvalidValue, ref, "header items take no value")
	}
	if value == nil {
		return in, itemError(ErrInvalidValue, ref, "value is required")
	}
	if value.Type() != item.Type {
		return in, itemError(ErrInvalidValue, ref, fmt.Sprintf("expected %s value, got %s", item.Type, value.Type()))
	}
	if yn, ok := value.(YesNoValue); ok {
		if _, err := NewYesNo(string(yn.Answer)); err != nil {
			return in, itemError(ErrInvalidValue, ref, err.Error())
		}
	}

	out := in.Clone()
	out.Sections[si].Items[ii].Value = value
	return out, nil
}

// SetNotes replaces the free-text notes of the addressed item.
func (in Inspection) SetNotes(ref ItemRef, notes string) (Inspection, error) {
	si, ii, err := in.target(ref)
	if err != nil {
		return in, err
	}
	out := in.Clone()
	out.Sections[si].Items[ii].Notes = notes
	return out, nil
}

// EditItemLabel renames the addressed item.
func (in Inspection) EditItemLabel(ref ItemRef, label string) (Inspection, error) {
	si, ii, err := in.target(ref)
	if err != nil {
		return in, err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return in, itemError(ErrInvalidValue, ref, errLabelRequired.Error())
	}
	out := in.Clone()
	out.Sections[si].Items[ii].Label = label
	return out, nil
}

// AddItem appends a new, unanswered item to the end of a section.
func (in Inspection) AddItem(sectionID string, input ItemSpecInput, ids IDGenerator) (Inspection, Item, error) {
	ref := ItemRef{SectionID: sectionID}
	if err := in.guard(); err != nil {
		return in, Item{}, err
	}
	si := in.sectionIndex(sectionID)
	if si < 0 {
		return in, Item{}, itemError(ErrInvalidTarget, ref, "section not found")
	}
	spec, err := newItemSpec(input)
	if err != nil {
		return in, Item{}, itemError(ErrInvalidValue, ref, err.Error())
	}
	spec.ID = ids.NewID()
	item := newItem(spec)

	out := in.Clone()
	out.Sections[si].Items = append(out.Sections[si].Items, item)
	return out, item, nil
}

// RemoveItem drops the addressed item together with its attachment metadata.
func (in Inspection) RemoveItem(ref ItemRef) (Inspection, Item, error) {
	si, ii, err := in.target(ref)
	if err != nil {
		return in, Item{}, err
	}
	out := in.Clone()
	removed := out.Sections[si].Items[ii]
	items := out.Sections[si].Items
	out.Sections[si].Items = append(items[:ii], items[ii+1:]...)
	return out, removed, nil
}
