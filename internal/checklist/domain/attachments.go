package domain

import "strings"

// CanAttach runs the checks AddAttachment applies, without an attachment at hand.
// Callers use it before uploading a binary they would otherwise have to discard.
func (in Inspection) CanAttach(ref ItemRef) error {
	si, ii, err := in.target(ref)
	if err != nil {
		return err
	}
	item := in.Sections[si].Items[ii]
	if item.Type == ItemTypeHeader || !item.AllowImages {
		return itemError(ErrNotAllowed, ref, "item does not accept images")
	}
	return nil
}

// AddAttachment appends att to the images of the addressed item.
func (in Inspection) AddAttachment(ref ItemRef, att Attachment) (Inspection, error) {
	if err := in.CanAttach(ref); err != nil {
		return in, err
	}
	if strings.TrimSpace(att.ID) == "" {
		return in, itemError(ErrInvalidValue, ref, "attachment id is required")
	}
	si, ii := in.locate(ref)
	for _, existing := range in.Sections[si].Items[ii].Images {
		if existing.ID == att.ID {
			return in, itemError(ErrInvalidValue, ref, "duplicate attachment id "+att.ID)
		}
	}

	out := in.Clone()
	item := &out.Sections[si].Items[ii]
	item.Images = append(item.Images, att)
	return out, nil
}

// RemoveAttachment removes the attachment with attachmentID from the addressed item
// and returns the removed metadata so the caller can delete the stored object.
func (in Inspection) RemoveAttachment(ref ItemRef, attachmentID string) (Inspection, Attachment, error) {
	si, ii, err := in.target(ref)
	if err != nil {
		return in, Attachment{}, err
	}
	images := in.Sections[si].Items[ii].Images
	idx := -1
	for i, img := range images {
		if img.ID == attachmentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return in, Attachment{}, itemError(ErrNotFound, ref, "attachment "+attachmentID+" not found")
	}

	out := in.Clone()
	item := &out.Sections[si].Items[ii]
	removed := item.Images[idx]
	item.Images = append(item.Images[:idx], item.Images[idx+1:]...)
	return out, removed, nil
}
