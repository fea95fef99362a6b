package domain

import "time"

// ReadinessCheck returns every required, non-header item whose value is empty
// by its type: an unset yes/no, a blank text or an unticked checkbox.
func (in Inspection) ReadinessCheck() []ItemRef {
	var missing []ItemRef
	for _, s := range in.Sections {
		for _, it := range s.Items {
			if it.Missing() {
				missing = append(missing, ItemRef{SectionID: s.ID, ItemID: it.ID})
			}
		}
	}
	return missing
}

// Complete moves a draft to completed and stamps CompletedAt with now.
// The transition happens once; a second call fails with ErrAlreadyCompleted.
func (in Inspection) Complete(now time.Time) (Inspection, error) {
	if in.IsCompleted() {
		return in, ErrAlreadyCompleted
	}
	if missing := in.ReadinessCheck(); len(missing) > 0 {
		return in, &IncompleteError{Missing: missing}
	}

	out := in.Clone()
	at := now
	out.Status = StatusCompleted
	out.CompletedAt = &at
	return out, nil
}
