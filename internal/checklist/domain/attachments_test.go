package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func photo(id string) Attachment {
	return Attachment{
		ID:          id,
		URL:         "https://cdn.example.com/" + id + ".jpg",
		Path:        "inspections/x/" + id + ".jpg",
		Name:        id + ".jpg",
		ContentType: "image/jpeg",
		Size:        2048,
		UploadedAt:  time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAddAttachmentTargetsItemByID(t *testing.T) {
	in := buildDraft(t, safetyTemplate(t))
	target := refAt(in, 1, 0)

	next, err := in.AddAttachment(target, photo("a1"))
	require.NoError(t, err)

	for si, s := range next.Sections {
		for ii, it := range s.Items {
			if it.ID == target.ItemID {
				assert.Equal(t, []Attachment{photo("a1")}, it.Images)
				continue
			}
			assert.Equal(t, in.Sections[si].Items[ii], it)
		}
	}
	assert.Empty(t, in.Sections[1].Items[0].Images)
}

func TestAddAttachmentErrors(t *testing.T) {
	in := buildDraft(t, safetyTemplate(t))

	_, err := in.AddAttachment(refAt(in, 0, 2), photo("a"))
	assert.ErrorIs(t, err, ErrNotAllowed)

	_, err = in.AddAttachment(refAt(in, 0, 0), photo("a"))
	assert.ErrorIs(t, err, ErrNotAllowed)

	_, err = in.AddAttachment(ItemRef{SectionID: "nope", ItemID: "nope"}, photo("a"))
	assert.ErrorIs(t, err, ErrInvalidTarget)

	next, err := in.AddAttachment(refAt(in, 0, 1), photo("a"))
	require.NoError(t, err)
	_, err = next.AddAttachment(refAt(in, 0, 1), photo("a"))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestRemoveAttachment(t *testing.T) {
	in := buildDraft(t, safetyTemplate(t))
	ref := refAt(in, 0, 1)

	with, err := in.AddAttachment(ref, photo("a1"))
	require.NoError(t, err)
	with, err = with.AddAttachment(ref, photo("a2"))
	require.NoError(t, err)

	without, removed, err := with.RemoveAttachment(ref, "a1")
	require.NoError(t, err)
	assert.Equal(t, photo("a1"), removed)
	item, _ := without.Item(ref)
	assert.Equal(t, []Attachment{photo("a2")}, item.Images)

	_, _, err = without.RemoveAttachment(ref, "a1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttachmentRoundTrip(t *testing.T) {
	in := buildDraft(t, safetyTemplate(t))
	ref := refAt(in, 1, 0)

	with, err := in.AddAttachment(ref, photo("rt"))
	require.NoError(t, err)
	back, _, err := with.RemoveAttachment(ref, "rt")
	require.NoError(t, err)

	if diff := cmp.Diff(in, back); diff != "" {
		t.Fatalf("round trip changed inspection (-want +got):\n%s", diff)
	}
}
