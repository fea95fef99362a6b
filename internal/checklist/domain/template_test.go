package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplateValidates(t *testing.T) {
	tests := []struct {
		name  string
		input TemplateInput
	}{
		{name: "blank name", input: TemplateInput{Name: " ", OwnerID: "u"}},
		{name: "no owner", input: TemplateInput{Name: "x"}},
		{name: "blank section title", input: TemplateInput{Name: "x", OwnerID: "u", Sections: []TemplateSectionInput{{Title: ""}}}},
		{name: "unknown item type", input: TemplateInput{Name: "x", OwnerID: "u", Sections: []TemplateSectionInput{{
			Title: "A", Items: []ItemSpecInput{{Type: "slider", Label: "x"}},
		}}}},
		{name: "blank label", input: TemplateInput{Name: "x", OwnerID: "u", Sections: []TemplateSectionInput{{
			Title: "A", Items: []ItemSpecInput{{Type: "text"}},
		}}}},
		{name: "duplicate ids", input: TemplateInput{Name: "x", OwnerID: "u", Sections: []TemplateSectionInput{{
			ID: "s1", Title: "A", Items: []ItemSpecInput{{ID: "s1", Type: "text", Label: "x"}},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTemplate(tt.input, &seqIDs{})
			assert.ErrorIs(t, err, ErrInvalidTemplate)
		})
	}
}

func TestNewTemplateKeepsSuppliedIDsAndNormalisesHeaders(t *testing.T) {
	tpl, err := NewTemplate(TemplateInput{
		Name:    " Bolig ",
		OwnerID: "u",
		Sections: []TemplateSectionInput{{
			ID:    "keep",
			Title: "A",
			Items: []ItemSpecInput{
				{Type: "HEADER", Label: "Afsnit", Required: true, AllowImages: true},
				{ID: "item-keep", Type: "yesno", Label: "Q"},
			},
		}},
	}, &seqIDs{prefix: "g"})
	require.NoError(t, err)

	assert.Equal(t, "Bolig", tpl.Name)
	assert.Equal(t, "keep", tpl.Sections[0].ID)
	assert.Equal(t, "g1", tpl.Sections[0].Items[0].ID)
	assert.Equal(t, "item-keep", tpl.Sections[0].Items[1].ID)
	assert.Equal(t, ItemTypeHeader, tpl.Sections[0].Items[0].Type)
	assert.False(t, tpl.Sections[0].Items[0].Required)
	assert.False(t, tpl.Sections[0].Items[0].AllowImages)
	assert.Equal(t, 2, tpl.ItemCount())
}

func TestTemplateMoveItem(t *testing.T) {
	tpl := safetyTemplate(t)
	section := tpl.Sections[0]
	ids := []string{section.Items[0].ID, section.Items[1].ID, section.Items[2].ID, section.Items[3].ID}

	moved, err := tpl.MoveItem(ItemRef{SectionID: section.ID, ItemID: ids[3]}, 0)
	require.NoError(t, err)
	got := []string{}
	for _, it := range moved.Sections[0].Items {
		got = append(got, it.ID)
	}
	assert.Equal(t, []string{ids[3], ids[0], ids[1], ids[2]}, got)
	assert.Equal(t, ids[0], tpl.Sections[0].Items[0].ID, "original must be untouched")

	moved, err = tpl.MoveItem(ItemRef{SectionID: section.ID, ItemID: ids[0]}, 99)
	require.NoError(t, err)
	assert.Equal(t, ids[0], moved.Sections[0].Items[3].ID)

	_, err = tpl.MoveItem(ItemRef{SectionID: section.ID, ItemID: "nope"}, 0)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestTemplateMoveSection(t *testing.T) {
	tpl := safetyTemplate(t)
	second := tpl.Sections[1].ID

	moved, err := tpl.MoveSection(second, 0)
	require.NoError(t, err)
	assert.Equal(t, second, moved.Sections[0].ID)
	assert.Equal(t, second, tpl.Sections[1].ID)

	_, err = tpl.MoveSection("nope", 0)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}
