package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elkontrol/inspections/api/internal/checklist/domain"
)

func TestTemplateServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newMemTemplates()
	svc := NewTemplateService(repo, &seqIDs{}, fixedClock)

	created, err := svc.Create(ctx, domain.TemplateInput{
		Name:    "Erhverv",
		OwnerID: "user-1",
		Sections: []domain.TemplateSectionInput{
			{Title: "Tavle", Items: []domain.ItemSpecInput{{Type: "yesno", Label: "Mærket"}}},
			{Title: "Udendørs", Items: []domain.ItemSpecInput{{Type: "text", Label: "Lamper"}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, created.CreatedAt)

	_, err = svc.Create(ctx, domain.TemplateInput{Name: " ", OwnerID: "user-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidTemplate)

	moved, err := svc.MoveSection(ctx, "user-1", created.ID, created.Sections[1].ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Udendørs", moved.Sections[0].Title)
	assert.Equal(t, "Udendørs", repo.items[created.ID].Sections[0].Title)

	_, err = svc.MoveSection(ctx, "user-2", created.ID, created.Sections[1].ID, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx, "user-1", TemplateFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, svc.Delete(ctx, "user-2", created.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "user-1", created.ID))
	_, err = svc.Detail(ctx, "user-1", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplateServiceUpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	original := boligTemplate(t, "user-1")
	original.CreatedAt = fixedNow.Add(-time.Hour)
	repo := newMemTemplates(original)
	svc := NewTemplateService(repo, &seqIDs{}, fixedClock)

	updated, err := svc.Update(ctx, original.ID, domain.TemplateInput{
		Name:    "Bolig v2",
		OwnerID: "user-1",
		Sections: []domain.TemplateSectionInput{{
			ID:    original.Sections[0].ID,
			Title: "Tavle",
			Items: []domain.ItemSpecInput{{Type: "checkbox", Label: "Tilspændt"}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.Equal(t, fixedNow, updated.UpdatedAt)
	assert.Equal(t, original.Sections[0].ID, updated.Sections[0].ID)

	_, err = svc.Update(ctx, original.ID, domain.TemplateInput{Name: "Kapret", OwnerID: "user-2"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplateServiceMoveItem(t *testing.T) {
	ctx := context.Background()
	tpl := boligTemplate(t, "user-1")
	svc := NewTemplateService(newMemTemplates(tpl), &seqIDs{}, fixedClock)

	ref := domain.ItemRef{SectionID: tpl.Sections[0].ID, ItemID: tpl.Sections[0].Items[2].ID}
	moved, err := svc.MoveItem(ctx, "user-1", tpl.ID, ref, 0)
	require.NoError(t, err)
	assert.Equal(t, "Bemærkning", moved.Sections[0].Items[0].Label)
}
