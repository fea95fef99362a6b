package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/elkontrol/inspections/api/internal/checklist/domain"
)

var errBoom = errors.New("boom")

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type seqIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	if g.prefix == "" {
		return fmt.Sprintf("id-%d", g.n)
	}
	return fmt.Sprintf("%s%d", g.prefix, g.n)
}

type memTemplates struct {
	items     map[string]domain.Template
	createErr error
}

func newMemTemplates(templates ...domain.Template) *memTemplates {
	repo := &memTemplates{items: map[string]domain.Template{}}
	for _, tpl := range templates {
		repo.items[tpl.ID] = tpl
	}
	return repo
}

func (r *memTemplates) FindByOwner(_ context.Context, ownerID string, _ TemplateFilter) ([]domain.Template, error) {
	var out []domain.Template
	for _, tpl := range r.items {
		if tpl.OwnerID == ownerID {
			out = append(out, tpl)
		}
	}
	return out, nil
}

func (r *memTemplates) FindByID(_ context.Context, id string) (*domain.Template, error) {
	tpl, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &tpl, nil
}

func (r *memTemplates) Create(_ context.Context, tpl *domain.Template) error {
	if r.createErr != nil {
		return r.createErr
	}
	if tpl.ID == "" {
		tpl.ID = fmt.Sprintf("tpl-%d", len(r.items)+1)
	}
	r.items[tpl.ID] = *tpl
	return nil
}

func (r *memTemplates) Update(_ context.Context, tpl *domain.Template) error {
	if _, ok := r.items[tpl.ID]; !ok {
		return ErrNotFound
	}
	r.items[tpl.ID] = *tpl
	return nil
}

func (r *memTemplates) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

type memInspections struct {
	items     map[string]domain.Inspection
	updateErr error
	updates   int
}

func newMemInspections() *memInspections {
	return &memInspections{items: map[string]domain.Inspection{}}
}

func (r *memInspections) Find(_ context.Context, filter InspectionFilter, _ Paging) ([]domain.Inspection, error) {
	var out []domain.Inspection
	for _, in := range r.items {
		if in.OwnerID == filter.OwnerID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (r *memInspections) FindByID(_ context.Context, id string) (*domain.Inspection, error) {
	in, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := in.Clone()
	return &clone, nil
}

func (r *memInspections) Create(_ context.Context, in *domain.Inspection) error {
	if in.ID == "" {
		in.ID = fmt.Sprintf("insp-%d", len(r.items)+1)
	}
	r.items[in.ID] = in.Clone()
	return nil
}

func (r *memInspections) Update(_ context.Context, in *domain.Inspection) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates++
	r.items[in.ID] = in.Clone()
	return nil
}

func (r *memInspections) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

type memStore struct {
	objects   map[string][]byte
	putErr    error
	deleteErr error
	deleted   []string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Put(_ context.Context, obj Object) (StoredObject, error) {
	if s.putErr != nil {
		return StoredObject{}, s.putErr
	}
	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return StoredObject{}, err
	}
	s.objects[obj.Path] = data
	return StoredObject{Path: obj.Path, URL: "https://cdn.test/" + obj.Path}, nil
}

func (s *memStore) Delete(_ context.Context, path string) error {
	s.deleted = append(s.deleted, path)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, path)
	return nil
}

func boligTemplate(t *testing.T, owner string) domain.Template {
	t.Helper()
	tpl, err := domain.NewTemplate(domain.TemplateInput{
		Name:    "Bolig",
		OwnerID: owner,
		Sections: []domain.TemplateSectionInput{{
			Title: "Tavle",
			Items: []domain.ItemSpecInput{
				{Type: "header", Label: "Generelt"},
				{Type: "yesno", Label: "Dæksler monteret", Required: true, AllowImages: true},
				{Type: "text", Label: "Bemærkning"},
			},
		}},
	}, &seqIDs{prefix: "tpl-item-"})
	require.NoError(t, err)
	tpl.ID = "tpl-bolig"
	return tpl
}

// seededInspection stores a draft built from the bolig template for owner.
func seededInspection(t *testing.T, repo *memInspections, owner string) domain.Inspection {
	t.Helper()
	in, err := domain.BuildInspection(domain.NewInspection{Name: "Kontrol", OwnerID: owner}, []domain.Template{boligTemplate(t, owner)}, &seqIDs{prefix: "seed-"})
	require.NoError(t, err)
	in.ID = "insp-1"
	require.NoError(t, repo.Create(context.Background(), &in))
	return in
}

func itemRef(in domain.Inspection, section, item int) domain.ItemRef {
	return domain.ItemRef{SectionID: in.Sections[section].ID, ItemID: in.Sections[section].Items[item].ID}
}
