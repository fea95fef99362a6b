package application

import (
	"context"

	"github.com/elkontrol/inspections/api/internal/checklist/domain"
)

type templateService struct {
	repo  TemplateRepository
	ids   domain.IDGenerator
	clock Clock
}

func NewTemplateService(repo TemplateRepository, ids domain.IDGenerator, clock Clock) TemplateService {
	return &templateService{repo: repo, ids: ids, clock: clock}
}

func (s *templateService) List(ctx context.Context, ownerID string, filter TemplateFilter) ([]domain.Template, error) {
	return s.repo.FindByOwner(ctx, ownerID, filter)
}

func (s *templateService) Detail(ctx context.Context, ownerID, id string) (*domain.Template, error) {
	return loadTemplate(ctx, s.repo, ownerID, id)
}

func (s *templateService) Create(ctx context.Context, input domain.TemplateInput) (*domain.Template, error) {
	tpl, err := domain.NewTemplate(input, s.ids)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now
	if err := s.repo.Create(ctx, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *templateService) Update(ctx context.Context, id string, input domain.TemplateInput) (*domain.Template, error) {
	existing, err := loadTemplate(ctx, s.repo, input.OwnerID, id)
	if err != nil {
		return nil, err
	}
	tpl, err := domain.NewTemplate(input, s.ids)
	if err != nil {
		return nil, err
	}
	tpl.ID = existing.ID
	tpl.CreatedAt = existing.CreatedAt
	tpl.UpdatedAt = s.clock()
	if err := s.repo.Update(ctx, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Delete removes the template only. Inspections built from it keep their own copy.
func (s *templateService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := loadTemplate(ctx, s.repo, ownerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *templateService) MoveSection(ctx context.Context, ownerID, id, sectionID string, to int) (*domain.Template, error) {
	return s.reorder(ctx, ownerID, id, func(tpl domain.Template) (domain.Template, error) {
		return tpl.MoveSection(sectionID, to)
	})
}

func (s *templateService) MoveItem(ctx context.Context, ownerID, id string, ref domain.ItemRef, to int) (*domain.Template, error) {
	return s.reorder(ctx, ownerID, id, func(tpl domain.Template) (domain.Template, error) {
		return tpl.MoveItem(ref, to)
	})
}

func (s *templateService) reorder(ctx context.Context, ownerID, id string, apply func(domain.Template) (domain.Template, error)) (*domain.Template, error) {
	existing, err := loadTemplate(ctx, s.repo, ownerID, id)
	if err != nil {
		return nil, err
	}
	next, err := apply(*existing)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = s.clock()
	if err := s.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// loadTemplate hides templates of other owners behind ErrNotFound.
func loadTemplate(ctx context.Context, repo TemplateRepository, ownerID, id string) (*domain.Template, error) {
	tpl, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return tpl, nil
}
