package application

import (
	"context"
	"strings"

	"github.com/elkontrol/inspections/api/internal/checklist/domain"
)

type inspectionService struct {
	repo      InspectionRepository
	templates TemplateRepository
	refs      DirectoryReferences
	ids       domain.IDGenerator
	clock     Clock
}

// NewInspectionService wires the inspection use-cases. refs may be nil, in
// which case directory ids are stored as given.
func NewInspectionService(repo InspectionRepository, templates TemplateRepository, refs DirectoryReferences, ids domain.IDGenerator, clock Clock) InspectionService {
	return &inspectionService{repo: repo, templates: templates, refs: refs, ids: ids, clock: clock}
}

func (s *inspectionService) List(ctx context.Context, filter InspectionFilter, paging Paging) ([]domain.Inspection, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *inspectionService) Detail(ctx context.Context, ownerID, id string) (*domain.Inspection, error) {
	return loadInspection(ctx, s.repo, ownerID, id)
}

// Create checks the directory references, loads the selected templates in the
// requested order and materialises them.
func (s *inspectionService) Create(ctx context.Context, cmd CreateInspectionCommand) (*domain.Inspection, error) {
	if len(cmd.TemplateIDs) == 0 {
		return nil, domain.ErrNoTemplatesSelected
	}
	draft := cmd.Inspection
	if s.refs != nil {
		err := s.refs.Check(ctx, draft.OwnerID, DirectoryRefs{
			CustomerID:     strings.TrimSpace(draft.CustomerID),
			AddressID:      strings.TrimSpace(draft.AddressID),
			InstallationID: strings.TrimSpace(draft.InstallationID),
		})
		if err != nil {
			return nil, err
		}
	}
	templates := make([]domain.Template, 0, len(cmd.TemplateIDs))
	for _, templateID := range cmd.TemplateIDs {
		tpl, err := loadTemplate(ctx, s.templates, cmd.Inspection.OwnerID, templateID)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *tpl)
	}

	in, err := domain.BuildInspection(cmd.Inspection, templates, s.ids)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	in.CreatedAt = now
	in.UpdatedAt = now
	if err := s.repo.Create(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// Delete removes the inspection document. Stored attachments are left in place.
func (s *inspectionService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := loadInspection(ctx, s.repo, ownerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// UpdateItem applies label, value and notes in that order. A completed
// inspection is refused before the command is looked at.
func (s *inspectionService) UpdateItem(ctx context.Context, ownerID, id string, ref domain.ItemRef, cmd UpdateItemCommand) (*domain.Inspection, error) {
	return s.mutate(ctx, ownerID, id, func(in domain.Inspection) (domain.Inspection, error) {
		if in.IsCompleted() {
			return in, domain.ErrFrozen
		}
		if cmd.Label == nil && cmd.Value == nil && cmd.Notes == nil {
			return in, &domain.ItemError{Err: domain.ErrInvalidValue, Ref: ref, Detail: "nothing to update"}
		}
		var err error
		if cmd.Label != nil {
			if in, err = in.EditItemLabel(ref, *cmd.Label); err != nil {
				return in, err
			}
		}
		if cmd.Value != nil {
			if in, err = in.SetValue(ref, cmd.Value); err != nil {
				return in, err
			}
		}
		if cmd.Notes != nil {
			if in, err = in.SetNotes(ref, *cmd.Notes); err != nil {
				return in, err
			}
		}
		return in, nil
	})
}

func (s *inspectionService) AddItem(ctx context.Context, ownerID, id, sectionID string, input domain.ItemSpecInput) (*domain.Inspection, *domain.Item, error) {
	var added domain.Item
	in, err := s.mutate(ctx, ownerID, id, func(in domain.Inspection) (domain.Inspection, error) {
		next, item, err := in.AddItem(sectionID, input, s.ids)
		added = item
		return next, err
	})
	if err != nil {
		return nil, nil, err
	}
	return in, &added, nil
}

func (s *inspectionService) RemoveItem(ctx context.Context, ownerID, id string, ref domain.ItemRef) (*domain.Inspection, error) {
	return s.mutate(ctx, ownerID, id, func(in domain.Inspection) (domain.Inspection, error) {
		next, _, err := in.RemoveItem(ref)
		return next, err
	})
}

func (s *inspectionService) Complete(ctx context.Context, ownerID, id string) (*domain.Inspection, error) {
	return s.mutate(ctx, ownerID, id, func(in domain.Inspection) (domain.Inspection, error) {
		return in.Complete(s.clock())
	})
}

func (s *inspectionService) DeriveTemplate(ctx context.Context, ownerID, id, name string) (*domain.Template, error) {
	in, err := loadInspection(ctx, s.repo, ownerID, id)
	if err != nil {
		return nil, err
	}
	tpl, err := in.DeriveTemplate(name, ownerID, s.ids)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	tpl.Description = "Afledt af " + in.Name
	tpl.CreatedAt = now
	tpl.UpdatedAt = now
	if err := s.templates.Create(ctx, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// mutate loads, applies and persists. The new value is only handed back once
// the write succeeded, so callers never treat an unsaved state as committed.
func (s *inspectionService) mutate(ctx context.Context, ownerID, id string, apply func(domain.Inspection) (domain.Inspection, error)) (*domain.Inspection, error) {
	current, err := loadInspection(ctx, s.repo, ownerID, id)
	if err != nil {
		return nil, err
	}
	next, err := apply(*current)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = s.clock()
	if err := s.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func loadInspection(ctx context.Context, repo InspectionRepository, ownerID, id string) (*domain.Inspection, error) {
	in, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return in, nil
}
