package application

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/elkontrol/inspections/api/internal/checklist/domain"
)

type attachmentService struct {
	repo   InspectionRepository
	store  ObjectStore
	ids    domain.IDGenerator
	clock  Clock
	logger *zap.Logger
}

func NewAttachmentService(repo InspectionRepository, store ObjectStore, ids domain.IDGenerator, clock Clock, logger *zap.Logger) AttachmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &attachmentService{repo: repo, store: store, ids: ids, clock: clock, logger: logger}
}

// Upload stores the binary first and records its metadata second. A failed
// upload leaves the inspection untouched; a failed save removes the orphaned object.
func (s *attachmentService) Upload(ctx context.Context, ownerID, id string, ref domain.ItemRef, cmd UploadCommand) (*domain.Inspection, *domain.Attachment, error) {
	current, err := loadInspection(ctx, s.repo, ownerID, id)
	if err != nil {
		return nil, nil, err
	}
	if err := current.CanAttach(ref); err != nil {
		return nil, nil, err
	}
	contentType := strings.ToLower(strings.TrimSpace(cmd.ContentType))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, nil, &domain.ItemError{Err: domain.ErrInvalidValue, Ref: ref, Detail: "only images can be attached"}
	}

	attachmentID := s.ids.NewID()
	stored, err := s.store.Put(ctx, Object{
		Path:        objectPath(current.ID, ref, attachmentID, cmd.Name, contentType),
		ContentType: contentType,
		Size:        cmd.Size,
		Body:        cmd.Body,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("upload attachment: %w", err)
	}

	att := domain.Attachment{
		ID:          attachmentID,
		URL:         stored.URL,
		Path:        stored.Path,
		Name:        strings.TrimSpace(cmd.Name),
		ContentType: contentType,
		Size:        cmd.Size,
		UploadedAt:  s.clock(),
	}
	next, err := current.AddAttachment(ref, att)
	if err != nil {
		s.discard(ctx, stored.Path)
		return nil, nil, err
	}
	next.UpdatedAt = s.clock()
	if err := s.repo.Update(ctx, &next); err != nil {
		s.discard(ctx, stored.Path)
		return nil, nil, err
	}
	return &next, &att, nil
}

// Remove persists the inspection without the attachment before deleting the object.
func (s *attachmentService) Remove(ctx context.Context, ownerID, id string, ref domain.ItemRef, attachmentID string) (*domain.Inspection, error) {
	current, err := loadInspection(ctx, s.repo, ownerID, id)
	if err != nil {
		return nil, err
	}
	next, removed, err := current.RemoveAttachment(ref, attachmentID)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = s.clock()
	if err := s.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	if removed.Path != "" {
		s.discard(ctx, removed.Path)
	}
	return &next, nil
}

func (s *attachmentService) discard(ctx context.Context, objectPath string) {
	if err := s.store.Delete(context.WithoutCancel(ctx), objectPath); err != nil {
		s.logger.Warn("failed to delete stored attachment", zap.String("path", objectPath), zap.Error(err))
	}
}

// objectPath lays attachments out as inspections/{inspection}/{item}/{attachment}{ext}.
func objectPath(inspectionID string, ref domain.ItemRef, attachmentID, name, contentType string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(name)))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return path.Join("inspections", inspectionID, ref.ItemID, attachmentID+ext)
}
