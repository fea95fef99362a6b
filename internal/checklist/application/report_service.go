package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/elkontrol/inspections/api/internal/checklist/domain"
)

// ReportHeader is the caller supplied context printed above the checklist.
type ReportHeader struct {
	Customer     string
	Address      string
	Installation string
	Inspector    string
	CompletedAt  time.Time
}

// HeaderResolver looks up the directory entries an inspection refers to.
type HeaderResolver interface {
	Resolve(ctx context.Context, ownerID string, in domain.Inspection) (ReportHeader, error)
}

// ReportRenderer turns an inspection into a printable document.
type ReportRenderer interface {
	Render(ctx context.Context, in domain.Inspection, header ReportHeader) ([]byte, error)
}

// ReportCache keeps rendered reports. A miss is (nil, false, nil).
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// ReportService renders reports of completed inspections.
type ReportService interface {
	Report(ctx context.Context, ownerID, inspector, id string) ([]byte, error)
}

type reportService struct {
	repo     InspectionRepository
	headers  HeaderResolver
	renderer ReportRenderer
	cache    ReportCache
	logger   *zap.Logger
}

// NewReportService wires the report use-case. cache may be nil.
func NewReportService(repo InspectionRepository, headers HeaderResolver, renderer ReportRenderer, cache ReportCache, logger *zap.Logger) ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &reportService{repo: repo, headers: headers, renderer: renderer, cache: cache, logger: logger}
}

func (s *reportService) Report(ctx context.Context, ownerID, inspector, id string) ([]byte, error) {
	in, err := loadInspection(ctx, s.repo, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !in.IsCompleted() || in.CompletedAt == nil {
		return nil, ErrNotCompleted
	}

	header, err := s.headers.Resolve(ctx, ownerID, *in)
	if err != nil {
		return nil, fmt.Errorf("resolve report header: %w", err)
	}
	header.Inspector = inspector
	header.CompletedAt = *in.CompletedAt

	key := reportCacheKey(in.ID, header)
	if s.cache != nil {
		data, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn("report cache read failed", zap.String("inspectionId", in.ID), zap.Error(err))
		case ok:
			return data, nil
		}
	}

	data, err := s.renderer.Render(ctx, *in, header)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, data); err != nil {
			s.logger.Warn("report cache write failed", zap.String("inspectionId", in.ID), zap.Error(err))
		}
	}
	return data, nil
}

// reportCacheKey changes whenever the printed header changes. The checklist
// itself is frozen once CompletedAt is set.
func reportCacheKey(inspectionID string, h ReportHeader) string {
	digest := xxhash.New()
	for _, part := range []string{h.Customer, h.Address, h.Installation, h.Inspector} {
		_, _ = digest.WriteString(part)
		_, _ = digest.Write([]byte{0})
	}
	return fmt.Sprintf("report:%s:%d:%016x", inspectionID, h.CompletedAt.UnixNano(), digest.Sum64())
}
