package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elkontrol/inspections/api/internal/checklist/domain"
)

type stubHeaders struct {
	header ReportHeader
	calls  int
}

func (s *stubHeaders) Resolve(context.Context, string, domain.Inspection) (ReportHeader, error) {
	s.calls++
	return s.header, nil
}

type countingRenderer struct {
	calls int
	last  ReportHeader
}

func (r *countingRenderer) Render(_ context.Context, in domain.Inspection, header ReportHeader) ([]byte, error) {
	r.calls++
	r.last = header
	return []byte("%PDF " + in.ID), nil
}

type memCache struct {
	data   map[string][]byte
	getErr error
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	data, ok := c.data[key]
	return data, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte) error {
	c.data[key] = data
	return nil
}

func completedInspection(t *testing.T, repo *memInspections) domain.Inspection {
	t.Helper()
	seeded := seededInspection(t, repo, "user-1")
	svc := NewInspectionService(repo, newMemTemplates(), nil, &seqIDs{}, fixedClock)
	_, err := svc.UpdateItem(context.Background(), "user-1", seeded.ID, itemRef(seeded, 0, 1), UpdateItemCommand{Value: domain.YesNoValue{Answer: domain.Yes}})
	require.NoError(t, err)
	done, err := svc.Complete(context.Background(), "user-1", seeded.ID)
	require.NoError(t, err)
	return *done
}

func TestReportRequiresCompletedInspection(t *testing.T) {
	repo := newMemInspections()
	seeded := seededInspection(t, repo, "user-1")
	renderer := &countingRenderer{}
	svc := NewReportService(repo, &stubHeaders{}, renderer, nil, nil)

	_, err := svc.Report(context.Background(), "user-1", "Jens", seeded.ID)
	assert.ErrorIs(t, err, ErrNotCompleted)
	assert.Zero(t, renderer.calls)

	_, err = svc.Report(context.Background(), "user-2", "Jens", seeded.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportIsCached(t *testing.T) {
	repo := newMemInspections()
	done := completedInspection(t, repo)
	headers := &stubHeaders{header: ReportHeader{Customer: "Hansen", Address: "Vestergade 1"}}
	renderer := &countingRenderer{}
	cache := &memCache{data: map[string][]byte{}}
	svc := NewReportService(repo, headers, renderer, cache, nil)

	first, err := svc.Report(context.Background(), "user-1", "Jens", done.ID)
	require.NoError(t, err)
	second, err := svc.Report(context.Background(), "user-1", "Jens", done.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, "Jens", renderer.last.Inspector)
	assert.Equal(t, *done.CompletedAt, renderer.last.CompletedAt)

	headers.header.Customer = "Hansen ApS"
	_, err = svc.Report(context.Background(), "user-1", "Jens", done.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, renderer.calls, "a changed header is a new report")
}

func TestReportCacheFailureFallsBackToRendering(t *testing.T) {
	repo := newMemInspections()
	done := completedInspection(t, repo)
	renderer := &countingRenderer{}
	cache := &memCache{data: map[string][]byte{}, getErr: errBoom}
	svc := NewReportService(repo, &stubHeaders{}, renderer, cache, nil)

	data, err := svc.Report(context.Background(), "user-1", "Jens", done.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF insp-1"), data)
}
