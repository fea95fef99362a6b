package report

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elkontrol/inspections/api/internal/checklist/application"
)

type mapImages map[string][]byte

func (m mapImages) Open(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := m[path]
	if !ok {
		return nil, errors.New("missing")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.SetGray(1, 1, color.Gray{Y: 200})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPDFRendererProducesDocument(t *testing.T) {
	renderer := NewPDFRenderer(DefaultLayout(), mapImages{"p/a1.jpg": tinyPNG(t)}, nil)
	data, err := renderer.Render(context.Background(), sampleInspection(), application.ReportHeader{
		Customer:    "Hansen ApS",
		Inspector:   "Jens Ærø",
		CompletedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestPDFRendererToleratesBrokenImages(t *testing.T) {
	in := longInspection(2, 30)
	base := sampleInspection()
	in.Sections = append(in.Sections, base.Sections...)

	renderer := NewPDFRenderer(DefaultLayout(), mapImages{"p/a1.jpg": []byte("not an image")}, nil)
	data, err := renderer.Render(context.Background(), in, application.ReportHeader{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	renderer = NewPDFRenderer(DefaultLayout(), nil, nil)
	_, err = renderer.Render(context.Background(), in, application.ReportHeader{})
	require.NoError(t, err)
}
