package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/elkontrol/inspections/api/internal/checklist/application"
	"github.com/elkontrol/inspections/api/internal/checklist/domain"
)

const (
	fontFamily     = "Helvetica"
	thumbnailGap   = 3.0
	maxImageBytes  = 8 << 20
	fontSizeBody   = 10
	fontSizeTitle  = 12
	fontSizeHeader = 14
)

// ImageSource opens stored attachment binaries.
type ImageSource interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// PDFRenderer prints formatted inspections with fpdf. Thumbnails that cannot
// be loaded are drawn as labelled frames.
type PDFRenderer struct {
	layout Layout
	images ImageSource
	logger *zap.Logger
}

func NewPDFRenderer(layout Layout, images ImageSource, logger *zap.Logger) *PDFRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFRenderer{layout: layout, images: images, logger: logger}
}

// Render implements application.ReportRenderer.
func (r *PDFRenderer) Render(ctx context.Context, in domain.Inspection, h application.ReportHeader) ([]byte, error) {
	doc := Format(in, Header{
		Customer:     h.Customer,
		Address:      h.Address,
		Installation: h.Installation,
		Inspector:    h.Inspector,
		CompletedAt:  h.CompletedAt,
	}, r.layout)

	var buf bytes.Buffer
	if err := r.Write(ctx, doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write prints doc to w.
func (r *PDFRenderer) Write(ctx context.Context, doc Document, w io.Writer) error {
	l := doc.Layout
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: l.PageWidth, Ht: l.PageHeight},
	})
	pdf.SetTitle(doc.Title, true)
	pdf.SetMargins(l.MarginLeft, l.MarginTop, l.MarginRight)
	pdf.SetAutoPageBreak(false, l.MarginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	width := l.PageWidth - l.MarginLeft - l.MarginRight
	imageSeq := 0

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, b := range page.Blocks {
			y := l.MarginTop + b.Y
			r.setFont(pdf, b.Kind)
			for i, line := range b.Lines {
				pdf.SetXY(l.MarginLeft, y+float64(i)*l.LineHeight)
				pdf.CellFormat(width, l.LineHeight, tr(line), "", 0, "L", false, 0, "")
			}
			if len(b.Thumbnails) == 0 {
				continue
			}
			stripY := y + float64(len(b.Lines))*l.LineHeight
			perRow := l.ThumbnailsPerRow
			if perRow <= 0 {
				perRow = 1
			}
			thumbW := (width - float64(perRow-1)*thumbnailGap) / float64(perRow)
			thumbH := l.ThumbnailHeight - thumbnailGap
			for i, thumb := range b.Thumbnails {
				x := l.MarginLeft + float64(i%perRow)*(thumbW+thumbnailGap)
				ty := stripY + float64(i/perRow)*l.ThumbnailHeight
				imageSeq++
				if !r.drawImage(ctx, pdf, fmt.Sprintf("img%d", imageSeq), thumb, x, ty, thumbW, thumbH) {
					pdf.Rect(x, ty, thumbW, thumbH, "D")
					pdf.SetFont(fontFamily, "", 7)
					pdf.SetXY(x+1, ty+1)
					pdf.CellFormat(thumbW-2, 4, tr(thumb.Name), "", 0, "L", false, 0, "")
					r.setFont(pdf, b.Kind)
				}
			}
		}
		pdf.SetFont(fontFamily, "", 8)
		pdf.SetXY(l.MarginLeft, l.PageHeight-l.MarginBottom+5)
		pdf.CellFormat(width, l.LineHeight, tr(page.Footer()), "", 0, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (r *PDFRenderer) setFont(pdf *fpdf.Fpdf, kind BlockKind) {
	switch kind {
	case BlockHeader:
		pdf.SetFont(fontFamily, "B", fontSizeHeader)
	case BlockSectionTitle:
		pdf.SetFont(fontFamily, "B", fontSizeTitle)
	case BlockItemHeader:
		pdf.SetFont(fontFamily, "BI", fontSizeBody)
	default:
		pdf.SetFont(fontFamily, "", fontSizeBody)
	}
}

// drawImage only hands fpdf data that decodes, since a registration error
// would poison the whole document.
func (r *PDFRenderer) drawImage(ctx context.Context, pdf *fpdf.Fpdf, name string, thumb Thumbnail, x, y, w, h float64) bool {
	if r.images == nil || thumb.Path == "" {
		return false
	}
	rc, err := r.images.Open(ctx, thumb.Path)
	if err != nil {
		r.logger.Warn("failed to open report image", zap.String("path", thumb.Path), zap.Error(err))
		return false
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxImageBytes))
	if err != nil {
		r.logger.Warn("failed to read report image", zap.String("path", thumb.Path), zap.Error(err))
		return false
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return false
	}
	imageType := map[string]string{"jpeg": "JPG", "png": "PNG", "gif": "GIF"}[format]
	if imageType == "" {
		return false
	}
	opts := fpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if !pdf.Ok() {
		return false
	}
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return true
}
