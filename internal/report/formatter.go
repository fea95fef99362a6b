// Package report lays an inspection out on numbered pages and renders it as PDF.
package report

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/elkontrol/inspections/api/internal/checklist/domain"
)

// Header is the context printed above the checklist. It is supplied by the caller.
type Header struct {
	Customer     string
	Address      string
	Installation string
	Inspector    string
	CompletedAt  time.Time
}

// Layout holds page geometry in millimetres.
type Layout struct {
	PageWidth        float64
	PageHeight       float64
	MarginTop        float64
	MarginBottom     float64
	MarginLeft       float64
	MarginRight      float64
	LineHeight       float64
	CharsPerLine     int
	ThumbnailHeight  float64
	ThumbnailsPerRow int
	Location         *time.Location
}

// DefaultLayout is A4 portrait at 10pt.
func DefaultLayout() Layout {
	return Layout{
		PageWidth:        210,
		PageHeight:       297,
		MarginTop:        15,
		MarginBottom:     20,
		MarginLeft:       15,
		MarginRight:      15,
		LineHeight:       5.5,
		CharsPerLine:     95,
		ThumbnailHeight:  32,
		ThumbnailsPerRow: 5,
		Location:         time.UTC,
	}
}

// Capacity is the usable height of one page.
func (l Layout) Capacity() float64 {
	return l.PageHeight - l.MarginTop - l.MarginBottom
}

type BlockKind string

const (
	BlockHeader       BlockKind = "header"
	BlockSectionTitle BlockKind = "section"
	BlockItemHeader   BlockKind = "item-header"
	BlockItem         BlockKind = "item"
	BlockSignature    BlockKind = "signature"
)

// Thumbnail references one attachment printed in an item's image strip.
type Thumbnail struct {
	Path        string
	URL         string
	Name        string
	ContentType string
}

// Block is a unit of content. Y is its offset from the top margin. A block
// taller than the room left on a page is cut at a line or image row; the
// remainder opens with Title marked as continued.
type Block struct {
	Kind       BlockKind
	Title      string
	Lines      []string
	Thumbnails []Thumbnail
	Height     float64
	Y          float64
	Continued  bool
}

// ThumbnailRows returns how many image rows the block occupies.
func (b Block) ThumbnailRows(perRow int) int {
	if len(b.Thumbnails) == 0 {
		return 0
	}
	if perRow <= 0 {
		perRow = 1
	}
	return (len(b.Thumbnails) + perRow - 1) / perRow
}

type Page struct {
	Number int
	Total  int
	Blocks []Block
}

// Footer is the page label printed in the bottom margin.
func (p Page) Footer() string {
	return fmt.Sprintf("Side %d/%d", p.Number, p.Total)
}

type Document struct {
	Title  string
	Layout Layout
	Pages  []Page
}

// Format walks the inspection tree and paginates it. It does not look at the
// inspection status; callers decide which inspections get a report.
func Format(in domain.Inspection, header Header, layout Layout) Document {
	if layout.Location == nil {
		layout.Location = time.UTC
	}
	blocks := []Block{headerBlock(in, header, layout)}
	for _, section := range in.Sections {
		blocks = append(blocks, measure(Block{Kind: BlockSectionTitle, Title: section.Title, Lines: wrap(section.Title, layout.CharsPerLine)}, layout))
		for _, item := range section.Items {
			blocks = append(blocks, itemBlock(item, layout))
		}
	}
	blocks = append(blocks, signatureBlock(header, layout))

	return Document{
		Title:  in.Name,
		Layout: layout,
		Pages:  paginate(blocks, layout),
	}
}

func headerBlock(in domain.Inspection, h Header, layout Layout) Block {
	date := ""
	if !h.CompletedAt.IsZero() {
		date = h.CompletedAt.In(layout.Location).Format("02-01-2006")
	}
	var lines []string
	lines = append(lines, wrap("Inspektionsrapport: "+in.Name, layout.CharsPerLine)...)
	lines = append(lines, wrap("Kunde: "+h.Customer, layout.CharsPerLine)...)
	lines = append(lines, wrap("Adresse: "+h.Address, layout.CharsPerLine)...)
	lines = append(lines, wrap("Installation: "+h.Installation, layout.CharsPerLine)...)
	lines = append(lines, wrap("Inspektør: "+h.Inspector, layout.CharsPerLine)...)
	lines = append(lines, "Dato: "+date)
	return measure(Block{Kind: BlockHeader, Title: "Inspektionsrapport", Lines: lines}, layout)
}

func itemBlock(item domain.Item, layout Layout) Block {
	if item.Type == domain.ItemTypeHeader {
		return measure(Block{Kind: BlockItemHeader, Title: item.Label, Lines: wrap(item.Label, layout.CharsPerLine)}, layout)
	}
	lines := wrap(item.Label+": "+renderValue(item.Value), layout.CharsPerLine)
	if notes := strings.TrimSpace(item.Notes); notes != "" {
		lines = append(lines, wrap("Noter: "+notes, layout.CharsPerLine)...)
	}
	var thumbs []Thumbnail
	if len(item.Images) > 0 {
		lines = append(lines, fmt.Sprintf("Billeder: %d", len(item.Images)))
		for _, img := range item.Images {
			thumbs = append(thumbs, Thumbnail{Path: img.Path, URL: img.URL, Name: img.Name, ContentType: img.ContentType})
		}
	}
	return measure(Block{Kind: BlockItem, Title: item.Label, Lines: lines, Thumbnails: thumbs}, layout)
}

func signatureBlock(h Header, layout Layout) Block {
	lines := []string{"Underskrift", "", "", "______________________________"}
	if name := strings.TrimSpace(h.Inspector); name != "" {
		lines = append(lines, name)
	}
	return measure(Block{Kind: BlockSignature, Title: "Underskrift", Lines: lines}, layout)
}

// renderValue prints an answer the way it appears on the report.
func renderValue(v domain.Value) string {
	switch value := v.(type) {
	case domain.YesNoValue:
		if value.Answer == domain.YesNoUnset {
			return "Ikke besvaret"
		}
		return string(value.Answer)
	case domain.CheckboxValue:
		if value.Checked {
			return "Afkrydset"
		}
		return "Ikke afkrydset"
	case domain.TextValue:
		if strings.TrimSpace(value.Text) == "" {
			return "-"
		}
		return value.Text
	default:
		return "-"
	}
}

func measure(b Block, layout Layout) Block {
	b.Height = float64(len(b.Lines))*layout.LineHeight + float64(b.ThumbnailRows(layout.ThumbnailsPerRow))*layout.ThumbnailHeight
	return b
}

// paginate places blocks top to bottom. A block that does not fit starts a new
// page. Blocks taller than a page, and blocks that would otherwise leave a
// section title alone at the bottom, are split to fill the page instead.
func paginate(blocks []Block, layout Layout) []Page {
	capacity := layout.Capacity()
	var pages []Page
	current := Page{}
	used := 0.0

	flush := func() {
		pages = append(pages, current)
		current = Page{}
		used = 0
	}
	place := func(b Block) {
		b.Y = used
		current.Blocks = append(current.Blocks, b)
		used += b.Height
	}

	for i := 0; i < len(blocks); i++ {
		b := blocks[i]
		needed := b.Height
		if keepsWithNext(blocks, i) {
			needed += leadHeight(blocks[i+1], capacity-b.Height, layout)
		}
		afterTitle := len(current.Blocks) > 0 && current.Blocks[len(current.Blocks)-1].Kind == BlockSectionTitle
		if used+needed > capacity && len(current.Blocks) > 0 && !afterTitle {
			flush()
		}
		for used+b.Height > capacity {
			head, tail, ok := splitBlock(b, capacity-used, layout)
			if !ok {
				if len(current.Blocks) == 0 {
					// Not even one line fits an empty page.
					break
				}
				flush()
				continue
			}
			place(head)
			flush()
			b = tail
		}
		place(b)
	}
	if len(current.Blocks) > 0 {
		pages = append(pages, current)
	}

	for i := range pages {
		pages[i].Number = i + 1
		pages[i].Total = len(pages)
	}
	return pages
}

// keepsWithNext reports whether blocks[i] is a section title that has to
// share its page with the start of the following block.
func keepsWithNext(blocks []Block, i int) bool {
	if blocks[i].Kind != BlockSectionTitle || i+1 >= len(blocks) {
		return false
	}
	next := blocks[i+1].Kind
	return next != BlockSectionTitle && next != BlockSignature
}

// leadHeight is the part of b that must follow a section title: all of it
// when it fits in room, otherwise its first line or image row.
func leadHeight(b Block, room float64, layout Layout) float64 {
	switch {
	case b.Height <= room:
		return b.Height
	case len(b.Lines) > 0:
		return layout.LineHeight
	case len(b.Thumbnails) > 0:
		return layout.ThumbnailHeight
	}
	return b.Height
}

// splitBlock cuts b so that head fits into space, taking whole lines first
// and then whole image rows. ok is false when nothing beyond a continuation
// label fits.
func splitBlock(b Block, space float64, layout Layout) (head, tail Block, ok bool) {
	perRow := layout.ThumbnailsPerRow
	if perRow <= 0 {
		perRow = 1
	}
	used := 0.0
	lines := 0
	for lines < len(b.Lines) && used+layout.LineHeight <= space {
		used += layout.LineHeight
		lines++
	}
	rows := 0
	if lines == len(b.Lines) {
		for rows < b.ThumbnailRows(perRow) && used+layout.ThumbnailHeight <= space {
			used += layout.ThumbnailHeight
			rows++
		}
	}
	if lines+rows == 0 || (b.Continued && lines <= 1 && rows == 0) {
		return b, Block{}, false
	}
	thumbs := min(rows*perRow, len(b.Thumbnails))
	if lines == len(b.Lines) && thumbs == len(b.Thumbnails) {
		return b, Block{}, false
	}

	head = b
	head.Lines = append([]string(nil), b.Lines[:lines]...)
	head.Thumbnails = append([]Thumbnail(nil), b.Thumbnails[:thumbs]...)

	tail = b
	tail.Continued = true
	tail.Lines = append([]string{continuedLabel(b.Title, layout.CharsPerLine)}, b.Lines[lines:]...)
	tail.Thumbnails = append([]Thumbnail(nil), b.Thumbnails[thumbs:]...)
	return measure(head, layout), measure(tail, layout), true
}

func continuedLabel(title string, width int) string {
	const suffix = " (fortsat)"
	if width <= 0 {
		width = 80
	}
	title = strings.TrimSpace(title)
	room := width - utf8.RuneCountInString(suffix)
	if runes := []rune(title); room > 0 && len(runes) > room {
		title = string(runes[:room])
	}
	return strings.TrimSpace(title + suffix)
}

// wrap breaks text into lines of at most width runes, preferring word boundaries.
func wrap(text string, width int) []string {
	if width <= 0 {
		width = 80
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, word := range words {
			for utf8.RuneCountInString(word) > width {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				runes := []rune(word)
				lines = append(lines, string(runes[:width]))
				word = string(runes[width:])
			}
			switch {
			case line == "":
				line = word
			case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
