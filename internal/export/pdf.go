package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/font"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ReportTitle heads every exported report.
const ReportTitle = "Academic Integrity Report"

// A4 portrait in points.
const (
	pageWidth   = 595.0
	pageHeight  = 842.0
	margin      = 50.0
	bodySize    = 11
	headingSize = 14
	titleSize   = 18
	lineGap     = 1.45
	fontName    = "Helvetica"
	boldFont    = "Helvetica-Bold"
)

func init() {
	// Keep pdfcpu from creating a config directory under $HOME.
	model.ConfigPath = "disable"
}

// Report is the content of one exported session.
type Report struct {
	UserID    string
	Prompt    string
	Breakdown string
	Feedback  string
	CreatedAt time.Time
}

// section is a titled block of body text.
type section struct {
	title string
	body  string
}

// sections returns the report's non-empty sections in display order.
func (r Report) sections() []section {
	all := []section{
		{"Assignment Prompt", r.Prompt},
		{"Assignment Breakdown", PlainText(r.Breakdown)},
		{"Writing Feedback", PlainText(r.Feedback)},
	}
	var out []section
	for _, s := range all {
		if strings.TrimSpace(s.body) != "" {
			out = append(out, s)
		}
	}
	return out
}

// pdfText is one positioned string in pdfcpu's JSON page description.
type pdfText struct {
	Value string    `json:"value"`
	Pos   []float64 `json:"pos"`
	Font  pdfFont   `json:"font"`
}

type pdfFont struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type pdfPage struct {
	Content struct {
		Text []pdfText `json:"text"`
	} `json:"content"`
}

type pdfDoc struct {
	Paper string              `json:"paper"`
	Pages map[string]*pdfPage `json:"pages"`
}

// layout places lines top to bottom, starting a new page when one fills up.
type layout struct {
	pages []*pdfPage
	y     float64
}

func (l *layout) newPage() {
	l.pages = append(l.pages, &pdfPage{})
	l.y = pageHeight - margin
}

func (l *layout) line(value, face string, size int) {
	step := float64(size) * lineGap
	if value == "" {
		// Blank lines never open a page on their own.
		if len(l.pages) > 0 && l.y-step >= margin {
			l.y -= step
		}
		return
	}
	if len(l.pages) == 0 || l.y-step < margin {
		l.newPage()
	}
	l.y -= step
	p := l.pages[len(l.pages)-1]
	p.Content.Text = append(p.Content.Text, pdfText{
		Value: value,
		Pos:   []float64{margin, l.y},
		Font:  pdfFont{Name: face, Size: size},
	})
}

func (l *layout) paragraph(body string, face string, size int) {
	fits := textFits(face, size, pageWidth-2*margin)
	for _, raw := range strings.Split(body, "\n") {
		wrapped := wrap(latin1(raw), fits)
		if len(wrapped) == 0 {
			l.line("", face, size)
			continue
		}
		for _, w := range wrapped {
			l.line(w, face, size)
		}
	}
}

// textFits reports whether a line set in face at size stays within width,
// using the core font's glyph metrics.
func textFits(face string, size int, width float64) func(string) bool {
	return func(s string) bool {
		return font.TextWidth(s, face, size) <= width
	}
}

// RenderReport renders r as a PDF. Empty sections are omitted.
func RenderReport(r Report) ([]byte, error) {
	var l layout
	l.line(ReportTitle, boldFont, titleSize)
	l.line("", fontName, bodySize)
	l.line("User: "+latin1(r.UserID), fontName, bodySize)
	if !r.CreatedAt.IsZero() {
		l.line("Generated: "+r.CreatedAt.UTC().Format("2006-01-02 15:04 MST"), fontName, bodySize)
	}

	for _, s := range r.sections() {
		l.line("", fontName, bodySize)
		l.line(s.title, boldFont, headingSize)
		l.paragraph(s.body, fontName, bodySize)
	}

	doc := pdfDoc{Paper: "A4P", Pages: make(map[string]*pdfPage, len(l.pages))}
	for i, p := range l.pages {
		doc.Pages[strconv.Itoa(i+1)] = p
	}
	desc, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding page description: %w", err)
	}

	var out bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(desc), &out, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return out.Bytes(), nil
}

// wrap breaks s into lines accepted by fits, splitting on spaces and
// hard-splitting words that do not fit on a line of their own.
func wrap(s string, fits func(string) bool) []string {
	var lines []string
	cur := ""
	for _, word := range strings.Fields(s) {
		if cur != "" && fits(cur+" "+word) {
			cur += " " + word
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
		for !fits(word) {
			r := []rune(word)
			n := 1
			for n < len(r) && fits(string(r[:n+1])) {
				n++
			}
			lines = append(lines, string(r[:n]))
			word = string(r[n:])
		}
		cur = word
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// latin1 replaces runes the standard PDF fonts cannot encode with '?'.
func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if r > 0xFF || (r < 0x20 && r != '\n') {
			return '?'
		}
		return r
	}, s)
}
