package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"studypack-backend/internal/models"
)

const (
	ExportHTML = "html"
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
)

type stickyColor struct {
	Background template.CSS
	Border     template.CSS
	Name       string
}

var stickyColors = map[string]stickyColor{
	"yellow": {Background: "#FFF9C4", Border: "#FBC02D", Name: "Classic Yellow"},
	"pink":   {Background: "#F8BBD0", Border: "#E91E63", Name: "Pink"},
	"blue":   {Background: "#BBDEFB", Border: "#2196F3", Name: "Blue"},
	"green":  {Background: "#C8E6C9", Border: "#4CAF50", Name: "Green"},
	"orange": {Background: "#FFE0B2", Border: "#FF9800", Name: "Orange"},
	"purple": {Background: "#E1BEE7", Border: "#9C27B0", Name: "Purple"},
}

// Export is a rendered download.
type Export struct {
	ContentType string
	FileName    string
	Body        []byte
}

var stickyNotesTmpl = template.Must(template.New("sticky").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}} - Flashcards</title>
  <style>
    @media print {
      @page { size: A4; margin: 10mm; }
      .no-print { display: none; }
    }
    body { font-family: 'Comic Sans MS', 'Segoe UI', Arial, sans-serif; background: #f5f5f5; padding: 20px; margin: 0; }
    .container { max-width: 1200px; margin: 0 auto; }
    .header { text-align: center; margin-bottom: 30px; padding: 20px; background: white; border-radius: 10px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
    .header h1 { margin: 0; color: #333; }
    .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(280px, 1fr)); gap: 20px; margin-bottom: 40px; }
    .sticky-note {
      background: {{.Color.Background}};
      border: 2px solid {{.Color.Border}};
      border-radius: 8px; padding: 20px; min-height: 200px;
      box-shadow: 0 4px 6px rgba(0,0,0,0.1);
      position: relative; page-break-inside: avoid; transform: rotate(-1deg);
    }
    .sticky-note:nth-child(even) { transform: rotate(1deg); }
    .question { font-weight: bold; font-size: 16px; margin-bottom: 15px; color: #222; border-bottom: 2px dashed {{.Color.Border}}; padding-bottom: 10px; }
    .answer { font-size: 14px; line-height: 1.6; color: #444; }
    .number { position: absolute; top: 8px; left: 12px; background: {{.Color.Border}}; color: white; width: 24px; height: 24px; border-radius: 50%; display: flex; align-items: center; justify-content: center; font-size: 12px; font-weight: bold; }
    .print-btn { position: fixed; bottom: 30px; right: 30px; padding: 15px 30px; background: {{.Color.Border}}; color: white; border: none; border-radius: 50px; font-size: 16px; font-weight: bold; cursor: pointer; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>{{.Title}}</h1>
      <p>{{len .Cards}} Flashcards - {{.Color.Name}} Sticky Notes</p>
    </div>
    <div class="grid">
{{- range $i, $c := .Cards}}
      <div class="sticky-note">
        <div class="number">{{inc $i}}</div>
        <div class="question">Q: {{$c.Question}}</div>
        <div class="answer">A: {{$c.Answer}}</div>
      </div>
{{- end}}
    </div>
  </div>
  <button class="print-btn no-print" onclick="window.print()">Print Flashcards</button>
</body>
</html>
`))

var whitespaceRun = regexp.MustCompile(`\s+`)

func exportBaseName(title string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(title), "_") + "_Flashcards"
}

// RenderFlashcardExport renders cards as printable sticky notes (html), csv or xlsx.
// Empty format means html; empty color means yellow.
func RenderFlashcardExport(title string, cards []models.Flashcard, format, colorKey string) (*Export, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportHTML
	}

	switch format {
	case ExportHTML:
		return renderStickyNotes(title, cards, colorKey)
	case ExportCSV:
		return renderCSV(title, cards)
	case ExportXLSX:
		return renderXLSX(title, cards)
	default:
		return nil, &ValidationError{Fields: map[string]string{"format": "Must be one of html, csv, xlsx"}}
	}
}

func renderStickyNotes(title string, cards []models.Flashcard, colorKey string) (*Export, error) {
	colorKey = strings.ToLower(strings.TrimSpace(colorKey))
	if colorKey == "" {
		colorKey = "yellow"
	}
	color, ok := stickyColors[colorKey]
	if !ok {
		return nil, &ValidationError{Fields: map[string]string{"color": "Must be one of yellow, pink, blue, green, orange, purple"}}
	}

	var buf bytes.Buffer
	err := stickyNotesTmpl.Execute(&buf, struct {
		Title string
		Color stickyColor
		Cards []models.Flashcard
	}{title, color, cards})
	if err != nil {
		return nil, fmt.Errorf("render sticky notes: %w", err)
	}

	return &Export{
		ContentType: "text/html; charset=utf-8",
		FileName:    exportBaseName(title) + "_" + whitespaceRun.ReplaceAllString(color.Name, "_") + ".html",
		Body:        buf.Bytes(),
	}, nil
}

func renderCSV(title string, cards []models.Flashcard) (*Export, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"question", "answer"}); err != nil {
		return nil, err
	}
	for _, c := range cards {
		if err := w.Write([]string{c.Question, c.Answer}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}

	return &Export{ContentType: "text/csv; charset=utf-8", FileName: exportBaseName(title) + ".csv", Body: buf.Bytes()}, nil
}

func renderXLSX(title string, cards []models.Flashcard) (*Export, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Flashcards"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Question", "Answer"}); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	for i, c := range cards {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("render xlsx: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{c.Question, c.Answer}); err != nil {
			return nil, fmt.Errorf("render xlsx: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return &Export{
		ContentType: MIMEXLSX,
		FileName:    exportBaseName(title) + ".xlsx",
		Body:        buf.Bytes(),
	}, nil
}

// ExportFlashcards renders the requester's pack in the requested format.
func (s *StudyPackService) ExportFlashcards(ctx context.Context, id, requester uuid.UUID, format, colorKey string) (*Export, error) {
	pack, err := s.ownedPack(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	cards, err := s.flashcards.ListByPack(ctx, id)
	if err != nil {
		return nil, newError(ErrStorage, "Failed to load flashcards", err)
	}
	return RenderFlashcardExport(pack.Title, cards, format, colorKey)
}
