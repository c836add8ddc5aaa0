// Package export renders a rapport's markup content into a paginated A4
// PDF document.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/easyrh/backend/internal/i18n"
	"github.com/easyrh/backend/internal/models"
)

const margin = 20.0

type LineKind int

const (
	LineBlank LineKind = iota
	LineHeading
	LineSubheading
	LineBullet
	LineBody
)

// Line is one classified line of rapport content, markup markers already
// stripped.
type Line struct {
	Kind LineKind
	Text string
}

// ParseLine classifies a raw content line. Headings and bullets have
// their markers stripped; body text has literal ** markers removed
// without applying any styling.
func ParseLine(raw string) Line {
	if strings.TrimSpace(raw) == "" {
		return Line{Kind: LineBlank}
	}
	if strings.HasPrefix(raw, "##") {
		return Line{Kind: LineSubheading, Text: strings.TrimLeft(strings.TrimPrefix(raw, "##"), " ")}
	}
	if strings.HasPrefix(raw, "#") {
		return Line{Kind: LineHeading, Text: strings.TrimLeft(strings.TrimPrefix(raw, "#"), " ")}
	}
	if strings.HasPrefix(raw, "*") || strings.HasPrefix(raw, "-") {
		return Line{Kind: LineBullet, Text: strings.TrimLeft(raw[1:], " ")}
	}
	return Line{Kind: LineBody, Text: strings.ReplaceAll(raw, "**", "")}
}

// ParseContent splits content into classified lines, top to bottom.
func ParseContent(content string) []Line {
	rawLines := strings.Split(content, "\n")
	lines := make([]Line, 0, len(rawLines))
	for _, raw := range rawLines {
		lines = append(lines, ParseLine(raw))
	}
	return lines
}

// Filename derives the download name from the collaborator's last name
// and the saison name, non-alphanumerics in the saison name replaced by
// underscores.
func Filename(lastName, saisonName string) string {
	return fmt.Sprintf("rapport_%s_%s.pdf", lastName, sanitize(saisonName))
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ExportRapport renders the rapport to PDF bytes and returns them with
// the derived filename. Identical inputs produce an identical layout.
func ExportRapport(collaborator models.User, saison models.Saison, content string, status models.RapportStatus, generatedAt time.Time) ([]byte, string, error) {
	pdf := buildRapportPDF(collaborator, saison, content, status, generatedAt)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render PDF: %w", err)
	}

	return buf.Bytes(), Filename(collaborator.LastName, saison.Name), nil
}

func buildRapportPDF(collaborator models.User, saison models.Saison, content string, status models.RapportStatus, generatedAt time.Time) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(generatedAt)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Header block
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr("Rapport d'évaluation annuelle"), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Collaborateur: %s %s", collaborator.FirstName, collaborator.LastName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Poste: %s", i18n.RoleLabel(collaborator.Role))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Saison: %s", saison.Name)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Statut: %s", i18n.StatusLabel(status))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pageWidth, _ := pdf.GetPageSize()
	pdf.SetDrawColor(200, 200, 200)
	y := pdf.GetY()
	pdf.Line(margin, y, pageWidth-margin, y)
	pdf.Ln(6)

	// Body: line-oriented markup, auto page break wraps and paginates
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range ParseContent(content) {
		switch line.Kind {
		case LineBlank:
			pdf.Ln(5)
		case LineHeading:
			pdf.SetFont("Helvetica", "B", 14)
			pdf.MultiCell(0, 8, tr(line.Text), "", "L", false)
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "", 10)
		case LineSubheading:
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 7, tr(line.Text), "", "L", false)
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "", 10)
		case LineBullet:
			pdf.MultiCell(0, 5, tr("  • "+line.Text), "", "L", false)
			pdf.Ln(1)
		case LineBody:
			pdf.MultiCell(0, 5, tr(line.Text), "", "L", false)
			pdf.Ln(1)
		}
	}

	// Generation-date footer line, subject to the same page-break rule
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, tr(fmt.Sprintf("Document généré le %s", i18n.FormatDate(generatedAt))), "", "L", false)

	return pdf
}
