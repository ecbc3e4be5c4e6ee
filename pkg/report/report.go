// Package report renders a parsed agenda as a printable PDF: the summary counts, the
// appointment table and the free slots.
//
// Text is written with the standard fonts, which only cover Windows-1252. Characters
// outside that set are replaced rather than failing the report.
package report

import (
	"bytes"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/agendapdf/pkg/agenda"
)

// column is one column of the appointment table
type column struct {
	title string
	width float64 // Share of the printable width
	value func(agenda.Appointment) string
}

var columns = []column{
	{"Horário", 0.10, func(a agenda.Appointment) string { return a.Time }},
	{"Paciente", 0.27, func(a agenda.Appointment) string { return a.PatientName }},
	{"Status", 0.13, func(a agenda.Appointment) string { return a.Status }},
	{"Contato", 0.20, func(a agenda.Appointment) string { return a.Contact }},
	{"Convênio", 0.14, func(a agenda.Appointment) string { return a.Insurance }},
	{"Atendimento", 0.16, func(a agenda.Appointment) string { return a.Procedure }},
}

// Render writes the PDF report of one agenda to w
func Render(w io.Writer, res agenda.Result, sum agenda.Summary, cfg Config) error {
	pdf := fpdf.New("P", "pt", cfg.PageSize, "")
	pdf.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	pdf.SetAutoPageBreak(true, cfg.Margin)
	pdf.SetTitle(cfg.Title, true)
	pdf.SetCreator("agendapdf", true)
	pdf.AliasNbPages("")

	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	text := func(s string) string {
		out, err := enc.String(s)
		if err != nil {
			return s
		}
		return out
	}

	pageWidth, _ := pdf.GetPageSize()
	printable := pageWidth - 2*cfg.Margin
	border := ""
	if cfg.Borders {
		border = "1"
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-cfg.Margin + 10)
		pdf.SetFont(cfg.Font.Name, "I", cfg.Font.Size-1)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	header := func() {
		pdf.SetFont(cfg.Font.Name, "B", cfg.Font.Size)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range columns {
			pdf.CellFormat(printable*c.width, cfg.RowHeight, text(c.title), border, 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(cfg.Font.Name, "", cfg.Font.Size)
	}

	pdf.AddPage()

	doctor := sum.Doctor
	if doctor == "" {
		doctor = "-"
	}
	date := sum.Date
	if date == "" {
		date = "-"
	}
	pdf.SetFont(cfg.Font.Name, "B", cfg.Font.TitleSize)
	pdf.CellFormat(0, cfg.Font.TitleSize+6, text(fmt.Sprintf("%s - Dr(a). %s - %s", cfg.Title, doctor, date)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(cfg.Font.Name, "", cfg.Font.Size+1)
	summaryLines := []string{
		"Total de pacientes: " + sum.Total(),
		"Confirmados: " + sum.Confirmed(),
		"Pendentes: " + sum.Pending(),
	}
	if sum.FirstTime != "" {
		summaryLines = append(summaryLines, "Primeiro horário: "+sum.FirstTime, "Último horário: "+sum.LastTime)
	}
	for _, line := range summaryLines {
		pdf.CellFormat(0, cfg.RowHeight, text(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	_, pageHeight := pdf.GetPageSize()
	header()
	for _, a := range res.Appointments {
		if pdf.GetY()+cfg.RowHeight > pageHeight-cfg.Margin {
			pdf.AddPage()
			header()
		}
		for _, c := range columns {
			width := printable * c.width
			pdf.CellFormat(width, cfg.RowHeight, fit(pdf, text(c.value(a)), width-4), border, 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(12)
	pdf.SetFont(cfg.Font.Name, "B", cfg.Font.Size+1)
	pdf.CellFormat(0, cfg.RowHeight, text("Horários livres"), "", 1, "L", false, 0, "")
	pdf.SetFont(cfg.Font.Name, "", cfg.Font.Size)
	if len(res.FreeSlots) == 0 {
		pdf.CellFormat(0, cfg.RowHeight, text(agenda.NoFreeSlotsText), "", 1, "L", false, 0, "")
	}
	for _, slot := range res.FreeSlots {
		pdf.CellFormat(0, cfg.RowHeight, slot.Time, "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to generate PDF report: %w", err)
	}
	return nil
}

// Bytes renders the report into memory
func Bytes(res agenda.Result, sum agenda.Summary, cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, res, sum, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit shortens single-byte encoded s until it fits in width
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
