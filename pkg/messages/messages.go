// Package messages renders the texts sent to patients and staff from a parsed agenda.
//
// Templates use text/template and are embedded in the binary; a directory with files of
// the same names can replace them. Missing values are shown as bracketed placeholders so
// that an operator can complete the text by hand.
package messages

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/gardar/agendapdf/pkg/agenda"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	confirmationTemplate = "confirmation.tmpl"
	summaryTemplate      = "summary.tmpl"
)

// Placeholders shown when the agenda did not provide a value
const (
	DoctorPlaceholder  = "[Médico]"
	DatePlaceholder    = "[Data]"
	PatientPlaceholder = "[Paciente]"
)

// Message is one rendered patient message
type Message struct {
	Patient string `json:"patient"`
	Time    string `json:"time"`
	Contact string `json:"contact,omitempty"`
	Text    string `json:"text"`
}

// Renderer renders confirmation and summary messages
type Renderer struct {
	tmpl *template.Template
}

// confirmationView is the data of the confirmation template
type confirmationView struct {
	Patient   string
	Doctor    string
	Date      string
	Time      string
	Procedure string
	Insurance string
}

// summaryView is the data of the summary template
type summaryView struct {
	Doctor        string
	Date          string
	Total         string
	Confirmed     string
	Pending       string
	FirstTime     string
	LastTime      string
	FreeSlotsText string
}

// New parses the templates found in fsys.
// fsys must hold confirmation.tmpl and summary.tmpl at its root.
func New(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.New("messages").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
	}).ParseFS(fsys, confirmationTemplate, summaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("error parsing message templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Default returns a renderer for the embedded templates
func Default() (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	return New(sub)
}

// Confirmation renders the confirmation message of one appointment
func (r *Renderer) Confirmation(a agenda.Appointment) (string, error) {
	return r.render(confirmationTemplate, confirmationView{
		Patient:   orPlaceholder(a.PatientName, PatientPlaceholder),
		Doctor:    orPlaceholder(a.Doctor, DoctorPlaceholder),
		Date:      orPlaceholder(a.Date, DatePlaceholder),
		Time:      a.Time,
		Procedure: a.Procedure,
		Insurance: a.Insurance,
	})
}

// Summary renders the staff summary of one agenda
func (r *Renderer) Summary(s agenda.Summary) (string, error) {
	return r.render(summaryTemplate, summaryView{
		Doctor:        orPlaceholder(s.Doctor, DoctorPlaceholder),
		Date:          orPlaceholder(s.Date, DatePlaceholder),
		Total:         s.Total(),
		Confirmed:     s.Confirmed(),
		Pending:       s.Pending(),
		FirstTime:     s.FirstTime,
		LastTime:      s.LastTime,
		FreeSlotsText: s.FreeSlotsText,
	})
}

// Confirmations renders one message per valid appointment, in agenda order.
// Free slots never get a message.
func (r *Renderer) Confirmations(res agenda.Result) ([]Message, error) {
	out := make([]Message, 0, len(res.Appointments))
	for _, a := range res.Appointments {
		text, err := r.Confirmation(a)
		if err != nil {
			return nil, fmt.Errorf("appointment at %s: %w", a.Time, err)
		}
		out = append(out, Message{
			Patient: a.PatientName,
			Time:    a.Time,
			Contact: a.Contact,
			Text:    text,
		})
	}
	return out, nil
}

func (r *Renderer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("error rendering %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
