package agenda

import (
	"errors"
	"strings"
)

// ErrUnreadable is returned by text sources when a document cannot be read into positioned
// fragments at all. It is the only hard failure of the pipeline.
var ErrUnreadable = errors.New("reading error")

// Fragment is one indivisible run of text on a page.
// Y grows upward, so a higher Y is higher on the printed page.
type Fragment struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Page holds the fragments of one page, numbered from 1
type Page struct {
	Number    int        `json:"number"`
	Fragments []Fragment `json:"fragments"`
}

// Line is one visually reconstructed line of text
type Line struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// Appointment is one parsed agenda entry, or a free slot marker when Free is set
type Appointment struct {
	PatientName string `json:"patient_name"`        // Name truncated for message templates
	FullName    string `json:"full_name"`           // Name as reconstructed, never truncated
	Time        string `json:"time"`                // Start time, HH:MM
	Contact     string `json:"contact"`             // Phones joined by " / "
	Status      string `json:"status"`              // Title Case status keyword
	Doctor      string `json:"doctor,omitempty"`    // Document-level doctor
	Date        string `json:"date,omitempty"`      // Document-level date
	Procedure   string `json:"procedure,omitempty"` // First procedure keyword
	Insurance   string `json:"insurance,omitempty"` // First insurance keyword
	Free        bool   `json:"free"`                // Free slot marker ("LIVRE")
}

// Result is the outcome of parsing one agenda.
// An empty Appointments slice is a valid result (an empty schedule), not a failure.
type Result struct {
	Doctor       string        `json:"doctor"`
	Date         string        `json:"date"`
	Appointments []Appointment `json:"appointments"`
	FreeSlots    []Appointment `json:"free_slots"`
}

// freeSlotMarker is printed in the patient column of an unbooked slot
const freeSlotMarker = "LIVRE"

// isFreeSlot reports whether a patient name carries the free slot marker
func isFreeSlot(name string) bool {
	return strings.Contains(strings.ToUpper(name), freeSlotMarker)
}
