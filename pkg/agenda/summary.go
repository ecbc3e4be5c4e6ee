package agenda

import (
	"strconv"
	"strings"
)

// NoFreeSlotsText is reported when an agenda has no free slot
const NoFreeSlotsText = "Nenhum horário livre encontrado"

// Summary is the aggregate view of one parsed agenda
type Summary struct {
	TotalCount     int    `json:"total_count"`
	ConfirmedCount int    `json:"confirmed_count"`
	PendingCount   int    `json:"pending_count"`
	FirstTime      string `json:"first_time"`
	LastTime       string `json:"last_time"`
	Doctor         string `json:"doctor"`
	Date           string `json:"date"`
	FreeSlotsText  string `json:"free_slots_text"`
}

// Summarize folds a result into its summary.
// First and last times follow list order, which mirrors the printed order.
func Summarize(r Result) Summary {
	s := Summary{
		TotalCount: len(r.Appointments),
		Doctor:     r.Doctor,
		Date:       r.Date,
	}

	for _, a := range r.Appointments {
		if strings.Contains(strings.ToLower(a.Status), "confirmado") {
			s.ConfirmedCount++
		}
	}
	s.PendingCount = s.TotalCount - s.ConfirmedCount

	if n := len(r.Appointments); n > 0 {
		s.FirstTime = r.Appointments[0].Time
		s.LastTime = r.Appointments[n-1].Time
	}

	if len(r.FreeSlots) == 0 {
		s.FreeSlotsText = NoFreeSlotsText
	} else {
		times := make([]string, len(r.FreeSlots))
		for i, slot := range r.FreeSlots {
			times[i] = slot.Time
		}
		s.FreeSlotsText = strings.Join(times, "\n")
	}
	return s
}

// FormatCount renders a count with two digits below ten: 7 becomes "07"
func FormatCount(n int) string {
	if n >= 0 && n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// Total returns the total count as displayed
func (s Summary) Total() string { return FormatCount(s.TotalCount) }

// Confirmed returns the confirmed count as displayed
func (s Summary) Confirmed() string { return FormatCount(s.ConfirmedCount) }

// Pending returns the pending count as displayed
func (s Summary) Pending() string { return FormatCount(s.PendingCount) }
