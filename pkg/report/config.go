package report

// Config holds the report layout options
type Config struct {
	Title     string  // Heading printed above the agenda
	PageSize  string  // fpdf page size name, e.g. "A4" or "Letter"
	Margin    float64 // Page margin in points
	RowHeight float64 // Table row height in points
	Borders   bool    // Draw cell borders
	Font      FontConfig
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Title:     "Agenda",
		PageSize:  "A4",
		Margin:    40,
		RowHeight: 16,
		Borders:   true,
		Font:      DefaultFont,
	}
}

// FontConfig contains font settings for report text
type FontConfig struct {
	Name      string  // Font name (e.g., "Helvetica")
	Size      float64 // Body font size
	TitleSize float64 // Heading font size
}

// DefaultFont is one of the standard PDF fonts, available without embedding
var DefaultFont = FontConfig{
	Name:      "Helvetica",
	Size:      9,
	TitleSize: 14,
}
