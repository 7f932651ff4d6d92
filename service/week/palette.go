package week

// Palette holds the row colours of the weekly table.
var Palette = []string{
	"#1976d2",
	"#9c27b0",
	"#2e7d32",
	"#ed6c02",
	"#d32f2f",
	"#0288d1",
	"#6d4c41",
	"#00897b",
}

// ColorFor maps a row index onto the palette, wrapping around.
func ColorFor(index int) string {
	n := len(Palette)
	return Palette[((index%n)+n)%n]
}
