package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tartampluch/go-ninety/internal/engine"
)

const (
	glyphActive   = "█"
	glyphDropping = "▓"
	glyphTail     = "░"

	pillMarker    = "▐"
	defaultMarker = " "
	todayMarker   = "◀"

	dateColWidth  = 7
	countColWidth = 5
	tripColWidth  = 7
	labelWidth    = 18
)

// styles are bound to one renderer so color detection follows the output writer.
type styles struct {
	header      lipgloss.Style
	year        lipgloss.Style
	today       lipgloss.Style
	redMarker   lipgloss.Style
	amberMarker lipgloss.Style
	greenMarker lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:      r.NewStyle().Bold(true),
		year:        r.NewStyle().Foreground(lipgloss.Color("245")),
		today:       r.NewStyle().Bold(true),
		redMarker:   r.NewStyle().Foreground(lipgloss.Color("1")),
		amberMarker: r.NewStyle().Foreground(lipgloss.Color("3")),
		greenMarker: r.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// level picks the RAG color for a status level.
func (s styles) level(l engine.Level) lipgloss.Style {
	switch l {
	case engine.LevelOver:
		return s.redMarker
	case engine.LevelCaution, engine.LevelApproaching:
		return s.amberMarker
	default:
		return s.greenMarker
	}
}

func glyphFor(state engine.State) string {
	switch state {
	case engine.StateActive:
		return glyphActive
	case engine.StateDropping:
		return glyphDropping
	case engine.StateTail:
		return glyphTail
	default:
		return ""
	}
}
