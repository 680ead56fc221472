package timetable

import "strings"

// section identifies which marker-delimited block a record is currently inside.
type section int

const (
	sectionNone section = iota
	sectionLL
	sectionTR
	sectionWK
	sectionRP
	sectionTD
	sectionOP
	sectionOD
)

// Opening and closing markers of every block in an RA file.
const (
	markerOpenLL  = "*LL"
	markerCloseLL = "#LL"
	markerOpenTR  = "*TR"
	markerCloseTR = "#TR"
	markerOpenWK  = "*WK"
	markerCloseWK = "#WK"
	markerOpenRP  = "*RP"
	markerCloseRP = "#RP"
	markerOpenTD  = "*TD"
	markerCloseTD = "#TD"
	markerOpenOP  = "*OP"
	markerCloseOP = "#OP"
	markerOpenOD  = "*OD"
	markerCloseOD = "#OD"

	// lineTypeMarker starts a new line record inside the LL block.
	lineTypeMarker = "LINIA KOLEI MIEJSKIEJ"
)

func (s section) String() string {
	switch s {
	case sectionLL:
		return "LL"
	case sectionTR:
		return "TR"
	case sectionWK:
		return "WK"
	case sectionRP:
		return "RP"
	case sectionTD:
		return "TD"
	case sectionOP:
		return "OP"
	case sectionOD:
		return "OD"
	default:
		return "NONE"
	}
}

// has reports whether the marker appears anywhere in the text.
// Markers are never anchored: existing files rely on the looser match.
func has(text, marker string) bool {
	return strings.Contains(text, marker)
}
