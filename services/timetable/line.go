package timetable

import "strings"

// Line is a single transit line and every route it runs.
type Line struct {
	Number      string   `json:"line_number"`
	Description string   `json:"description"`
	Routes      []*Route `json:"routes"`

	section section
	ended   bool
	// open is the route still receiving lines, possibly one whose header
	// was skipped and never made it into Routes.
	open *Route
}

// parseLine reads "Linia: <number> - <description>". Headers without a colon
// take the last word before the dash as the number.
func parseLine(text string) (*Line, error) {
	fields := splitTrim(text, "-")
	if len(fields) < 2 {
		return nil, fieldError("line header", 2, len(fields))
	}

	var number string
	if parts := splitTrim(fields[0], ":"); len(parts) > 1 {
		number = parts[1]
	} else {
		words := strings.Fields(fields[0])
		if len(words) < 1 {
			return nil, fieldError("line number", 1, 0)
		}
		number = words[len(words)-1]
	}

	return &Line{
		Number:      number,
		Description: fields[1],
		Routes:      []*Route{},
		section:     sectionLL,
	}, nil
}

func (l *Line) parse(p *pass, text string) error {
	switch l.section {
	case sectionLL:
		if has(text, markerOpenTR) {
			l.section = sectionTR
		} else if has(text, markerOpenWK) {
			l.section = sectionWK
		}
	case sectionTR:
		if has(text, markerCloseTR) {
			l.section = sectionLL
			return nil
		}

		if l.open != nil {
			err := l.open.parse(p, text)
			if l.open.ended {
				l.open = nil
			}
			return err
		}

		r, err := parseRoute(text)
		if err != nil {
			if err := p.reject(KindRoute, text, err); err != nil {
				return err
			}
			l.open = &Route{section: sectionTR}
			return nil
		}
		l.Routes = append(l.Routes, r)
		l.open = r
	case sectionWK:
		if has(text, markerCloseWK) {
			l.section = sectionLL
			l.ended = true
		}
	}
	return nil
}

// Ended reports whether the WK block closing this line has been seen.
func (l *Line) Ended() bool {
	return l.ended
}

// Rows returns one row per departure of every route.
func (l *Line) Rows(prefix Row) []Row {
	prefix.LineNumber = l.Number
	prefix.Description = l.Description

	var rows []Row
	for _, r := range l.Routes {
		rows = append(rows, r.Rows(prefix)...)
	}
	return rows
}

// Structured returns the line and its routes as a mapping.
func (l *Line) Structured() map[string]interface{} {
	routes := []interface{}{}
	for _, r := range l.Routes {
		routes = append(routes, r.Structured())
	}

	return map[string]interface{}{
		"line_number": l.Number,
		"description": l.Description,
		"routes":      routes,
	}
}
