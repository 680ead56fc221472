package timetable

import "strings"

// Route is one variant of a line: an ordered list of stops between two terminals.
type Route struct {
	ID           string  `json:"route_id"`
	OriginalStop string  `json:"original_stop"`
	LastStop     string  `json:"last_stop"`
	Direction    string  `json:"direction"`
	Stops        []*Stop `json:"stops"`

	section section
	ended   bool
	open    *Stop
}

// parseRoute reads "<id>, <origin>, <from> ==> <to>, <w1> <w2> <direction> ...".
func parseRoute(text string) (*Route, error) {
	fields := splitTrim(text, ",")
	if len(fields) < 4 {
		return nil, fieldError("route header", 4, len(fields))
	}

	terminals := splitTrim(fields[2], "==>")
	if len(terminals) < 2 {
		return nil, fieldError("route terminals", 2, len(terminals))
	}

	words := strings.Fields(fields[3])
	if len(words) < 3 {
		return nil, fieldError("route direction", 3, len(words))
	}

	return &Route{
		ID:           fields[0],
		OriginalStop: fields[1],
		LastStop:     terminals[1],
		Direction:    words[2],
		Stops:        []*Stop{},
		section:      sectionTR,
	}, nil
}

func (r *Route) parse(p *pass, text string) error {
	switch r.section {
	case sectionTR:
		if has(text, markerOpenRP) {
			r.section = sectionRP
		}
	case sectionRP:
		if has(text, markerCloseRP) {
			r.section = sectionTR
			r.ended = true
			return nil
		}

		if r.open != nil {
			err := r.open.parse(p, text)
			if r.open.ended {
				r.open = nil
			}
			return err
		}

		s, err := parseStop(text)
		if err != nil {
			if err := p.reject(KindStop, text, err); err != nil {
				return err
			}
			r.open = &Stop{section: sectionRP}
			return nil
		}
		r.Stops = append(r.Stops, s)
		r.open = s
	}
	return nil
}

// Ended reports whether the stops block of this route has been closed.
func (r *Route) Ended() bool {
	return r.ended
}

// Rows returns one row per departure of every stop.
func (r *Route) Rows(prefix Row) []Row {
	prefix.RouteID = r.ID
	prefix.OriginalStop = r.OriginalStop
	prefix.LastStop = r.LastStop
	prefix.Direction = r.Direction

	var rows []Row
	for _, s := range r.Stops {
		rows = append(rows, s.Rows(prefix)...)
	}
	return rows
}

// Structured returns the route and its stops as a mapping.
func (r *Route) Structured() map[string]interface{} {
	stops := []interface{}{}
	for _, s := range r.Stops {
		stops = append(stops, s.Structured())
	}

	return map[string]interface{}{
		"route_id":      r.ID,
		"original_stop": r.OriginalStop,
		"last_stop":     r.LastStop,
		"direction":     r.Direction,
		"stops":         stops,
	}
}
