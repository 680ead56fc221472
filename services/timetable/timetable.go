package timetable

import "strings"

// Timetable is a list of departures sharing a day type (weekdays, Saturdays, ...).
type Timetable struct {
	Type        string       `json:"timetable_type"`
	Description string       `json:"timetable_desc"`
	Departures  []*Departure `json:"departures"`

	section section
	ended   bool
}

func parseTimetable(text string) (*Timetable, error) {
	fields := splitTrim(strings.TrimSpace(text), "  ")
	if len(fields) < 2 {
		return nil, fieldError("timetable header", 2, len(fields))
	}

	return &Timetable{
		Type:        fields[0],
		Description: fields[1],
		Departures:  []*Departure{},
		section:     sectionTD,
	}, nil
}

func (t *Timetable) parse(p *pass, text string) error {
	switch t.section {
	case sectionTD:
		if has(text, markerOpenOD) {
			t.section = sectionOD
		}
	case sectionOD:
		if has(text, markerCloseOD) {
			t.section = sectionTD
			t.ended = true
			return nil
		}

		d, err := parseDeparture(text)
		if err != nil {
			return p.reject(KindDeparture, text, err)
		}
		t.Departures = append(t.Departures, d)
	}
	return nil
}

// Ended reports whether the departures block of this timetable has been closed.
func (t *Timetable) Ended() bool {
	return t.ended
}

// Rows returns one row per departure.
func (t *Timetable) Rows(prefix Row) []Row {
	prefix.TimetableType = t.Type
	prefix.TimetableDesc = t.Description

	var rows []Row
	for _, d := range t.Departures {
		rows = append(rows, d.Rows(prefix)...)
	}
	return rows
}

// Structured returns the timetable and its departures as a mapping.
func (t *Timetable) Structured() map[string]interface{} {
	departures := []interface{}{}
	for _, d := range t.Departures {
		departures = append(departures, d.Structured())
	}

	return map[string]interface{}{
		"timetable_type": t.Type,
		"timetable_desc": t.Description,
		"departures":     departures,
	}
}
