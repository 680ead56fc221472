package timetable

import "strings"

// Departure is a single scheduled departure from a stop.
type Departure struct {
	Time string `json:"departure_time"`
	ID   string `json:"departure_id"`
}

// parseDeparture reads "HH.MM <id> ..." and normalizes the time to HH:MM.
func parseDeparture(text string) (*Departure, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil, fieldError("departure", 2, len(fields))
	}

	return &Departure{
		Time: strings.ReplaceAll(fields[0], ".", ":"),
		ID:   fields[1],
	}, nil
}

// Rows returns the prefix completed with this departure.
func (d *Departure) Rows(prefix Row) []Row {
	prefix.DepartureTime = d.Time
	prefix.DepartureID = d.ID
	return []Row{prefix}
}

// Structured returns the departure as a mapping.
func (d *Departure) Structured() map[string]interface{} {
	return map[string]interface{}{
		"departure_time": d.Time,
		"departure_id":   d.ID,
	}
}
