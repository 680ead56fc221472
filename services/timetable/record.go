package timetable

import "strings"

// Row is a single departure flattened together with every record that owns it.
// Field order is the column order of the delimited table.
type Row struct {
	LineNumber    string `csv:"line_number"`
	Description   string `csv:"description"`
	RouteID       string `csv:"route_id"`
	OriginalStop  string `csv:"original_stop"`
	LastStop      string `csv:"last_stop"`
	Direction     string `csv:"direction"`
	StopID        string `csv:"stop_id"`
	StopName      string `csv:"stop_name"`
	ValidFrom     string `csv:"valid_from"`
	ValidUntil    string `csv:"valid_until"`
	TimetableType string `csv:"timetable_type"`
	TimetableDesc string `csv:"timetable_desc"`
	DepartureTime string `csv:"departure_time"`
	DepartureID   string `csv:"departure_id"`
}

// Projection is implemented by every record of the hierarchy.
type Projection interface {
	// Rows returns one row per departure below the record, each starting from prefix.
	Rows(prefix Row) []Row
	// Structured returns the record as a mapping keyed by attribute name, children included.
	Structured() map[string]interface{}
}

var (
	_ Projection = (*Line)(nil)
	_ Projection = (*Route)(nil)
	_ Projection = (*Stop)(nil)
	_ Projection = (*Timetable)(nil)
	_ Projection = (*Departure)(nil)
)

// RowsOf flattens a list of lines in document order.
func RowsOf(lines []*Line) []Row {
	rows := []Row{}
	for _, l := range lines {
		rows = append(rows, l.Rows(Row{})...)
	}
	return rows
}

// StructuredOf converts a list of lines into their nested representation.
func StructuredOf(lines []*Line) []interface{} {
	ret := []interface{}{}
	for _, l := range lines {
		ret = append(ret, l.Structured())
	}
	return ret
}

func splitTrim(s, sep string) []string {
	fields := strings.Split(s, sep)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}
