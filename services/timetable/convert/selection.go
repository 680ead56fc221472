package convert

import "strings"

// Selection is the set of outputs a conversion produces.
type Selection uint8

const (
	// SelectCSV produces the semicolon-delimited table.
	SelectCSV Selection = 1 << iota
	// SelectJSON produces the nested document.
	SelectJSON
	// SelectSQLite persists the table into a SQLite database.
	SelectSQLite
)

// DefaultSelection is used when no outputs are requested explicitly.
const DefaultSelection = SelectCSV | SelectJSON

// ParseSelection reads a list such as "json,csv". Any word containing an output
// name selects it; an empty list selects the defaults.
func ParseSelection(s string) Selection {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 1 {
		return DefaultSelection
	}

	var sel Selection
	if strings.Contains(s, "csv") {
		sel |= SelectCSV
	}
	if strings.Contains(s, "json") {
		sel |= SelectJSON
	}
	if strings.Contains(s, "sqlite") || strings.Contains(s, "db") {
		sel |= SelectSQLite
	}
	return sel
}

// Has reports whether every output of o is selected.
func (s Selection) Has(o Selection) bool {
	return s&o == o
}

func (s Selection) String() string {
	var names []string
	if s.Has(SelectJSON) {
		names = append(names, "json")
	}
	if s.Has(SelectCSV) {
		names = append(names, "csv")
	}
	if s.Has(SelectSQLite) {
		names = append(names, "sqlite")
	}
	if len(names) < 1 {
		return "none"
	}
	return strings.Join(names, ",")
}
