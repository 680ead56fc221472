package timetable

import (
	"regexp"
	"strings"
)

var (
	// "Rozkład ważny od: 01.01.2024"
	validFromPattern = regexp.MustCompile(`(?i)^.*rozk.+ad wa.+ny od`)
	// "Rozkład jazdy obowiązuje w dniach: 01.01.2024 - 31.01.2024."
	validRangePattern = regexp.MustCompile(`(?i)^.*rozk.+ad jazdy obowi.+zuje w dniach`)
)

// Stop is a stop served by a route, together with the timetables valid there.
type Stop struct {
	ID         string       `json:"stop_id"`
	Name       string       `json:"stop_name"`
	ValidFrom  string       `json:"valid_from"`
	ValidUntil string       `json:"valid_until"`
	Timetables []*Timetable `json:"timetables"`

	section section
	ended   bool
	open    *Timetable
}

// parseStop reads "<id>  <name>, ..."; everything after the first comma is ignored.
func parseStop(text string) (*Stop, error) {
	head := strings.TrimSpace(strings.Split(text, ",")[0])
	fields := splitTrim(head, "  ")
	if len(fields) < 2 {
		return nil, fieldError("stop header", 2, len(fields))
	}

	return &Stop{
		ID:         fields[0],
		Name:       fields[1],
		Timetables: []*Timetable{},
		section:    sectionRP,
	}, nil
}

func (s *Stop) parse(p *pass, text string) error {
	switch s.section {
	case sectionRP:
		if has(text, markerOpenTD) {
			s.section = sectionTD
		} else if has(text, markerOpenOP) {
			s.section = sectionOP
		}
	case sectionTD:
		if has(text, markerCloseTD) {
			s.section = sectionRP
			return nil
		}

		if s.open != nil {
			err := s.open.parse(p, text)
			if s.open.ended {
				s.open = nil
			}
			return err
		}

		t, err := parseTimetable(text)
		if err != nil {
			if err := p.reject(KindTimetable, text, err); err != nil {
				return err
			}
			s.open = &Timetable{section: sectionTD}
			return nil
		}
		s.Timetables = append(s.Timetables, t)
		s.open = t
	case sectionOP:
		if has(text, markerCloseOP) {
			s.section = sectionRP
			s.ended = true
			return nil
		}
		return s.parseValidity(p, text)
	}
	return nil
}

// parseValidity applies the first matching validity sentence. Later matches
// overwrite earlier ones; lines matching neither pattern are ignored.
func (s *Stop) parseValidity(p *pass, text string) error {
	switch {
	case validFromPattern.MatchString(text):
		from, err := extractValidFrom(text)
		if err != nil {
			return p.reject(KindValidity, text, err)
		}
		s.ValidFrom = from
	case validRangePattern.MatchString(text):
		from, until, err := extractValidRange(text)
		if err != nil {
			return p.reject(KindValidity, text, err)
		}
		s.ValidFrom = from
		s.ValidUntil = until
	}
	return nil
}

func extractValidFrom(text string) (string, error) {
	parts := strings.SplitN(text, "od", 2)
	if len(parts) < 2 {
		return "", fieldError("valid from sentence", 2, len(parts))
	}

	from := strings.TrimSpace(parts[1])
	if strings.HasPrefix(from, ":") {
		from = strings.TrimSpace(from[1:])
	}
	return from, nil
}

func extractValidRange(text string) (string, string, error) {
	parts := strings.Split(text, ":")
	if len(parts) < 2 {
		return "", "", fieldError("validity range sentence", 2, len(parts))
	}

	dates := splitTrim(parts[1], "-")
	if len(dates) < 2 {
		return "", "", fieldError("validity range", 2, len(dates))
	}

	until := dates[1]
	if strings.HasSuffix(until, ".") {
		until = strings.TrimSpace(until[:len(until)-1])
	}
	return dates[0], until, nil
}

// Ended reports whether the metadata block of this stop has been closed.
func (s *Stop) Ended() bool {
	return s.ended
}

// Rows returns one row per departure of every timetable.
func (s *Stop) Rows(prefix Row) []Row {
	prefix.StopID = s.ID
	prefix.StopName = s.Name
	prefix.ValidFrom = s.ValidFrom
	prefix.ValidUntil = s.ValidUntil

	var rows []Row
	for _, t := range s.Timetables {
		rows = append(rows, t.Rows(prefix)...)
	}
	return rows
}

// Structured returns the stop and its timetables as a mapping.
func (s *Stop) Structured() map[string]interface{} {
	timetables := []interface{}{}
	for _, t := range s.Timetables {
		timetables = append(timetables, t.Structured())
	}

	return map[string]interface{}{
		"stop_id":     s.ID,
		"stop_name":   s.Name,
		"valid_from":  s.ValidFrom,
		"valid_until": s.ValidUntil,
		"timetables":  timetables,
	}
}
