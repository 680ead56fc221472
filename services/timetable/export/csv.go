package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rmrobinson/ztm/services/timetable"
)

// Delimiter separates the columns of the flat table.
const Delimiter = ';'

// WriteCSV writes a header row followed by one row per departure.
// Fields are joined with Delimiter as they are; only a field holding the
// delimiter, a line break or a leading quote is quoted.
// The table is rendered in memory and handed to w in a single write.
func WriteCSV(w io.Writer, rows []timetable.Row) error {
	records, err := marshalRecords(rows)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, record := range records {
		for i, field := range record {
			if i > 0 {
				buf.WriteByte(Delimiter)
			}
			buf.WriteString(quoteField(field))
		}
		buf.WriteByte('\n')
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// marshalRecords maps rows onto their header and column values.
func marshalRecords(rows []timetable.Row) ([][]string, error) {
	if rows == nil {
		rows = []timetable.Row{}
	}

	var buf bytes.Buffer
	out := gocsv.NewSafeCSVWriter(csv.NewWriter(&buf))
	if err := gocsv.MarshalCSV(&rows, out); err != nil {
		return nil, err
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return nil, err
	}

	return csv.NewReader(&buf).ReadAll()
}

func quoteField(field string) string {
	if !strings.ContainsAny(field, string(Delimiter)+"\r\n") && !strings.HasPrefix(field, `"`) {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// ReadCSV reads a table previously produced by WriteCSV.
func ReadCSV(r io.Reader) ([]timetable.Row, error) {
	var rows []timetable.Row
	if err := gocsv.UnmarshalCSV(tableCSVReader(r), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func tableCSVReader(in io.Reader) gocsv.CSVReader {
	csvReader := csv.NewReader(in)
	csvReader.Comma = Delimiter
	csvReader.LazyQuotes = true
	return csvReader
}
