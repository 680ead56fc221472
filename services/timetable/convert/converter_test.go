package convert

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmrobinson/ztm/services/timetable"
	"github.com/rmrobinson/ztm/services/timetable/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"
)

var source = strings.Join([]string{
	"*LL",
	"LINIA KOLEI MIEJSKIEJ 4 - Test Line",
	"*TR",
	"R1, OrigStop, StopA ==> StopB, kursuje w obie strony",
	"*RP",
	"S1  Stop Name",
	"*TD",
	"A  Weekday",
	"*OD",
	"05.30 123",
	"#OD",
	"#TD",
	"*OP",
	"rozkład ważny od: 01.01.2024",
	"#OP",
	"#RP",
	"#TR",
	"*WK",
	"#WK",
	"#LL",
}, "\n")

const expectedCSV = "line_number;description;route_id;original_stop;last_stop;direction;stop_id;stop_name;valid_from;valid_until;timetable_type;timetable_desc;departure_time;departure_id\n" +
	"4;Test Line;R1;OrigStop;StopB;obie;S1;Stop Name;01.01.2024;;A;Weekday;05:30;123\n"

func writeSource(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "RA240101.TXT")
	require.NoError(t, ioutil.WriteFile(path, []byte(source), 0644))
	return path
}

type parseSelectionTest struct {
	name   string
	text   string
	result Selection
}

var parseSelectionTests = []parseSelectionTest{
	{"empty defaults to both", "", SelectCSV | SelectJSON},
	{"json only", "json", SelectJSON},
	{"csv only", "CSV", SelectCSV},
	{"both", "json,csv", SelectCSV | SelectJSON},
	{"reversed", "csv,json", SelectCSV | SelectJSON},
	{"everything", "csv,json,sqlite", SelectCSV | SelectJSON | SelectSQLite},
	{"unknown", "xml", 0},
}

func TestParseSelection(t *testing.T) {
	for _, tt := range parseSelectionTests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.result, ParseSelection(tt.text))
		})
	}
}

func TestSelectionString(t *testing.T) {
	assert.Equal(t, "json,csv", DefaultSelection.String())
	assert.Equal(t, "none", Selection(0).String())
}

func TestConvertDefaultOutputs(t *testing.T) {
	input := writeSource(t)
	outDir := t.TempDir()

	c := New(zaptest.NewLogger(t), Config{OutputDir: outDir})
	res, err := c.Convert(context.Background(), input, DefaultSelection)
	require.NoError(t, err)
	require.NoError(t, res.Err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 1, res.LineCount)
	assert.Equal(t, 1, res.RowCount)
	assert.Equal(t, []string{
		filepath.Join(outDir, "RA240101.JSON"),
		filepath.Join(outDir, "RA240101.CSV"),
	}, res.Outputs)

	csv, err := ioutil.ReadFile(filepath.Join(outDir, "RA240101.CSV"))
	require.NoError(t, err)
	assert.Equal(t, expectedCSV, string(csv))

	js, err := os.Open(filepath.Join(outDir, "RA240101.JSON"))
	require.NoError(t, err)
	defer js.Close()

	lines, err := export.ReadJSON(js)
	require.NoError(t, err)

	var derived bytes.Buffer
	require.NoError(t, export.WriteCSV(&derived, timetable.RowsOf(lines)))
	assert.Equal(t, expectedCSV, derived.String())
}

func TestConvertMissingInput(t *testing.T) {
	outDir := t.TempDir()

	c := New(zaptest.NewLogger(t), Config{OutputDir: outDir})
	res, err := c.Convert(context.Background(), filepath.Join(outDir, "missing.TXT"), DefaultSelection)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, timetable.ErrMissingInput))

	entries, err := ioutil.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConvertOutputFailureIsIndependent(t *testing.T) {
	input := writeSource(t)
	outDir := t.TempDir()
	// A directory in place of the JSON file makes that output fail.
	require.NoError(t, os.Mkdir(filepath.Join(outDir, "RA240101.JSON"), 0755))

	c := New(zaptest.NewLogger(t), Config{OutputDir: outDir})
	res, err := c.Convert(context.Background(), input, DefaultSelection)
	require.NoError(t, err)

	assert.Error(t, res.Err)
	assert.Len(t, multierr.Errors(res.Err), 1)
	assert.Equal(t, []string{filepath.Join(outDir, "RA240101.CSV")}, res.Outputs)

	csv, err := ioutil.ReadFile(filepath.Join(outDir, "RA240101.CSV"))
	require.NoError(t, err)
	assert.Equal(t, expectedCSV, string(csv))
}

func TestConvertSQLite(t *testing.T) {
	input := writeSource(t)
	outDir := t.TempDir()

	var dump bytes.Buffer
	c := New(zaptest.NewLogger(t), Config{OutputDir: outDir, Dump: &dump})
	res, err := c.Convert(context.Background(), input, SelectSQLite)
	require.NoError(t, err)
	require.NoError(t, res.Err)

	dbPath := filepath.Join(outDir, "RA240101.DB")
	assert.Equal(t, []string{dbPath}, res.Outputs)
	assert.Contains(t, dump.String(), "Test Line")

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	rows, err := export.NewSQLPersister(zaptest.NewLogger(t), db).Load(context.Background(), "RA240101")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "05:30", rows[0].DepartureTime)
	assert.Equal(t, "01.01.2024", rows[0].ValidFrom)
}

func TestConvertStrictAbortsBeforeOutputs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "RA240102.TXT")
	broken := strings.Replace(source, "S1  Stop Name", "S1 Stop Name", 1)
	require.NoError(t, ioutil.WriteFile(path, []byte(broken), 0644))
	outDir := t.TempDir()

	c := New(zaptest.NewLogger(t), Config{OutputDir: outDir, Strict: true})
	_, err := c.Convert(context.Background(), path, DefaultSelection)

	var mhe *timetable.MalformedHeaderError
	require.True(t, errors.As(err, &mhe))
	assert.Equal(t, timetable.KindStop, mhe.Kind)

	entries, err := ioutil.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResultString(t *testing.T) {
	r := &Result{Input: "RA.TXT", LineCount: 1, RowCount: 2, Outputs: []string{"RA.CSV"}}
	assert.Equal(t, "RA.TXT: 1 lines, 2 departures, 0 skipped -> [RA.CSV] (ok)", r.String())
}

func TestResultFailed(t *testing.T) {
	r := &Result{Input: "RA.TXT"}
	assert.False(t, r.Failed())

	r.Err = errors.New("disk full")
	assert.True(t, r.Failed())
	assert.Equal(t, "RA.TXT: 0 lines, 0 departures, 0 skipped -> [] (disk full)", r.String())
}
