package convert

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // Blank import for sql drivers is "standard"
	perrors "github.com/pkg/errors"
	"github.com/rmrobinson/ztm/services/timetable"
	"github.com/rmrobinson/ztm/services/timetable/export"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
)

// Config controls where and how a conversion writes its outputs.
type Config struct {
	// OutputDir receives the CSV, JSON and default SQLite files.
	OutputDir string
	// DBPath overrides the SQLite database location.
	DBPath     string
	Strict     bool
	Encoding   encoding.Encoding
	JSONIndent string
	// Dump receives a debug dump of the parsed tree when set.
	Dump io.Writer
}

// Result describes a single completed conversion.
type Result struct {
	RunID     string
	Input     string
	Outputs   []string
	LineCount int
	RowCount  int
	Skipped   int
	Duration  time.Duration
	// Err combines the failures of individual outputs.
	Err error
}

// Failed reports whether the input could not be parsed or any output could not be written.
func (r *Result) Failed() bool {
	return r.Err != nil
}

func (r *Result) String() string {
	status := "ok"
	if r.Err != nil {
		status = r.Err.Error()
	}
	return fmt.Sprintf("%s: %d lines, %d departures, %d skipped -> [%s] (%s)",
		r.Input, r.LineCount, r.RowCount, r.Skipped, strings.Join(r.Outputs, ", "), status)
}

// Converter parses RA files and writes the selected outputs.
type Converter struct {
	logger *zap.Logger
	cfg    Config
}

// New creates a converter.
func New(logger *zap.Logger, cfg Config) *Converter {
	if len(cfg.OutputDir) < 1 {
		cfg.OutputDir = "."
	}
	return &Converter{
		logger: logger,
		cfg:    cfg,
	}
}

// Convert parses input and produces every selected output. A missing input or a
// strict parse failure is returned as an error and nothing is written; failures
// of individual outputs are reported in Result.Err and never stop the others.
func (c *Converter) Convert(ctx context.Context, input string, sel Selection) (*Result, error) {
	start := time.Now()
	res := &Result{
		RunID: uuid.New().String(),
		Input: input,
	}
	logger := c.logger.With(
		zap.String("run_id", res.RunID),
		zap.String("file_name", input),
	)

	logger.Info("trying to open input")
	opts := []timetable.Option{
		timetable.WithLogger(logger),
		timetable.WithStrict(c.cfg.Strict),
	}
	if c.cfg.Encoding != nil {
		opts = append(opts, timetable.WithEncoding(c.cfg.Encoding))
	}

	doc, err := timetable.ParseFile(input, opts...)
	if err != nil {
		logger.Error("unable to parse input",
			zap.Error(err),
		)
		return nil, err
	}

	rows := doc.Rows()
	res.LineCount = len(doc.Lines())
	res.RowCount = len(rows)
	res.Skipped = len(doc.Errors())

	if c.cfg.Dump != nil {
		export.Dump(c.cfg.Dump, doc.Lines())
	}

	if err := os.MkdirAll(c.cfg.OutputDir, 0755); err != nil {
		res.Err = multierr.Append(res.Err, err)
	}

	if sel.Has(SelectJSON) {
		path := export.OutputPath(input, c.cfg.OutputDir, export.ExtJSON)
		c.record(logger, res, path, writeFile(path, func(w io.Writer) error {
			return export.WriteJSON(w, doc.Structured(), c.cfg.JSONIndent)
		}))
	}
	if sel.Has(SelectCSV) {
		path := export.OutputPath(input, c.cfg.OutputDir, export.ExtCSV)
		c.record(logger, res, path, writeFile(path, func(w io.Writer) error {
			return export.WriteCSV(w, rows)
		}))
	}
	if sel.Has(SelectSQLite) {
		path := c.cfg.DBPath
		if len(path) < 1 {
			path = export.OutputPath(input, c.cfg.OutputDir, export.ExtSQLite)
		}
		c.record(logger, res, path, persist(ctx, logger, path, sourceName(input), rows))
	}

	res.Duration = time.Since(start)
	logger.Info("conversion finished",
		zap.Int("line_count", res.LineCount),
		zap.Int("row_count", res.RowCount),
		zap.Int("skipped_records", res.Skipped),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

func (c *Converter) record(logger *zap.Logger, res *Result, path string, err error) {
	if err != nil {
		logger.Error("unable to write output",
			zap.String("output", path),
			zap.Error(err),
		)
		res.Err = multierr.Append(res.Err, err)
		return
	}

	logger.Info("saved output",
		zap.String("output", path),
	)
	res.Outputs = append(res.Outputs, path)
}

func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return perrors.Wrapf(err, "creating %s", path)
	}

	if err := fn(f); err != nil {
		f.Close()
		return perrors.Wrapf(err, "writing %s", path)
	}
	return f.Close()
}

func persist(ctx context.Context, logger *zap.Logger, path, source string, rows []timetable.Row) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return perrors.Wrapf(err, "opening %s", path)
	}
	defer db.Close()

	p := export.NewSQLPersister(logger, db)
	if err := p.Setup(ctx); err != nil {
		return perrors.Wrapf(err, "setting up %s", path)
	}
	return p.Persist(ctx, source, rows)
}

func sourceName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
