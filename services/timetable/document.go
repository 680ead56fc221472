package timetable

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	perrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

const maxLineLength = 1024 * 1024

var (
	// ErrParseCompleted is returned if a line is supplied after the document was closed.
	ErrParseCompleted = errors.New("document parsing already completed")
	// ErrUnknownEncoding is returned if a character set name cannot be resolved.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

type options struct {
	logger   *zap.Logger
	strict   bool
	encoding encoding.Encoding
}

// Option configures a parse.
type Option func(*options)

// WithLogger sets the logger used to report progress and skipped records.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStrict makes the first malformed record abort the parse instead of being skipped.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithEncoding decodes the source from the supplied character set before parsing.
func WithEncoding(enc encoding.Encoding) Option {
	return func(o *options) {
		o.encoding = enc
	}
}

// EncodingByName resolves a character set name such as "windows-1250" or "iso-8859-2".
// The empty name means the input is already UTF-8 and returns nil.
func EncodingByName(name string) (encoding.Encoding, error) {
	if len(name) < 1 {
		return nil, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, perrors.Wrapf(ErrUnknownEncoding, "%s", name)
	}
	return enc, nil
}

// pass is the state shared by every level of the hierarchy during one parse.
type pass struct {
	logger *zap.Logger
	strict bool
	lineNo int
	errs   []error
}

// reject records a line that could not be turned into a record.
// Only strict passes get the error back.
func (p *pass) reject(kind RecordKind, text string, err error) error {
	mhe := &MalformedHeaderError{
		Kind:   kind,
		LineNo: p.lineNo,
		Text:   strings.TrimRight(text, "\r\n"),
		Err:    err,
	}
	if p.strict {
		return mhe
	}

	p.logger.Warn("skipping malformed record",
		zap.String("kind", string(kind)),
		zap.Int("line_no", p.lineNo),
		zap.String("text", mhe.Text),
		zap.Error(err),
	)
	p.errs = append(p.errs, mhe)
	return nil
}

// Document is the root of a parsed RA file: the ordered list of lines found in its LL block.
type Document struct {
	lines     []*Line
	open      *Line
	section   section
	completed bool

	enc encoding.Encoding
	p   *pass
}

// NewDocument creates an empty document ready to receive lines.
func NewDocument(opts ...Option) *Document {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	return &Document{
		enc: o.encoding,
		p: &pass{
			logger: o.logger,
			strict: o.strict,
		},
	}
}

// ParseFile checks that the path names a regular file and parses its contents.
func ParseFile(path string, opts ...Option) (*Document, error) {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return nil, perrors.Wrapf(ErrMissingInput, "%s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	return ParseReader(f, opts...)
}

// ParseReader consumes the reader line by line and returns the completed document.
func ParseReader(r io.Reader, opts ...Option) (*Document, error) {
	doc := NewDocument(opts...)
	if doc.enc != nil {
		r = doc.enc.NewDecoder().Reader(r)
	}
	doc.p.logger.Info("parsing started")

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		if err := doc.ParseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, perrors.Wrapf(err, "reading line %d", doc.p.lineNo+1)
	}

	doc.Close()
	doc.p.logger.Info("parsing is done",
		zap.Int("line_count", len(doc.lines)),
		zap.Int("source_lines", doc.p.lineNo),
		zap.Int("skipped_records", len(doc.p.errs)),
	)
	return doc, nil
}

// ParseLine feeds a single source line to the document-level state machine.
func (d *Document) ParseLine(text string) error {
	if d.completed {
		return ErrParseCompleted
	}
	d.p.lineNo++

	// Blank lines carry no record and no marker at any level.
	if len(strings.TrimSpace(text)) < 1 {
		return nil
	}

	switch d.section {
	case sectionNone:
		if has(text, markerOpenLL) {
			d.section = sectionLL
		}
	case sectionLL:
		if has(text, markerCloseLL) {
			d.section = sectionNone
			return nil
		}

		if d.open == nil {
			if has(text, lineTypeMarker) {
				return d.startLine(text)
			}
			return nil
		}

		err := d.open.parse(d.p, text)
		if d.open.ended {
			d.open = nil
		}
		return err
	}
	return nil
}

func (d *Document) startLine(text string) error {
	l, err := parseLine(text)
	if err != nil {
		if err := d.p.reject(KindLine, text, err); err != nil {
			return err
		}
		d.open = &Line{section: sectionLL}
		return nil
	}

	d.p.logger.Debug("added line",
		zap.String("line_number", l.Number),
		zap.Int("line_no", d.p.lineNo),
	)
	d.lines = append(d.lines, l)
	d.open = l
	return nil
}

// Close marks the pass as complete. Further calls to ParseLine fail.
func (d *Document) Close() {
	d.completed = true
}

// Completed reports whether the whole source has been consumed.
func (d *Document) Completed() bool {
	return d.completed
}

// Lines returns the parsed lines. Records with malformed headers never appear in the tree.
func (d *Document) Lines() []*Line {
	return d.lines
}

// Errors returns a copy of every malformed record skipped during a lenient parse.
func (d *Document) Errors() []error {
	errs := make([]error, len(d.p.errs))
	copy(errs, d.p.errs)
	return errs
}

// Rows returns the flat projection of the document, or nothing if parsing did not complete.
func (d *Document) Rows() []Row {
	if !d.completed {
		return []Row{}
	}
	return RowsOf(d.lines)
}

// Structured returns the nested projection of the document, or nothing if parsing did not complete.
func (d *Document) Structured() []interface{} {
	if !d.completed {
		return []interface{}{}
	}
	return StructuredOf(d.lines)
}
