package export

import (
	"path/filepath"
	"strings"
)

// File extensions of the produced outputs.
const (
	ExtCSV    = "CSV"
	ExtJSON   = "JSON"
	ExtSQLite = "DB"
)

// OutputPath names an output for the input file: the input base name without its
// last extension, placed in dir, with ext appended.
func OutputPath(input, dir, ext string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if len(dir) < 1 {
		dir = "."
	}
	return filepath.Join(dir, base+"."+ext)
}
