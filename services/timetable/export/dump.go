package export

import (
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/rmrobinson/ztm/services/timetable"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump writes a debug representation of the parsed hierarchy.
func Dump(w io.Writer, lines []*timetable.Line) {
	dumpConfig.Fdump(w, lines)
}
