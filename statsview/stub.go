//go:build !statsview

package statsview

import (
	"fmt"
	"io"
)

// Launch reports that the stats server isn't built in.
func Launch(output io.Writer) {
	fmt.Fprintln(output, "stats server not available (build with -tags statsview)")
}

// Available returns true if a stats server can be launched.
func Available() bool {
	return false
}
