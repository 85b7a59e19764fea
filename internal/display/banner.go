// Package display renders the startup banner and human-readable values for
// log lines and the run summary.
package display

import (
	"fmt"
	"io"

	"github.com/backmassage/camsort/internal/term"
)

const banner = `                                      _
  ___ __ _ _ __ ___  ___  ___  _ __| |_
 / __/ _` + "`" + ` | '_ ` + "`" + ` _ \/ __|/ _ \| '__| __|
| (_| (_| | | | | | \__ \ (_) | |  | |_
 \___\__,_|_| |_| |_|___/\___/|_|   \__|
`

// PrintBanner writes the ASCII banner to w, in magenta when colors are on.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprint(w, term.Paint(term.Magenta, banner))
	fmt.Fprintf(w, "camsort v%s\n\n", version)
}
