package seotag

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger returns a text logger writing to w (stderr when nil) at the named level.
func NewLogger(level string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           ParseLogLevel(level),
		Prefix:          "seotag",
	})
}
