package targetdep

import (
	"fmt"
	"io"
	"os"
)

// Announcer tells the parent build to re-run when a path changes.
type Announcer interface {
	RerunIfChanged(path string) error
}

type writerAnnouncer struct {
	w io.Writer
}

// NewAnnouncer returns an Announcer writing cargo:rerun-if-changed
// directives to w, one per line.
func NewAnnouncer(w io.Writer) Announcer {
	return &writerAnnouncer{w: w}
}

func (a *writerAnnouncer) RerunIfChanged(path string) error {
	_, err := fmt.Fprintf(a.w, "cargo:rerun-if-changed=%s\n", path)
	return err
}

// Stdout is the Announcer cargo reads from a build script.
func Stdout() Announcer {
	return NewAnnouncer(os.Stdout)
}
