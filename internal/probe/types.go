package probe

import (
	"context"
	"errors"
	"fmt"

	"github.com/backmassage/camsort/internal/media"
)

// Accessor extracts metadata for one file. Implementations must not modify
// the file.
type Accessor interface {
	Probe(ctx context.Context, path string, kind media.Kind) (media.File, error)
}

// ProbeError reports a metadata read failure for one file.
type ProbeError struct {
	Path string
	Op   string // "ffprobe", "parse", "exif", "open".
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// IsProbeError reports whether err wraps a *ProbeError.
func IsProbeError(err error) bool {
	var pe *ProbeError
	return errors.As(err, &pe)
}

// ErrNoDuration is wrapped when ffprobe reports no usable duration for a
// video, which the classifier needs for the footage split.
var ErrNoDuration = errors.New("no duration in container metadata")
