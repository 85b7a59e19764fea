// Command camsort organizes a folder of camera media: files are sorted into
// per-camera buckets, overlapping videos are linked as multicam groups, and
// timelapse photo runs are isolated, cleaned and assembled into video.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

// version is injected at build time via -ldflags.
var version = "0.1.0"

func main() {
	root := newRootCmd()
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
