package ffmpeg

import "strconv"

// Options describe one encode.
type Options struct {
	FrameRate int
	Codec     string // Concrete encoder name, already resolved from "auto".
	Bitrate   string
}

// FramePattern is the image2 pattern staged frames are named by.
const FramePattern = "%06d.jpg"

// BuildArgs returns the full ffmpeg argument list (binary first) that encodes
// the frames matched by pattern into out. Existing outputs are never
// overwritten.
func BuildArgs(bin string, opts Options, pattern, out string) []string {
	return []string{
		bin,
		"-hide_banner", "-nostdin", "-n",
		"-framerate", strconv.Itoa(opts.FrameRate),
		"-i", pattern,
		"-pix_fmt", "yuv420p",
		"-c:v", opts.Codec,
		"-b:v", opts.Bitrate,
		out,
	}
}
