package ffmpeg

import (
	"context"
	"os/exec"
	"strings"
)

// Encoder names the assembler chooses between.
const (
	CodecVideoToolbox = "h264_videotoolbox"
	CodecX264         = "libx264"
)

// DetectCodec returns h264_videotoolbox when ffmpeg lists it among its
// encoders, libx264 otherwise (including when ffmpeg cannot be run).
func DetectCodec(ctx context.Context, ffmpegPath string) string {
	out, err := exec.CommandContext(ctx, ffmpegPath, "-hide_banner", "-encoders").Output()
	if err != nil {
		return CodecX264
	}
	return pickCodec(string(out))
}

// pickCodec chooses from an `ffmpeg -encoders` listing.
func pickCodec(listing string) string {
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == CodecVideoToolbox {
			return CodecVideoToolbox
		}
	}
	return CodecX264
}

// ResolveCodec turns the configured codec into a concrete encoder name.
func ResolveCodec(ctx context.Context, configured, ffmpegPath string) string {
	if configured == "" || configured == "auto" {
		return DetectCodec(ctx, ffmpegPath)
	}
	return configured
}
