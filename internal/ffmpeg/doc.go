// Package ffmpeg assembles an ordered list of frames into a video by running
// ffmpeg once per sequence.
//
// Frames are staged as numbered symlinks in a temporary directory so ffmpeg
// reads them through a plain image2 pattern in exactly the order given. The
// codec defaults to h264_videotoolbox when the local ffmpeg offers it and to
// libx264 otherwise. Failures are *EncoderError values carrying the output
// path, a stderr tail, and a hint when the stderr matches a known cause.
package ffmpeg
