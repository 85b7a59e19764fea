// Package probe reads the metadata the organizer needs from media files.
//
// Audio and video go through a single ffprobe JSON call per file; images go
// through an EXIF decoder. Both paths return a [media.File] with lowercased
// tags, the capture time and (for audio/video) the duration. Failures are
// [ProbeError] values carrying the path; a photo without EXIF is not an
// error, it simply has no tags.
package probe
