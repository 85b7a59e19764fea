// Package pipeline runs the organizer stages over one root in order:
// classify every file into its bucket, link multicam groups, isolate
// timelapse sequences, then filter and assemble each sequence.
//
// Each stage consumes a snapshot of what the previous one produced. Per-file
// and per-sequence failures are logged, recorded in the run report and never
// abort the run; only discovery failures and cancellation end it early.
package pipeline
