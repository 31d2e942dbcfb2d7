// Package delay provides fixed-capacity circular delay lines with fractional
// read positions.
//
// [Line] holds the history of one channel. [Bank] groups one Line per channel
// and is sized once per prepare call; nothing in the per-sample path
// allocates.
//
// A sample of delay D is realised by a push followed by a pop in the same
// per-sample iteration: Pop reads D samples behind the most recent Push, so a
// delay of 0 passes the pushed sample straight through.
package delay
