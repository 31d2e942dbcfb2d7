// Package effects implements the stereo delay/mix effect.
//
// StereoDelay wires a delay.Bank, a mix.DryWet and a param.Bridge into one
// in-place block processor with two routing variants:
//   - CrossFeed: one shared delay depth. Input 0 is delayed onto output 1
//     and the polarity-inverted input 1 onto output 0.
//   - Independent: one delay depth per channel, straight routing. The
//     FEEDBACK parameter is declared and persisted but has no effect on
//     the signal.
//
// ProcessBlock does not allocate, lock or log. Parameter writes through
// SetParameter may come from any goroutine.
package effects
