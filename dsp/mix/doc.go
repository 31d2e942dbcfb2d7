// Package mix blends an unprocessed (dry) snapshot of a block with the same
// block after in-place (wet) processing.
//
// The call order per block is PushDrySamples, wet processing,
// MixWetSamples. DryWet tracks that order and reports violations as errors
// instead of silently mixing a buffer with itself.
package mix
