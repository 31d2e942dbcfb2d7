// Package buffer provides a channel-major sample matrix with reusable
// storage. All DSP code in this module takes raw [][]float64 blocks; Block is
// the owner of such storage when a component needs its own copy (the dry
// snapshot of a mixer, a host's render buffer).
package buffer
