// Package interp provides the fractional-sample interpolation kernels used by
// the delay lines.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:   2-point linear interpolation
//   - [Hermite4]:  4-point cubic Hermite
//   - [Lagrange4]: 4-point, 3rd-order Lagrange
//
// Every kernel returns x0 exactly when t == 0, so whole-sample delays are
// reproduced bit-exactly. The [Mode] enum selects a kernel at construction
// time in [delay.Line].
package interp
