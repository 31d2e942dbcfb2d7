// Package ir captures and analyzes the impulse response of block
// processors such as effects.StereoDelay.
//
//   - Capture drives a unit impulse through a Processor and records every
//     output channel.
//   - Analyzer reports where the response peaks, its sign, its energy and
//     its energy centroid.
//   - MagnitudeResponse returns |H(k)| via an FFT. A pure delay is flat.
//
// # Usage
//
//	resp, err := ir.Capture(fx, 2, 4096, 512, 0)
//	metrics, err := ir.NewAnalyzer(48000).Analyze(resp[1])
//	fmt.Printf("delay = %.2f ms\n", metrics.DelaySeconds*1000)
package ir
