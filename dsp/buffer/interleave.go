package buffer

// Deinterleave splits frame-interleaved samples into dst, resizing it to
// len(src)/channels frames. Trailing partial frames are dropped.
func Deinterleave(dst *Block, src []float64, channels int) {
	if channels <= 0 {
		dst.Resize(0, 0)
		return
	}
	frames := len(src) / channels
	dst.Resize(channels, frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			dst.channels[ch][i] = src[i*channels+ch]
		}
	}
}

// Interleave writes channel-major src into frame-interleaved dst and returns
// the number of frames written. It stops at the shorter of dst's frame
// capacity and the shortest channel.
func Interleave(dst []float64, src [][]float64) int {
	channels := len(src)
	if channels == 0 {
		return 0
	}
	frames := len(dst) / channels
	for ch := range src {
		if len(src[ch]) < frames {
			frames = len(src[ch])
		}
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			dst[i*channels+ch] = src[ch][i]
		}
	}
	return frames
}
