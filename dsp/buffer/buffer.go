package buffer

import "fmt"

// Block is a channel-major matrix of samples backed by one contiguous slice.
type Block struct {
	backing  []float64
	channels [][]float64
	length   int
}

// NewBlock returns a zero-filled Block.
func NewBlock(channels, length int) *Block {
	b := &Block{}
	b.Resize(channels, length)
	return b
}

// Resize sets the shape, reusing existing capacity when possible. The
// contents are zeroed.
func (b *Block) Resize(channels, length int) {
	if channels < 0 {
		channels = 0
	}
	if length < 0 {
		length = 0
	}

	need := channels * length
	if cap(b.backing) >= need {
		b.backing = b.backing[:need]
	} else {
		b.backing = make([]float64, need)
	}
	if cap(b.channels) >= channels {
		b.channels = b.channels[:channels]
	} else {
		b.channels = make([][]float64, channels)
	}
	for ch := range b.channels {
		b.channels[ch] = b.backing[ch*length : (ch+1)*length : (ch+1)*length]
	}
	b.length = length
	b.Zero()
}

// Channels returns the channel count.
func (b *Block) Channels() int {
	return len(b.channels)
}

// Len returns the per-channel length.
func (b *Block) Len() int {
	return b.length
}

// Channel returns the samples of one channel.
func (b *Block) Channel(ch int) []float64 {
	return b.channels[ch]
}

// Data returns the channel slices. Mutations are visible through the Block.
func (b *Block) Data() [][]float64 {
	return b.channels
}

// Zero sets all samples to 0.
func (b *Block) Zero() {
	for i := range b.backing {
		b.backing[i] = 0
	}
}

// CopyFrom copies src into the Block without reallocating and returns the
// number of frames copied per channel. It fails when src has more channels
// or frames than the Block holds.
func (b *Block) CopyFrom(src [][]float64) (int, error) {
	if len(src) > len(b.channels) {
		return 0, fmt.Errorf("buffer: %d source channels exceed %d", len(src), len(b.channels))
	}
	n := 0
	for ch := range src {
		if len(src[ch]) > b.length {
			return 0, fmt.Errorf("buffer: channel %d length %d exceeds %d", ch, len(src[ch]), b.length)
		}
		if ch == 0 {
			n = len(src[ch])
		} else if len(src[ch]) != n {
			return 0, fmt.Errorf("buffer: channel %d length %d differs from %d", ch, len(src[ch]), n)
		}
		copy(b.channels[ch], src[ch])
	}
	return n, nil
}
