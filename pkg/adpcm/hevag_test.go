package adpcm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// hevagFrame builds one frame from its header bytes and data nibbles.
func hevagFrame(b0, b1 byte, data ...byte) []byte {
	frame := make([]byte, hevagFrameSize)
	frame[0], frame[1] = b0, b1
	copy(frame[hevagHeaderSize:], data)
	return frame
}

func TestParseHEVAGHeader(t *testing.T) {
	testCases := []struct {
		name   string
		b0, b1 byte
		hdr    hevagHeader
		bad    bool
	}{
		{"Zero", 0x00, 0x00, hevagHeader{coef: 0, shift: 0, flag: 0}, false},
		{"Split index", 0x5c, 0x30, hevagHeader{coef: 0x35, shift: 12, flag: 0}, false},
		{"Mute flag", 0x12, 0x07, hevagHeader{coef: 1, shift: 2, flag: 7}, false},
		{"Index too large", 0xf3, 0xf1, hevagHeader{coef: 127, shift: 3, flag: 1}, true},
		{"Shift too large", 0x1d, 0x00, hevagHeader{coef: 1, shift: 9, flag: 0}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hdr := parseHEVAGHeader(tc.b0, tc.b1)
			bad := hdr.sanitize()
			assert.Equal(t, tc.hdr, hdr)
			assert.Equal(t, tc.bad, bad)
		})
	}
}

func TestDecodeHEVAGSilentFrame(t *testing.T) {
	ch := &Channel{Stream: bytes.NewReader(hevagFrame(0x00, 0x00))}
	out := make([]int16, hevagFrameLen)

	DecodeHEVAG(ch, out, 1, 0, hevagFrameLen)

	assert.Equal(t, make([]int16, hevagFrameLen), out)
	assert.Equal(t, [MaxHistory]int32{}, ch.History)
}

func TestDecodeHEVAGSamples(t *testing.T) {
	// Predictor 1 is {7680, 0, 0, 0}, shift 12 scales nibbles by 256.
	ch := &Channel{Stream: bytes.NewReader(hevagFrame(0x1c, 0x00, 0xf1))}
	out := make([]int16, 4)

	DecodeHEVAG(ch, out, 1, 0, 4)

	// s0 = (0 + 1<<8 + 128) >> 8
	// s1 = (1*7680/32 - 1<<8 + 128) >> 8
	assert.Equal(t, []int16{1, 0, 0, 0}, out)
	assert.Equal(t, [MaxHistory]int32{0, 0, 0, 1}, ch.History)
}

func TestDecodeHEVAGNegative(t *testing.T) {
	ch := &Channel{Stream: bytes.NewReader(hevagFrame(0x1c, 0x00, 0x0f))}
	out := make([]int16, 2)

	DecodeHEVAG(ch, out, 1, 0, 2)

	// s0 = (-256 + 128) >> 8, s1 = (-7680/32 + 128) >> 8, both arithmetic shifts
	assert.Equal(t, []int16{-1, -1}, out)
}

func TestDecodeHEVAGMuteFlag(t *testing.T) {
	data := bytes.Repeat([]byte{0x77}, hevagFrameSize-hevagHeaderSize)
	for _, flag := range []byte{0x07, 0x0f} {
		ch := &Channel{
			Stream:  bytes.NewReader(hevagFrame(0x1c, flag, data...)),
			History: [MaxHistory]int32{100, 200, 300, 400},
		}
		out := make([]int16, hevagFrameLen)
		for i := range out {
			out[i] = -1
		}

		DecodeHEVAG(ch, out, 1, 0, hevagFrameLen)

		assert.Equal(t, make([]int16, hevagFrameLen), out, "flag %#x", flag)
		assert.Equal(t, [MaxHistory]int32{}, ch.History, "history advances with the zeros")
	}
}

func TestDecodeHEVAGFallbacks(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}

	// Index 255 and shift 15 must decode like index 127 and shift 9.
	corrupt := &Channel{Stream: bytes.NewReader(hevagFrame(0xff, 0xf0, data...)), History: [MaxHistory]int32{50, -20, 10, 5}}
	fixed := &Channel{Stream: bytes.NewReader(hevagFrame(0xf9, 0x70, data...)), History: [MaxHistory]int32{50, -20, 10, 5}}

	a := make([]int16, hevagFrameLen)
	b := make([]int16, hevagFrameLen)
	DecodeHEVAG(corrupt, a, 1, 0, hevagFrameLen)
	DecodeHEVAG(fixed, b, 1, 0, hevagFrameLen)

	assert.Equal(t, b, a)
	assert.Equal(t, fixed.History, corrupt.History)
	assert.True(t, corrupt.warned)
	assert.False(t, fixed.warned)
}

func TestDecodeHEVAGAcrossFrames(t *testing.T) {
	stream := append(hevagFrame(0x1c, 0x00, 0x01), hevagFrame(0x00, 0x07, 0x11)...)
	ch := &Channel{Stream: bytes.NewReader(stream)}
	out := make([]int16, 2*hevagFrameLen)

	DecodeHEVAG(ch, out, 1, 0, 2*hevagFrameLen)

	assert.Equal(t, int16(1), out[0])
	assert.Equal(t, make([]int16, hevagFrameLen), out[hevagFrameLen:], "second frame is muted")
}

func TestDecodeHEVAGFitsSixteenBits(t *testing.T) {
	// Full scale nibbles at shift 8 through every predictor stay in range.
	var stream []byte
	for coef := 0; coef <= HEVAGMaxCoef; coef++ {
		b0 := byte(coef&0x0f)<<4 | 8
		b1 := byte(coef & 0x70)
		stream = append(stream, hevagFrame(b0, b1, bytes.Repeat([]byte{0x88}, 14)...)...)
	}
	ch := &Channel{Stream: bytes.NewReader(stream)}

	for i := 0; i <= HEVAGMaxCoef; i++ {
		ch.History = [MaxHistory]int32{}
		out := make([]int16, hevagFrameLen)
		DecodeHEVAG(ch, out, 1, i*hevagFrameLen, hevagFrameLen)

		for _, h := range ch.History {
			assert.Equal(t, int32(int16(h)), h, "coef %d", i)
		}
	}
}
