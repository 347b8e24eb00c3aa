/*
Package adpcm decodes the ADPCM sample streams found in game console and arcade
audio assets into 16-bit PCM.

Every codec here is a reverse-engineered hardware or firmware decoder. The goal
is bit-exact output, so the quirks of each reference decoder are kept: odd
rounding, damped history, fallback values for corrupt headers and, in one case,
a step update that is known to be approximate.

# Codecs

	HEVAG  Sony PS Vita "High Efficiency VAG". 16-byte frames: a 2-byte header
	       (7-bit predictor index, 4-bit shift, 4-bit flag) and 28 4-bit samples.
	       Order-4 linear predictor with a 128 entry coefficient table.
	AICA   Yamaha AICA/ACM ADPCM. Headerless nibble stream, one history sample and
	       an adaptive step size kept by the caller. History is damped by 254/256
	       before every sample.
	ASKA   tri-Ace Aska ADPCM. Yamaha ADPCM-B (DELTA-T) expansion over 64-byte
	       blocks that start with a 4-byte (history, step) header per channel.
	NXAP   Yamaha-like ADPCM over 64-byte mono blocks with a 4-byte header.

# Decoding

Decoders are free functions over a *Channel, which carries the persisted state
of one audio channel between calls:

	ch := &adpcm.Channel{Stream: r, Offset: start}
	out := make([]int16, 28)
	adpcm.DecodeHEVAG(ch, out, 1, 0, 28)

The sample range is absolute: firstSample may be anywhere in the stream and the
decoder resolves the frame, byte and nibble itself. Output is written every
channelSpacing slots so that channels can be decoded into one interleaved
buffer. Bytes past the end of the stream read as zero.

For codecs with block headers (ASKA, NXAP) the state is reloaded from the
header whenever a block starts, so decoding may begin at any block boundary.
Headerless codecs (HEVAG, AICA) need the state left by the previous call.
*/
package adpcm

import (
	"io"

	"github.com/charmbracelet/log"
)

const (
	// MaxHistory is the number of history samples kept per channel.
	MaxHistory = 4
	// StepMin is the smallest step size of the adaptive delta codecs.
	StepMin = 0x7f
	// StepMax is the largest step size of the adaptive delta codecs.
	StepMax = 0x6000
)

// Channel is the persisted decoder state of one audio channel.
//
// The zero value (plus a Stream) is the state before the first decode. A
// Channel must not be used by two decode calls at the same time.
type Channel struct {
	// Stream is the encoded data. Offsets are absolute.
	Stream io.ReaderAt
	// Offset is the byte offset of the channel's data in Stream.
	Offset int64
	// History holds the most recent output samples, newest first.
	History [MaxHistory]int32
	// Step is the adaptive step size.
	Step int32

	warned bool
}

// Reset clears history and step, as on loop restart or reopen.
func (ch *Channel) Reset() {
	ch.History = [MaxHistory]int32{}
	ch.Step = 0
	ch.warned = false
}

var logger = log.New(io.Discard)

// SetLogger sets where decode diagnostics go. By default they are discarded.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// warnOnce reports a malformed header once per channel.
func (ch *Channel) warnOnce(msg string, keyvals ...interface{}) {
	if ch.warned {
		return
	}
	ch.warned = true
	logger.Warn(msg, keyvals...)
}

// readAt fills buf from offset, zeroing whatever could not be read.
func (ch *Channel) readAt(buf []byte, offset int64) {
	n := 0
	if ch.Stream != nil && offset >= 0 {
		n, _ = ch.Stream.ReadAt(buf, offset)
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
}

func (ch *Channel) readU8(offset int64) byte {
	var b [1]byte
	ch.readAt(b[:], offset)
	return b[0]
}

func (ch *Channel) readS16LE(offset int64) int32 {
	var b [2]byte
	ch.readAt(b[:], offset)
	return int32(int16(uint16(b[0]) | uint16(b[1])<<8))
}

// clamp clamps a value between a minimum and maximum value.
func clamp(v, min, max int32) int32 {
	if v <= min {
		return min
	}
	if v >= max {
		return max
	}
	return v
}

// clampS16 clamps to the signed 16 bit range.
func clampS16(v int32) int16 {
	if uint32(v+32768) > 65535 {
		if v <= -32768 {
			return -32768
		}
		if v >= 32767 {
			return 32767
		}
	}
	return int16(v)
}

// signedNibble sign-extends the nibble of b at shift.
func signedNibble(b byte, shift uint) int32 {
	return int32(int8(b>>shift<<4)) >> 4
}

// silence writes samplesToDo zero samples at channelSpacing. A spacing below
// 1 writes nothing.
func silence(out []int16, channelSpacing, samplesToDo int) {
	if channelSpacing <= 0 {
		return
	}
	for i, count := 0, 0; i < samplesToDo && count < len(out); i, count = i+1, count+channelSpacing {
		out[count] = 0
	}
}
