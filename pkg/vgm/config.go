/*
Package vgm plays raw ADPCM streams: it owns the per-channel decoder state,
maps channels onto the stream layout, and handles seeking and loop points on
top of the decoders in package adpcm.

A stream is described by a Config, since locating audio inside game
containers is left to other tools. Two layouts are supported:

  - shared: every channel reads the same bytes. AICA stereo packs one nibble
    per channel in each byte and ASKA blocks carry a header for every channel.
  - interleaved: each channel owns Interleave bytes in turn, as HEVAG and NXAP
    multichannel streams (and AICA with more than two channels) are stored.
*/
package vgm

import (
	"errors"
	"fmt"

	"github.com/braheezy/goadpcm/pkg/adpcm"
)

var (
	// ErrInvalidConfig is returned when a Config cannot describe a stream.
	ErrInvalidConfig = errors.New("vgm: invalid stream config")
	// ErrOutOfRange is returned for sample positions outside the stream.
	ErrOutOfRange = errors.New("vgm: sample out of range")
)

// Config describes where a raw ADPCM stream is and how it is laid out.
type Config struct {
	Codec      adpcm.Codec
	Channels   int
	SampleRate int
	// Offset is where the audio data starts.
	Offset int64
	// Size is the byte length of the audio data.
	Size int64
	// Interleave is the per-channel block size of interleaved layouts. Zero
	// picks the codec default.
	Interleave int64
	// Samples overrides the sample count derived from Size when non-zero.
	Samples int
}

// defaultInterleave is one frame or block of the codec.
var defaultInterleave = map[adpcm.Codec]int64{
	adpcm.HEVAG: 0x10,
	adpcm.NXAP:  0x40,
}

// Validate checks the config and fills in the default interleave.
func (c *Config) Validate() error {
	if c.Channels <= 0 {
		return fmt.Errorf("%w: %d channels", ErrInvalidConfig, c.Channels)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.Offset < 0 || c.Size <= 0 {
		return fmt.Errorf("%w: data at %#x, %d bytes", ErrInvalidConfig, c.Offset, c.Size)
	}
	if c.Samples < 0 {
		return fmt.Errorf("%w: %d samples", ErrInvalidConfig, c.Samples)
	}

	switch c.Codec {
	case adpcm.HEVAG, adpcm.NXAP:
		if c.Channels == 1 {
			c.Interleave = 0
			break
		}
		if c.Interleave == 0 {
			c.Interleave = defaultInterleave[c.Codec]
		}
		frame := c.Codec.Layout(1).FrameSize
		if c.Interleave < 0 || c.Interleave%frame != 0 {
			return fmt.Errorf("%w: %s interleave %#x is not a multiple of %#x", ErrInvalidConfig, c.Codec, c.Interleave, frame)
		}
	case adpcm.AICA:
		if c.Interleave < 0 || (c.Channels > 2 && c.Interleave == 0) {
			return fmt.Errorf("%w: aica with %d channels needs an interleave", ErrInvalidConfig, c.Channels)
		}
	case adpcm.ASKA:
		if c.Interleave != 0 {
			return fmt.Errorf("%w: aska blocks hold every channel, interleave must be 0", ErrInvalidConfig)
		}
		if !c.Codec.Layout(c.Channels).Valid() {
			return fmt.Errorf("%w: aska cannot hold %d channels", ErrInvalidConfig, c.Channels)
		}
	default:
		return fmt.Errorf("%w: %s", adpcm.ErrUnknownCodec, c.Codec)
	}
	return nil
}

// interleaved reports whether each channel has its own blocks.
func (c *Config) interleaved() bool {
	return c.Interleave > 0
}

// layoutChannels is the channel count the codec layout is built for.
func (c *Config) layoutChannels() int {
	if c.interleaved() {
		return 1
	}
	return c.Channels
}

// blockSamples is the number of samples per channel in one interleave block.
func (c *Config) blockSamples() int {
	return int(c.Codec.SamplesFor(c.Interleave, 1))
}
