package adpcm

import (
	"errors"
	"fmt"
	"strings"
)

// Codec identifies an ADPCM variant.
type Codec int

const (
	HEVAG Codec = iota + 1
	AICA
	ASKA
	NXAP
)

var codecNames = map[Codec]string{
	HEVAG: "hevag",
	AICA:  "aica",
	ASKA:  "aska",
	NXAP:  "nxap",
}

// ErrUnknownCodec is returned by ParseCodec for names it does not know.
var ErrUnknownCodec = errors.New("adpcm: unknown codec")

func (c Codec) String() string {
	if name, ok := codecNames[c]; ok {
		return name
	}
	return fmt.Sprintf("codec(%d)", int(c))
}

// Codecs lists the supported codecs.
func Codecs() []Codec {
	return []Codec{HEVAG, AICA, ASKA, NXAP}
}

// ParseCodec looks a codec up by name, ignoring case.
func ParseCodec(name string) (Codec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range codecNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// Decode dispatches to the decoder of codec. channel and stereo are only used
// by the codecs whose nibble layout depends on them. Unknown codecs decode to
// silence.
func Decode(codec Codec, ch *Channel, out []int16, channelSpacing, firstSample, samplesToDo, channel int, stereo bool) {
	switch codec {
	case HEVAG:
		DecodeHEVAG(ch, out, channelSpacing, firstSample, samplesToDo)
	case AICA:
		DecodeAICA(ch, out, channelSpacing, firstSample, samplesToDo, channel, stereo)
	case ASKA:
		DecodeAska(ch, out, channelSpacing, firstSample, samplesToDo, channel)
	case NXAP:
		DecodeNXAP(ch, out, channelSpacing, firstSample, samplesToDo)
	default:
		silence(out, channelSpacing, samplesToDo)
	}
}

// SamplesFor returns how many samples per channel fit in a byte length.
func (c Codec) SamplesFor(bytes int64, channels int) int64 {
	switch c {
	case HEVAG:
		return HEVAGSamples(bytes, channels)
	case AICA:
		return YamahaSamples(bytes, channels)
	case ASKA:
		return AskaSamples(bytes, channels)
	case NXAP:
		return NXAPSamples(bytes, channels)
	}
	return 0
}

// BytesFor is the inverse of SamplesFor.
func (c Codec) BytesFor(samples int64, channels int) int64 {
	switch c {
	case HEVAG:
		return HEVAGBytes(samples, channels)
	case AICA:
		return YamahaBytes(samples, channels)
	case ASKA:
		return AskaBytes(samples, channels)
	case NXAP:
		return NXAPBytes(samples, channels)
	}
	return 0
}
