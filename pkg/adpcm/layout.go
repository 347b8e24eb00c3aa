package adpcm

// Interleave is how nibbles of different channels share bytes.
type Interleave int

const (
	// Consecutive bytes hold two samples of the same channel.
	Consecutive Interleave = iota
	// NibblePerChannel bytes hold one sample of each of two channels,
	// even channels in the low nibble.
	NibblePerChannel
)

const (
	hevagFrameSize  = 0x10
	hevagHeaderSize = 0x02
	hevagFrameLen   = (hevagFrameSize - hevagHeaderSize) * 2

	yamahaBlockSize  = 0x40
	yamahaHeaderSize = 0x04
	nxapBlockLen     = (yamahaBlockSize - yamahaHeaderSize) * 2
)

// Layout describes how a codec packs samples into bytes for a given channel
// count. A zero FrameSize means an unframed nibble stream.
type Layout struct {
	// FrameSize is the byte size of a frame or block.
	FrameSize int64
	// HeaderSize is the number of header bytes at the start of each frame.
	HeaderSize int64
	// ChannelHeaderSize is the size of each channel's header inside a block
	// shared by several channels.
	ChannelHeaderSize int64
	// SamplesPerFrame is the number of samples of one channel in a frame.
	SamplesPerFrame int
	Interleave      Interleave
	// HighFirst puts even samples in the high nibble.
	HighFirst bool
	// StateHeader is set when the header carries history and step, which
	// replace the persisted state at every block start.
	StateHeader bool

	valid bool
}

// Valid reports whether the layout can be decoded.
func (l Layout) Valid() bool {
	return l.valid
}

// Position locates one sample in the encoded data.
type Position struct {
	Frame int
	// Sample is the offset inside the frame.
	Sample int
	// ByteOffset is relative to the channel's base offset.
	ByteOffset int64
	// Shift is 0 for the low nibble and 4 for the high one.
	Shift uint
	// HeaderOffset is where this channel's frame header starts.
	HeaderOffset int64
	// HeaderRequired is set at block starts of codecs with state headers.
	HeaderRequired bool
}

// Layout returns the frame layout of c for the given channel count. For AICA
// a channel count of 2 selects the nibble-per-channel stereo layout.
func (c Codec) Layout(channels int) Layout {
	if channels <= 0 {
		return Layout{}
	}
	switch c {
	case HEVAG:
		return Layout{
			FrameSize:       hevagFrameSize,
			HeaderSize:      hevagHeaderSize,
			SamplesPerFrame: hevagFrameLen,
			Interleave:      Consecutive,
			valid:           true,
		}
	case AICA:
		l := Layout{Interleave: Consecutive, valid: true}
		if channels == 2 {
			l.Interleave = NibblePerChannel
		}
		return l
	case ASKA:
		header := int64(yamahaHeaderSize * channels)
		if header >= yamahaBlockSize {
			return Layout{}
		}
		l := Layout{
			FrameSize:         yamahaBlockSize,
			HeaderSize:        header,
			ChannelHeaderSize: yamahaHeaderSize,
			SamplesPerFrame:   int(yamahaBlockSize-header) * 2 / channels,
			Interleave:        Consecutive,
			StateHeader:       true,
			valid:             true,
		}
		if channels == 2 {
			l.Interleave = NibblePerChannel
		}
		return l
	case NXAP:
		return Layout{
			FrameSize:       yamahaBlockSize,
			HeaderSize:      yamahaHeaderSize,
			SamplesPerFrame: nxapBlockLen,
			Interleave:      Consecutive,
			StateHeader:     true,
			valid:           true,
		}
	}
	return Layout{}
}

// Locate maps an absolute sample index of channel to its frame and nibble.
func (l Layout) Locate(sample, channel int) Position {
	var p Position
	if !l.valid || sample < 0 {
		return p
	}

	if l.SamplesPerFrame > 0 {
		p.Frame = sample / l.SamplesPerFrame
		p.Sample = sample % l.SamplesPerFrame
	} else {
		p.Sample = sample
	}

	frameStart := int64(p.Frame) * l.FrameSize
	data := frameStart + l.HeaderSize
	p.HeaderOffset = frameStart + l.ChannelHeaderSize*int64(channel)

	switch l.Interleave {
	case NibblePerChannel:
		p.ByteOffset = data + int64(p.Sample)
		p.Shift = uint(channel&1) * 4
	default:
		p.ByteOffset = data + int64(p.Sample/2)
		p.Shift = uint(p.Sample&1) * 4
		if l.HighFirst {
			p.Shift = 4 - p.Shift
		}
	}

	p.HeaderRequired = l.StateHeader && p.Sample == 0
	return p
}
