package vgm

import (
	"encoding/binary"
	"errors"
	"io"
)

// readerFrames is how many sample frames Reader decodes at a time.
const readerFrames = 2048

// ErrInvalidArgument is returned by NewReader without a stream.
var ErrInvalidArgument = errors.New("invalid argument")

// Reader is an io.Reader of signed 16-bit little endian PCM rendered from a
// Stream, loops included.
type Reader struct {
	stream  *Stream
	samples []int16
	buf     []byte
	pending []byte
	played  int
}

// NewReader creates a new Reader instance.
func NewReader(s *Stream) (*Reader, error) {
	if s == nil {
		return nil, ErrInvalidArgument
	}
	channels := s.Config().Channels
	return &Reader{
		stream:  s,
		samples: make([]int16, readerFrames*channels),
		buf:     make([]byte, readerFrames*channels*2),
	}, nil
}

// Read implements the io.Reader interface
func (r *Reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	if len(r.pending) == 0 {
		frames, err := r.stream.Render(r.samples)
		if frames == 0 {
			if err == nil {
				err = io.EOF
			}
			return 0, err
		}

		count := frames * r.stream.Config().Channels
		for i, sample := range r.samples[:count] {
			binary.LittleEndian.PutUint16(r.buf[i*2:], uint16(sample))
		}
		r.pending = r.buf[:count*2]
		r.played += frames
	}

	n = copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// SamplesPlayed returns the number of sample frames rendered so far.
func (r *Reader) SamplesPlayed() int {
	return r.played
}
