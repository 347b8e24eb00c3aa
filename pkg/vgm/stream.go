package vgm

import (
	"context"
	"fmt"
	"io"

	"github.com/braheezy/goadpcm/pkg/adpcm"
	"golang.org/x/sync/errgroup"
)

// replayChunk is how many samples per channel are decoded per call when
// replaying up to a seek target.
const replayChunk = 4096

// Stream decodes a raw ADPCM stream. It is not safe for concurrent use.
type Stream struct {
	cfg      Config
	r        io.ReaderAt
	samples  int
	channels []adpcm.Channel
	// position is the next sample the channel states are ready for.
	position int

	loop *loop
}

// loop holds loop points and the channel state captured at the loop start.
type loop struct {
	start, end int
	// remaining is the number of loop restarts left, negative for endless.
	remaining int
	saved     []adpcm.Channel
}

// Open prepares a stream over r. The config is validated first.
func Open(r io.ReaderAt, cfg Config) (*Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	samples := cfg.Samples
	if samples == 0 {
		samples = int(cfg.Codec.SamplesFor(cfg.Size, cfg.Channels))
	}
	if samples <= 0 {
		return nil, fmt.Errorf("%w: no samples in %d bytes of %s", ErrInvalidConfig, cfg.Size, cfg.Codec)
	}

	s := &Stream{
		cfg:      cfg,
		r:        r,
		samples:  samples,
		channels: make([]adpcm.Channel, cfg.Channels),
	}
	s.Reset()
	return s, nil
}

// Config returns the validated stream config.
func (s *Stream) Config() Config {
	return s.cfg
}

// Samples returns the number of samples per channel.
func (s *Stream) Samples() int {
	return s.samples
}

// Position returns the next sample Render will produce.
func (s *Stream) Position() int {
	return s.position
}

// Reset rewinds to the first sample with fresh decoder state.
func (s *Stream) Reset() {
	for i := range s.channels {
		s.channels[i] = adpcm.Channel{Stream: s.r, Offset: s.cfg.Offset}
	}
	s.position = 0
}

// SetLoop makes Render jump back to start after reaching end, count times or
// forever when count is negative. An end of 0 means the end of the stream.
func (s *Stream) SetLoop(start, end, count int) error {
	if end <= 0 {
		end = s.samples
	}
	if start < 0 || start >= end || end > s.samples {
		return fmt.Errorf("%w: loop %d-%d in %d samples", ErrOutOfRange, start, end, s.samples)
	}
	s.loop = &loop{start: start, end: end, remaining: count}
	return nil
}

// RenderLength is the number of sample frames Render produces from the start
// of the stream with the current loop, or -1 when it loops forever.
func (s *Stream) RenderLength() int {
	if s.loop == nil || s.loop.remaining == 0 {
		return s.samples
	}
	if s.loop.remaining < 0 {
		return -1
	}
	return s.samples + s.loop.remaining*(s.loop.end-s.loop.start)
}

// ClearLoop disables looping.
func (s *Stream) ClearLoop() {
	s.loop = nil
}

// syncPoint is the closest sample at or before sample from which decoding can
// start with fresh state.
func (s *Stream) syncPoint(sample int) int {
	layout := s.cfg.Codec.Layout(s.cfg.layoutChannels())
	if !layout.StateHeader {
		return 0
	}
	return sample - sample%layout.SamplesPerFrame
}

// Seek moves to sample. Codecs with state headers restart from the enclosing
// block, the others replay from the start of the stream.
func (s *Stream) Seek(sample int) error {
	if sample < 0 || sample > s.samples {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, sample, s.samples)
	}
	if sample == s.position {
		return nil
	}

	from := s.syncPoint(sample)
	if s.position <= sample && s.position >= from {
		from = s.position
	} else {
		s.Reset()
	}

	scratch := make([]int16, replayChunk*s.cfg.Channels)
	for pos := from; pos < sample; {
		todo := sample - pos
		if todo > replayChunk {
			todo = replayChunk
		}
		s.decode(scratch, pos, todo)
		pos += todo
	}
	s.position = sample
	return nil
}

// Decode writes count interleaved sample frames starting at first into out,
// seeking first when needed. Loop points are ignored.
func (s *Stream) Decode(out []int16, first, count int) error {
	if count < 0 || first+count > s.samples {
		return fmt.Errorf("%w: %d+%d of %d", ErrOutOfRange, first, count, s.samples)
	}
	if len(out) < count*s.cfg.Channels {
		return fmt.Errorf("vgm: buffer holds %d samples, need %d", len(out), count*s.cfg.Channels)
	}
	if err := s.Seek(first); err != nil {
		return err
	}
	s.decode(out, first, count)
	s.position = first + count
	return nil
}

// decode runs the decoders of every channel over [first, first+count).
func (s *Stream) decode(out []int16, first, count int) {
	if count <= 0 {
		return
	}
	for c := range s.channels {
		s.decodeChannel(c, out[c:], first, count)
	}
}

// decodeChannel decodes one channel into a strided slice of out, one call per
// interleave block touched.
func (s *Stream) decodeChannel(c int, out []int16, first, count int) {
	ch := &s.channels[c]
	stride := s.cfg.Channels

	if !s.cfg.interleaved() {
		ch.Offset = s.cfg.Offset
		adpcm.Decode(s.cfg.Codec, ch, out, stride, first, count, c, s.cfg.Channels == 2)
		return
	}

	blockSamples := s.cfg.blockSamples()
	for count > 0 {
		block := first / blockSamples
		rel := first % blockSamples
		todo := blockSamples - rel
		if todo > count {
			todo = count
		}

		ch.Offset = s.cfg.Offset + (int64(block)*int64(s.cfg.Channels)+int64(c))*s.cfg.Interleave
		adpcm.Decode(s.cfg.Codec, ch, out, stride, rel, todo, 0, false)

		first += todo
		count -= todo
		if count > 0 {
			out = out[todo*stride:]
		}
	}
}

// DecodeAll decodes the whole stream from the start, one goroutine per
// channel. The stream is left at its end.
func (s *Stream) DecodeAll(ctx context.Context) ([]int16, error) {
	s.Reset()
	out := make([]int16, s.samples*s.cfg.Channels)

	g, ctx := errgroup.WithContext(ctx)
	for c := range s.channels {
		g.Go(func() error {
			for pos := 0; pos < s.samples; pos += replayChunk {
				if err := ctx.Err(); err != nil {
					return err
				}
				todo := s.samples - pos
				if todo > replayChunk {
					todo = replayChunk
				}
				s.decodeChannel(c, out[pos*s.cfg.Channels+c:], pos, todo)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.Reset()
		return nil, err
	}

	s.position = s.samples
	return out, nil
}

// Render fills out with the next interleaved sample frames, following loop
// points. It returns the number of frames written and io.EOF once the stream
// (and its loops) are over.
func (s *Stream) Render(out []int16) (int, error) {
	frames := len(out) / s.cfg.Channels
	written := 0

	for written < frames {
		end := s.samples
		looping := s.loop != nil && s.loop.remaining != 0
		if looping {
			end = s.loop.end
			if s.position == s.loop.start && s.loop.saved == nil {
				s.loop.saved = append([]adpcm.Channel(nil), s.channels...)
			}
		}

		if s.position >= end {
			if !looping {
				break
			}
			if err := s.restartLoop(); err != nil {
				return written, err
			}
			continue
		}

		todo := end - s.position
		if s.loop != nil && s.position < s.loop.start && s.loop.start-s.position < todo {
			todo = s.loop.start - s.position
		}
		if todo > frames-written {
			todo = frames - written
		}

		s.decode(out[written*s.cfg.Channels:], s.position, todo)
		s.position += todo
		written += todo
	}

	if written == 0 && frames > 0 {
		return 0, io.EOF
	}
	return written, nil
}

// restartLoop goes back to the loop start, restoring the saved state when
// there is one.
func (s *Stream) restartLoop() error {
	if s.loop.remaining > 0 {
		s.loop.remaining--
	}
	if s.loop.saved != nil {
		copy(s.channels, s.loop.saved)
		s.position = s.loop.start
		return nil
	}
	return s.Seek(s.loop.start)
}
