package vgm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/braheezy/goadpcm/pkg/adpcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomData(seed int64, size int) []byte {
	data := make([]byte, size)
	rand.New(rand.NewSource(seed)).Read(data)
	return data
}

// deinterleave splits data into per-channel runs of interleave bytes.
func deinterleave(data []byte, channels int, interleave int) [][]byte {
	out := make([][]byte, channels)
	for i := 0; i < len(data); i += interleave {
		c := (i / interleave) % channels
		out[c] = append(out[c], data[i:i+interleave]...)
	}
	return out
}

func openStream(t *testing.T, data []byte, cfg Config) *Stream {
	t.Helper()
	cfg.Size = int64(len(data)) - cfg.Offset
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 22050
	}
	s, err := Open(bytes.NewReader(data), cfg)
	require.NoError(t, err)
	return s
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		desc       string
		cfg        Config
		interleave int64
		hasError   bool
	}{
		{"HEVAG mono", Config{Codec: adpcm.HEVAG, Channels: 1, SampleRate: 48000, Size: 16, Interleave: 0x800}, 0, false},
		{"HEVAG stereo default", Config{Codec: adpcm.HEVAG, Channels: 2, SampleRate: 48000, Size: 32}, 0x10, false},
		{"HEVAG odd interleave", Config{Codec: adpcm.HEVAG, Channels: 2, SampleRate: 48000, Size: 32, Interleave: 0x18}, 0, true},
		{"NXAP stereo default", Config{Codec: adpcm.NXAP, Channels: 2, SampleRate: 48000, Size: 0x80}, 0x40, false},
		{"AICA stereo", Config{Codec: adpcm.AICA, Channels: 2, SampleRate: 44100, Size: 1}, 0, false},
		{"AICA 4ch no interleave", Config{Codec: adpcm.AICA, Channels: 4, SampleRate: 44100, Size: 8}, 0, true},
		{"AICA 4ch", Config{Codec: adpcm.AICA, Channels: 4, SampleRate: 44100, Size: 8, Interleave: 2}, 2, false},
		{"ASKA interleave", Config{Codec: adpcm.ASKA, Channels: 2, SampleRate: 44100, Size: 64, Interleave: 64}, 0, true},
		{"ASKA 16ch", Config{Codec: adpcm.ASKA, Channels: 16, SampleRate: 44100, Size: 64}, 0, true},
		{"No channels", Config{Codec: adpcm.AICA, SampleRate: 44100, Size: 1}, 0, true},
		{"No rate", Config{Codec: adpcm.AICA, Channels: 1, Size: 1}, 0, true},
		{"No data", Config{Codec: adpcm.AICA, Channels: 1, SampleRate: 44100}, 0, true},
		{"Unknown codec", Config{Channels: 1, SampleRate: 44100, Size: 1}, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := tc.cfg
			err := cfg.Validate()
			if tc.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.interleave, cfg.Interleave)
		})
	}
}

func TestOpenSamples(t *testing.T) {
	s := openStream(t, make([]byte, 0x100), Config{Codec: adpcm.ASKA, Channels: 2})
	assert.Equal(t, 4*56, s.Samples())

	s = openStream(t, make([]byte, 0x100), Config{Codec: adpcm.ASKA, Channels: 2, Samples: 1000})
	assert.Equal(t, 1000, s.Samples())

	_, err := Open(bytes.NewReader(nil), Config{Codec: adpcm.HEVAG, Channels: 1, SampleRate: 1, Size: 8})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDecodeAllInterleaved(t *testing.T) {
	testCases := []struct {
		codec      adpcm.Codec
		interleave int
	}{
		{adpcm.HEVAG, 0x10},
		{adpcm.HEVAG, 0x40},
		{adpcm.NXAP, 0x40},
		{adpcm.NXAP, 0x80},
		{adpcm.AICA, 0x20},
	}

	for _, tc := range testCases {
		t.Run(tc.codec.String(), func(t *testing.T) {
			const channels = 3
			data := randomData(10, tc.interleave*channels*5)
			s := openStream(t, data, Config{Codec: tc.codec, Channels: channels, Interleave: int64(tc.interleave)})

			all, err := s.DecodeAll(context.Background())
			require.NoError(t, err)
			require.Len(t, all, s.Samples()*channels)
			assert.Equal(t, s.Samples(), s.Position())

			for c, run := range deinterleave(data, channels, tc.interleave) {
				ch := &adpcm.Channel{Stream: bytes.NewReader(run)}
				expected := make([]int16, s.Samples())
				adpcm.Decode(tc.codec, ch, expected, 1, 0, s.Samples(), 0, false)

				for i := range expected {
					require.Equal(t, expected[i], all[i*channels+c], "channel %d sample %d", c, i)
				}
			}
		})
	}
}

func TestDecodeAllShared(t *testing.T) {
	for _, codec := range []adpcm.Codec{adpcm.AICA, adpcm.ASKA} {
		t.Run(codec.String(), func(t *testing.T) {
			data := append(make([]byte, 0x20), randomData(11, 0x200)...)
			s := openStream(t, data, Config{Codec: codec, Channels: 2, Offset: 0x20})

			all, err := s.DecodeAll(context.Background())
			require.NoError(t, err)

			expected := make([]int16, len(all))
			for c := 0; c < 2; c++ {
				ch := &adpcm.Channel{Stream: bytes.NewReader(data), Offset: 0x20}
				adpcm.Decode(codec, ch, expected[c:], 2, 0, s.Samples(), c, true)
			}
			assert.Equal(t, expected, all)
		})
	}
}

func TestDecodeAllCanceled(t *testing.T) {
	s := openStream(t, randomData(12, 0x4000), Config{Codec: adpcm.AICA, Channels: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.DecodeAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Position())
}

func TestDecodeSeeks(t *testing.T) {
	configs := []Config{
		{Codec: adpcm.HEVAG, Channels: 2},
		{Codec: adpcm.AICA, Channels: 2},
		{Codec: adpcm.ASKA, Channels: 2},
		{Codec: adpcm.NXAP, Channels: 2},
	}
	data := randomData(13, 0x1000)

	for _, cfg := range configs {
		t.Run(cfg.Codec.String(), func(t *testing.T) {
			s := openStream(t, data, cfg)
			all, err := s.DecodeAll(context.Background())
			require.NoError(t, err)

			// forward, backward, block aligned and unaligned
			for _, r := range [][2]int{{500, 100}, {10, 50}, {120, 240}, {0, 28}, {333, 1}, {900, 0}} {
				out := make([]int16, r[1]*2)
				require.NoError(t, s.Decode(out, r[0], r[1]))
				assert.Equal(t, all[r[0]*2:(r[0]+r[1])*2], out, "range %v", r)
				assert.Equal(t, r[0]+r[1], s.Position())
			}

			assert.ErrorIs(t, s.Decode(make([]int16, 4), s.Samples()-1, 2), ErrOutOfRange)
			assert.ErrorIs(t, s.Seek(-1), ErrOutOfRange)
			assert.Error(t, s.Decode(make([]int16, 1), 0, 1), "buffer too small for two channels")
		})
	}
}

func TestRender(t *testing.T) {
	s := openStream(t, randomData(14, 0x400), Config{Codec: adpcm.NXAP, Channels: 2})
	all, err := s.DecodeAll(context.Background())
	require.NoError(t, err)
	s.Reset()

	var got []int16
	buf := make([]int16, 202)
	for {
		n, err := s.Render(buf)
		got = append(got, buf[:n*2]...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, all, got)
}

func renderAll(t *testing.T, s *Stream) []int16 {
	t.Helper()
	var got []int16
	buf := make([]int16, 77)
	for {
		n, err := s.Render(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			return got
		}
		require.NoError(t, err)
	}
}

func TestRenderLoop(t *testing.T) {
	for _, codec := range []adpcm.Codec{adpcm.HEVAG, adpcm.AICA, adpcm.ASKA, adpcm.NXAP} {
		t.Run(codec.String(), func(t *testing.T) {
			s := openStream(t, randomData(15, 0x200), Config{Codec: codec, Channels: 1})
			all, err := s.DecodeAll(context.Background())
			require.NoError(t, err)
			s.Reset()

			require.NoError(t, s.SetLoop(100, 300, 2))
			got := renderAll(t, s)

			var expected []int16
			expected = append(expected, all[:300]...)
			expected = append(expected, all[100:300]...)
			expected = append(expected, all[100:]...)
			assert.Equal(t, expected, got)
		})
	}
}

func TestRenderLoopAfterSeek(t *testing.T) {
	s := openStream(t, randomData(16, 0x200), Config{Codec: adpcm.HEVAG, Channels: 1})
	all, err := s.DecodeAll(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.SetLoop(100, 0, 1))
	require.NoError(t, s.Seek(200))
	got := renderAll(t, s)

	var expected []int16
	expected = append(expected, all[200:]...)
	expected = append(expected, all[100:]...)
	assert.Equal(t, expected, got)
}

func TestSetLoop(t *testing.T) {
	s := openStream(t, make([]byte, 0x40), Config{Codec: adpcm.NXAP, Channels: 1})

	assert.NoError(t, s.SetLoop(0, 0, -1))
	assert.ErrorIs(t, s.SetLoop(50, 50, 1), ErrOutOfRange)
	assert.ErrorIs(t, s.SetLoop(-1, 10, 1), ErrOutOfRange)
	assert.ErrorIs(t, s.SetLoop(0, 121, 1), ErrOutOfRange)
}

func TestRenderLength(t *testing.T) {
	s := openStream(t, make([]byte, 0x80), Config{Codec: adpcm.NXAP, Channels: 1})
	assert.Equal(t, 240, s.RenderLength())

	require.NoError(t, s.SetLoop(40, 140, 2))
	assert.Equal(t, 440, s.RenderLength())
	assert.Len(t, renderAll(t, s), 440)

	require.NoError(t, s.SetLoop(0, 0, -1))
	assert.Equal(t, -1, s.RenderLength())

	s.ClearLoop()
	assert.Equal(t, 240, s.RenderLength())
}

func TestAskaUnevenChannels(t *testing.T) {
	for _, channels := range []int{3, 6, 7} {
		t.Run(fmt.Sprintf("%dch", channels), func(t *testing.T) {
			const blocks = 2
			s := openStream(t, randomData(17, blocks*0x40), Config{Codec: adpcm.ASKA, Channels: channels})

			layout := adpcm.ASKA.Layout(channels)
			assert.Equal(t, blocks*layout.SamplesPerFrame, s.Samples())

			last := layout.Locate(s.Samples()-1, channels-1)
			assert.Less(t, last.Frame, blocks)

			all, err := s.DecodeAll(context.Background())
			require.NoError(t, err)
			assert.Len(t, all, s.Samples()*channels)
		})
	}
}
