package vgm

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/braheezy/goadpcm/pkg/adpcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPos(t *testing.T) {
	testCases := []struct {
		desc     string
		data     []byte
		expected Pos
	}{
		{"Full", []byte{0x10, 0, 0, 0, 0x20, 0x01, 0, 0, 0xff, 0xff, 0xff, 0xff}, Pos{16, 288, -1}},
		{"Loop only", []byte{0x10, 0, 0, 0, 0x20, 0x01, 0, 0}, Pos{16, 288, 0}},
		{"Short", []byte{0x10, 0}, Pos{16, 0, 0}},
		{"Empty", nil, Pos{}},
		{"Trailing data", []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4}, Pos{1, 2, 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			pos, err := ReadPos(bytes.NewReader(tc.data))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, pos)
		})
	}
}

func TestOpenPos(t *testing.T) {
	dir := t.TempDir()
	stream := filepath.Join(dir, "bgm01.raw")

	_, found, err := OpenPos(stream)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, os.WriteFile(stream+".pos", []byte{100, 0, 0, 0, 200, 0, 0, 0}, 0o644))
	pos, found, err := OpenPos(stream)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, Pos{LoopStart: 100, LoopEnd: 200}, pos)
}

func TestPosApply(t *testing.T) {
	s := openStream(t, make([]byte, 0x80), Config{Codec: adpcm.NXAP, Channels: 1})

	require.NoError(t, Pos{LoopStart: 10, LoopEnd: 100}.Apply(s, 1))
	assert.Equal(t, 10, s.loop.start)
	assert.Equal(t, 100, s.loop.end)
	assert.Equal(t, 1, s.loop.remaining)

	require.NoError(t, Pos{LoopStart: 10, LoopEnd: 5}.Apply(s, -1))
	assert.Equal(t, s.Samples(), s.loop.end)
	assert.Equal(t, -1, s.loop.remaining)

	assert.ErrorIs(t, Pos{LoopStart: 10, LoopEnd: 1000}.Apply(s, 1), ErrOutOfRange)
}
