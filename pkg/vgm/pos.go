package vgm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// PosSize is the size of a .pos loop file.
const PosSize = 12

// Pos is the content of a .pos side file, which players use to add loop
// points to streams that lack them.
type Pos struct {
	LoopStart int32
	LoopEnd   int32
	// Samples, when non-zero, replaces the stream's own sample count.
	Samples int32
}

// ReadPos parses a .pos file. Short files are read as far as they go, the
// missing fields stay zero.
func ReadPos(r io.Reader) (Pos, error) {
	var buf [PosSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Pos{}, fmt.Errorf("vgm: reading pos file: %w", err)
	}
	return Pos{
		LoopStart: int32(binary.LittleEndian.Uint32(buf[0:])),
		LoopEnd:   int32(binary.LittleEndian.Uint32(buf[4:])),
		Samples:   int32(binary.LittleEndian.Uint32(buf[8:])),
	}, nil
}

// OpenPos reads "<stream>.pos" next to a stream file. found is false when
// there is no such file.
func OpenPos(streamPath string) (pos Pos, found bool, err error) {
	f, err := os.Open(streamPath + ".pos")
	if errors.Is(err, fs.ErrNotExist) {
		return Pos{}, false, nil
	}
	if err != nil {
		return Pos{}, false, err
	}
	defer f.Close()

	pos, err = ReadPos(f)
	return pos, err == nil, err
}

// Apply sets the loop of s from the pos file, looping count times. A loop end
// at or before the start is taken as the end of the stream.
func (p Pos) Apply(s *Stream, count int) error {
	end := int(p.LoopEnd)
	if end <= int(p.LoopStart) {
		end = 0
	}
	return s.SetLoop(int(p.LoopStart), end, count)
}
