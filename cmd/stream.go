package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/braheezy/goadpcm/pkg/adpcm"
	"github.com/braheezy/goadpcm/pkg/vgm"
	"github.com/spf13/cobra"
)

// streamFlags describe a raw stream on the command line. Raw rips carry no
// header, so the codec and layout must be given.
type streamFlags struct {
	codec      string
	channels   int
	rate       int
	offset     int64
	size       int64
	interleave int64
	samples    int
	loops      int
	pos        string
}

func (f *streamFlags) register(cmd *cobra.Command) {
	var names []string
	for _, c := range adpcm.Codecs() {
		names = append(names, c.String())
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.codec, "codec", "c", "", fmt.Sprintf("ADPCM codec (%s)", strings.Join(names, ", ")))
	flags.IntVar(&f.channels, "channels", 1, "Number of channels")
	flags.IntVarP(&f.rate, "rate", "r", 44100, "Sample rate in Hz")
	flags.Int64Var(&f.offset, "offset", 0, "Byte offset of the audio data")
	flags.Int64Var(&f.size, "size", 0, "Byte size of the audio data (default rest of the file)")
	flags.Int64Var(&f.interleave, "interleave", 0, "Bytes per channel block of interleaved streams (default per codec)")
	flags.IntVar(&f.samples, "samples", 0, "Samples per channel (default from size)")
	flags.IntVar(&f.loops, "loops", 0, "Times to repeat the loop, -1 forever. Without loop points the whole stream repeats")
	flags.StringVar(&f.pos, "pos", "", "Loop points file (default <input>.pos when present)")
	_ = cmd.MarkFlagRequired("codec")
}

// source is an opened stream file.
type source struct {
	path   string
	file   *os.File
	stream *vgm.Stream
	pos    *vgm.Pos
}

func (s *source) Close() error {
	return s.file.Close()
}

// duration is the play time of n sample frames.
func (s *source) duration(n int) time.Duration {
	rate := s.stream.Config().SampleRate
	return time.Duration(n) * time.Second / time.Duration(rate)
}

func (f *streamFlags) open(path string) (*source, error) {
	codec, err := adpcm.ParseCodec(f.codec)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	cfg := vgm.Config{
		Codec:      codec,
		Channels:   f.channels,
		SampleRate: f.rate,
		Offset:     f.offset,
		Size:       f.size,
		Interleave: f.interleave,
		Samples:    f.samples,
	}
	if cfg.Size == 0 {
		cfg.Size = info.Size() - f.offset
	}

	pos, found, err := f.loadPos(path)
	if err != nil {
		file.Close()
		return nil, err
	}
	if found && pos.Samples > 0 && cfg.Samples == 0 {
		cfg.Samples = int(pos.Samples)
	}

	stream, err := vgm.Open(file, cfg)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	src := &source{path: path, file: file, stream: stream}

	if found {
		src.pos = &pos
	}
	if f.loops != 0 {
		if !found {
			// the whole stream is always a valid loop
			_ = stream.SetLoop(0, 0, f.loops)
		} else if err := pos.Apply(stream, f.loops); err != nil {
			logger.Warn("Ignoring loop points", "file", path, "err", err)
			stream.ClearLoop()
			src.pos = nil
		}
	}

	cfg = stream.Config()
	logger.Debug(
		path,
		"codec", cfg.Codec,
		"channels", cfg.Channels,
		"samplerate(hz)", cfg.SampleRate,
		"samples/channel", stream.Samples(),
		"interleave", cfg.Interleave,
		"size", formatSize(int(cfg.Size)),
		"duration", src.duration(stream.Samples()),
	)
	return src, nil
}

// loadPos reads the loop file given with --pos, or the one next to path.
func (f *streamFlags) loadPos(path string) (vgm.Pos, bool, error) {
	if f.pos == "" {
		return vgm.OpenPos(path)
	}

	file, err := os.Open(f.pos)
	if err != nil {
		return vgm.Pos{}, false, err
	}
	defer file.Close()

	pos, err := vgm.ReadPos(file)
	return pos, err == nil, err
}

// formatSize converts the inputSize to a human readable format
func formatSize(inputSize int) string {
	const unit = 1024
	if inputSize < unit {
		return fmt.Sprintf("%d B", inputSize)
	}
	div, exp := int64(unit), 0
	for n := inputSize / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(inputSize)/float64(div), "KMGTPE"[exp])
}
