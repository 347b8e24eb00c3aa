package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var infoFlags streamFlags
var infoPeak bool

var infoCmd = &cobra.Command{
	Use:   "info <input-file>",
	Short: "Show how a raw ADPCM stream will be decoded",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := infoFlags.open(args[0])
		if err != nil {
			return err
		}
		defer src.Close()

		if err := printInfo(cmd.OutOrStdout(), src); err != nil {
			return err
		}
		if infoPeak {
			return printPeaks(cmd, src)
		}
		return nil
	},
}

func init() {
	infoFlags.register(infoCmd)
	infoCmd.Flags().BoolVar(&infoPeak, "peak", false, "Decode the stream and report the peak level of each channel")
	rootCmd.AddCommand(infoCmd)
}

func printInfo(w io.Writer, src *source) error {
	s := src.stream
	cfg := s.Config()

	fmt.Fprintf(w, "file:        %s\n", src.path)
	fmt.Fprintf(w, "codec:       %s\n", cfg.Codec)
	fmt.Fprintf(w, "channels:    %d\n", cfg.Channels)
	fmt.Fprintf(w, "sample rate: %d Hz\n", cfg.SampleRate)
	fmt.Fprintf(w, "data:        %#x, %s\n", cfg.Offset, formatSize(int(cfg.Size)))
	if cfg.Interleave > 0 {
		fmt.Fprintf(w, "interleave:  %#x\n", cfg.Interleave)
	}
	fmt.Fprintf(w, "samples:     %d\n", s.Samples())
	fmt.Fprintf(w, "duration:    %s\n", formatDuration(src.duration(s.Samples())))
	if src.pos != nil {
		fmt.Fprintf(w, "loop:        %d - %d\n", src.pos.LoopStart, src.pos.LoopEnd)
	}

	switch length := s.RenderLength(); {
	case length < 0:
		_, err := fmt.Fprintln(w, "play time:   endless")
		return err
	case length != s.Samples():
		_, err := fmt.Fprintf(w, "play time:   %s\n", formatDuration(src.duration(length)))
		return err
	}
	return nil
}

func printPeaks(cmd *cobra.Command, src *source) error {
	decodedData, err := src.stream.DecodeAll(cmd.Context())
	if err != nil {
		return err
	}

	channels := src.stream.Config().Channels
	peaks := make([]int, channels)
	for i, sample := range decodedData {
		v := int(sample)
		if v < 0 {
			v = -v
		}
		if v > peaks[i%channels] {
			peaks[i%channels] = v
		}
	}
	for ch, peak := range peaks {
		fmt.Fprintf(cmd.OutOrStdout(), "peak ch%d:    %d\n", ch, peak)
	}
	return nil
}
