package cmd

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/braheezy/goadpcm/pkg/vgm"
	"github.com/braheezy/qoa"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
	"github.com/spf13/cobra"
)

var decodeFlags streamFlags

var decodeCmd = &cobra.Command{
	Use:   "decode <input-file> <output-file>",
	Short: "Decode a raw ADPCM stream to PCM audio",
	Long:  fmt.Sprintf("Decode a raw ADPCM stream to PCM audio. The supported output formats are:\n%v", strings.Join(supportedFormats, "\n")),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]
		outputFile := args[1]

		if !isSupportedOutput(outputFile) {
			return fmt.Errorf("unsupported output format %q", filepath.Ext(outputFile))
		}
		return decodeAudio(cmd, inputFile, outputFile)
	},
}

var supportedFormats = []string{".wav", ".flac", ".qoa", ".mp3"}

var errEndlessLoop = errors.New("cannot decode an endless loop to a file")

func init() {
	decodeFlags.register(decodeCmd)
	rootCmd.AddCommand(decodeCmd)
}

func isSupportedOutput(outputFile string) bool {
	return contains(supportedFormats, strings.ToLower(filepath.Ext(outputFile)))
}

func contains(arr []string, target string) bool {
	for _, item := range arr {
		if item == target {
			return true
		}
	}
	return false
}

func decodeAudio(cmd *cobra.Command, inputFile, outputFile string) error {
	src, err := decodeFlags.open(inputFile)
	if err != nil {
		return err
	}
	defer src.Close()

	decodedData, err := renderStream(cmd, src.stream)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", inputFile, err)
	}

	cfg := src.stream.Config()
	out := pcm{
		data:       decodedData,
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
	}

	switch strings.ToLower(filepath.Ext(outputFile)) {
	case ".wav":
		logger.Info("Output format is WAV")
		err = writeWAV(outputFile, out)
	case ".flac":
		logger.Info("Output format is FLAC")
		err = writeFLAC(outputFile, out)
	case ".qoa":
		logger.Info("Output format is QOA")
		err = writeQOA(outputFile, out)
	case ".mp3":
		logger.Info("Output format is MP3")
		err = writeMP3(outputFile, out)
	}
	if err != nil {
		return err
	}

	logger.Infof("Decoding completed: %s -> %s", inputFile, outputFile)
	return nil
}

// renderStream decodes the whole stream. Without a loop the channels are
// decoded in parallel, otherwise the stream is rendered in order.
func renderStream(cmd *cobra.Command, s *vgm.Stream) ([]int16, error) {
	length := s.RenderLength()
	if length < 0 {
		return nil, errEndlessLoop
	}
	if length == s.Samples() {
		return s.DecodeAll(cmd.Context())
	}

	channels := s.Config().Channels
	decodedData := make([]int16, length*channels)
	for written := 0; written < length; {
		n, err := s.Render(decodedData[written*channels:])
		written += n
		if err == io.EOF {
			return decodedData[:written*channels], nil
		}
		if err != nil {
			return nil, err
		}
	}
	return decodedData, nil
}

// pcm is interleaved 16-bit audio ready to be written out.
type pcm struct {
	data       []int16
	sampleRate int
	channels   int
}

func (p pcm) samples() int {
	return len(p.data) / p.channels
}

func writeWAV(outputFile string, p pcm) error {
	// Convert int16 to int for WAV conversion
	intAudioData := make([]int, len(p.data))
	for i, val := range p.data {
		intAudioData[i] = int(val)
	}

	wavBuffer := &audio.IntBuffer{
		Data:           intAudioData,
		Format:         &audio.Format{SampleRate: p.sampleRate, NumChannels: p.channels},
		SourceBitDepth: 16,
	}
	wavFile, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating WAV file: %w", err)
	}
	defer wavFile.Close()

	wavEncoder := wav.NewEncoder(wavFile, p.sampleRate, 16, p.channels, 1)
	if err = wavEncoder.Write(wavBuffer); err != nil {
		return fmt.Errorf("writing WAV data: %w", err)
	}
	return wavEncoder.Close()
}

func writeQOA(outputFile string, p pcm) error {
	q := qoa.NewEncoder(uint32(p.sampleRate), uint32(p.channels), uint32(p.samples()))
	qoaEncodedData, err := q.Encode(p.data)
	if err != nil {
		return fmt.Errorf("encoding audio data to QOA: %w", err)
	}
	if err := os.WriteFile(outputFile, qoaEncodedData, 0o644); err != nil {
		return fmt.Errorf("writing QOA data: %w", err)
	}

	if p.samples() > 0 {
		psnr := -20.0 * math.Log10(math.Sqrt(float64(q.ErrorCount)/float64(len(p.data)))/32768.0)
		logger.Debug(outputFile, "size", formatSize(len(qoaEncodedData)), "psnr", fmt.Sprintf("%0.2f", psnr))
	}
	return nil
}

// flacBlockSize is the number of samples per channel in each FLAC frame.
const flacBlockSize = 4096

func writeFLAC(outputFile string, p pcm) error {
	channels, err := getFLACChannels(p.channels)
	if err != nil {
		return err
	}

	flacFile, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating FLAC file: %w", err)
	}
	defer flacFile.Close()

	flacEnc, err := flac.NewEncoder(flacFile, &meta.StreamInfo{
		SampleRate:    uint32(p.sampleRate),
		NChannels:     uint8(p.channels),
		BitsPerSample: 16,
		BlockSizeMin:  16,
		BlockSizeMax:  flacBlockSize,
		NSamples:      uint64(p.samples()),
	})
	if err != nil {
		return fmt.Errorf("initializing FLAC encoder: %w", err)
	}

	subframes := make([]*frame.Subframe, p.channels)
	for i := range subframes {
		subframes[i] = &frame.Subframe{
			SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
			Samples:   make([]int32, flacBlockSize),
		}
	}

	totalSamples := p.samples()
	for i := 0; i < totalSamples; i += flacBlockSize {
		blockSize := totalSamples - i
		if blockSize > flacBlockSize {
			blockSize = flacBlockSize
		}
		// FLAC frames hold at least 16 samples, except for the last one.
		for ch, subframe := range subframes {
			subframe.NSamples = blockSize
			subframe.Samples = subframe.Samples[:blockSize]
			for j := range subframe.Samples {
				subframe.Samples[j] = int32(p.data[(i+j)*p.channels+ch])
			}
		}

		frameData := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: false,
				BlockSize:         uint16(blockSize),
				SampleRate:        uint32(p.sampleRate),
				Channels:          channels,
				BitsPerSample:     16,
			},
			Subframes: subframes,
		}
		if err := flacEnc.WriteFrame(frameData); err != nil {
			return fmt.Errorf("writing FLAC frame: %w", err)
		}
	}

	if err := flacEnc.Close(); err != nil {
		return fmt.Errorf("closing FLAC encoder: %w", err)
	}
	return nil
}

func getFLACChannels(numChannels int) (frame.Channels, error) {
	switch numChannels {
	case 1:
		return frame.ChannelsMono, nil
	case 2:
		return frame.ChannelsLR, nil
	case 3:
		return frame.ChannelsLRC, nil
	case 4:
		return frame.ChannelsLRLsRs, nil
	case 5:
		return frame.ChannelsLRCLsRs, nil
	case 6:
		return frame.ChannelsLRCLfeLsRs, nil
	case 7:
		return frame.ChannelsLRCLfeCsSlSr, nil
	case 8:
		return frame.ChannelsLRCLfeLsRsSlSr, nil
	default:
		return 0, fmt.Errorf("unsupported channel count: %d", numChannels)
	}
}
