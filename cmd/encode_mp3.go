//go:build !windows

package cmd

import (
	"fmt"
	"os"

	mp3encoder "github.com/braheezy/shine-mp3/pkg/mp3"
)

func writeMP3(outputFile string, p pcm) error {
	if p.channels > 2 {
		return fmt.Errorf("MP3 holds at most 2 channels, the stream has %d", p.channels)
	}

	mp3File, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating MP3 file: %w", err)
	}

	mp3Encoder := mp3encoder.NewEncoder(p.sampleRate, p.channels)
	if err := mp3Encoder.Write(mp3File, p.data); err != nil {
		mp3File.Close()
		return fmt.Errorf("encoding MP3 data: %w", err)
	}
	if err := mp3File.Close(); err != nil {
		return fmt.Errorf("closing MP3 file: %w", err)
	}
	return nil
}
