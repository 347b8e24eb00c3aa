//go:build windows

package cmd

import "errors"

func writeMP3(outputFile string, p pcm) error {
	return errors.New("MP3 is not supported on Windows")
}
