package cmd

import (
	"io"
	"os"

	"github.com/braheezy/goadpcm/pkg/adpcm"
	"github.com/charmbracelet/log"
)

var logger = log.New(os.Stdout)

func setupLogger() {
	var out io.Writer = os.Stdout
	if quiet {
		out = io.Discard
	}
	logger = log.New(out)
	logger.SetReportTimestamp(false)

	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	adpcm.SetLogger(logger.WithPrefix("adpcm"))
}
