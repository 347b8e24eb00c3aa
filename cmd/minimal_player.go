package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ebitengine/oto/v3"
)

// minimalModel plays the files in order, printing a progress line a second.
type minimalModel struct {
	filenames []string
	flags     *streamFlags
	ctx       *oto.Context
	index     int
	player    *trackPlayer
	lastTick  time.Time
	err       error
}

func startMinimalPlayer(flags *streamFlags, filenames []string) error {
	fmt.Println("Starting minimal player mode...")

	// Set up clean exit handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Print("\nUser interrupted, exiting...\n")
		os.Exit(0)
	}()

	ctx, err := newOtoContext(flags.rate, flags.channels)
	if err != nil {
		return err
	}

	m := &minimalModel{filenames: filenames, flags: flags, ctx: ctx}
	if m.player, err = newTrackPlayer(ctx, flags, filenames[0]); err != nil {
		return err
	}
	m.start()

	p := tea.NewProgram(m, tea.WithoutRenderer())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running player: %w", err)
	}
	return final.(*minimalModel).err
}

func (m *minimalModel) start() {
	cfg := m.player.src.stream.Config()

	fmt.Printf("\nPlaying: %s\n", m.player.src.path)
	fmt.Printf("Codec: %s, Sample Rate: %d Hz, Channels: %d\n", cfg.Codec, cfg.SampleRate, cfg.Channels)
	if m.player.totalLength > 0 {
		fmt.Printf("Duration: %s\n", formatDuration(m.player.totalLength))
	} else {
		fmt.Printf("Duration: %s, looping forever\n", formatDuration(m.player.streamLength))
	}
	fmt.Println("\nPress Ctrl+C to quit")

	m.player.play()
	m.lastTick = time.Now()
}

func (m *minimalModel) Init() tea.Cmd {
	return tickCmd()
}

func (m *minimalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if !m.player.player.IsPlaying() {
			fmt.Println("\nPlayback complete")
			return m.nextFile()
		}
		if time.Since(m.lastTick) >= time.Second {
			total := "endless"
			if m.player.totalLength > 0 {
				total = formatDuration(m.player.totalLength)
			}
			fmt.Printf("\rTime: %s / %s", formatDuration(m.player.elapsed()), total)
			m.lastTick = time.Now()
		}
		return m, tickCmd()
	}

	return m, nil
}

// nextFile moves on to the next file, quitting after the last one.
func (m *minimalModel) nextFile() (tea.Model, tea.Cmd) {
	m.player.close()
	m.index++
	if m.index >= len(m.filenames) {
		return m, tea.Quit
	}

	player, err := newTrackPlayer(m.ctx, m.flags, m.filenames[m.index])
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.player = player
	m.start()
	return m, tickCmd()
}

func (m *minimalModel) View() string {
	return ""
}
