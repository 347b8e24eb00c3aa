package cmd

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/braheezy/goadpcm/pkg/vgm"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ebitengine/oto/v3"
)

// ==========================================
// =============== Messages =================
// ==========================================
// tickMsg is sent periodically to update the progress bar.
type tickMsg time.Time

// tickCmd is a helper function to create a tickMsg.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// controlsMsg is sent to control various things about the music player.
type controlsMsg int

const (
	start controlsMsg = iota
	stop
)

// sendControlsMsg is a helper function to create a controlsMsg.
func sendControlsMsg(msg controlsMsg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// changeSongMsg is sent to change the song.
type changeSongMsg int

const (
	next changeSongMsg = iota
	prev
	again
)

// sendChangeSongMsg is a helper function to create a changeSongMsg.
func sendChangeSongMsg(msg changeSongMsg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// ==========================================
// ================ Models ==================
// ==========================================

// model holds the main state of the application.
type model struct {
	// filenames is a list of filenames to play.
	filenames []string
	// flags open every file, they all share the same layout.
	flags *streamFlags
	// currentIndex is the index of the current song playing
	currentIndex int
	// player plays the current song
	player *trackPlayer
	// ctx is the Oto context. There can only be one per process.
	ctx  *oto.Context
	help help.Model
	// err stops the program
	err error
}

// trackPlayer plays one stream and tracks its progress.
type trackPlayer struct {
	src    *source
	reader *vgm.Reader
	// player is the Oto player, which does the actually playing of sound.
	player *oto.Player
	// startTime is the time when the song started playing.
	startTime time.Time
	// lastPauseTime is the time when the last pause started.
	lastPauseTime time.Time
	// totalPausedTime is the total time spent paused.
	totalPausedTime time.Duration
	// totalLength is the play time with loops, zero when looping forever.
	totalLength time.Duration
	// streamLength is the play time of one pass through the stream.
	streamLength time.Duration
	// progress is the progress bubble model.
	progress progress.Model
	// paused is whether the song is paused.
	paused bool
}

// newOtoContext prepares the audio device for streams of one format.
func newOtoContext(sampleRate, channels int) (*oto.Context, error) {
	if channels > 2 {
		return nil, fmt.Errorf("can only play mono or stereo streams, not %d channels", channels)
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("oto.NewContext failed: %w", err)
	}
	// Wait for the context to be ready
	<-ready
	return ctx, nil
}

// newTrackPlayer opens filename and prepares an Oto player for it.
func newTrackPlayer(ctx *oto.Context, flags *streamFlags, filename string) (*trackPlayer, error) {
	src, err := flags.open(filename)
	if err != nil {
		return nil, err
	}
	reader, err := vgm.NewReader(src.stream)
	if err != nil {
		src.Close()
		return nil, err
	}

	tp := &trackPlayer{
		src:          src,
		reader:       reader,
		player:       ctx.NewPlayer(reader),
		streamLength: src.duration(src.stream.Samples()),
	}
	if length := src.stream.RenderLength(); length >= 0 {
		tp.totalLength = src.duration(length)
	}

	tp.progress = progress.New(progress.WithGradient(pcmBlue, lightTeal))
	tp.progress.ShowPercentage = false
	tp.progress.Width = maxWidth
	return tp, nil
}

// elapsed is the time spent playing so far.
func (tp *trackPlayer) elapsed() time.Duration {
	if tp.startTime.IsZero() {
		return 0
	}
	paused := tp.totalPausedTime
	if tp.paused {
		paused += time.Since(tp.lastPauseTime)
	}
	return time.Since(tp.startTime) - paused
}

// percent is how far along the song is. Endless songs report their position
// in the current pass.
func (tp *trackPlayer) percent() float64 {
	elapsed := tp.elapsed().Seconds()
	if tp.totalLength == 0 {
		return math.Mod(elapsed, tp.streamLength.Seconds()) / tp.streamLength.Seconds()
	}
	return math.Min(elapsed/tp.totalLength.Seconds(), 1)
}

func (tp *trackPlayer) play() {
	tp.player.Play()
	tp.paused = false

	// Account for time spent paused, if needed
	if tp.startTime.IsZero() {
		tp.startTime = time.Now()
	} else if !tp.lastPauseTime.IsZero() {
		tp.totalPausedTime += time.Since(tp.lastPauseTime)
		tp.lastPauseTime = time.Time{}
	}
}

func (tp *trackPlayer) pause() {
	tp.player.Pause()
	tp.lastPauseTime = time.Now()
	tp.paused = true
}

func (tp *trackPlayer) close() {
	if err := tp.player.Close(); err != nil {
		logger.Debug("closing player", "err", err)
	}
	tp.src.Close()
}

// initialModel creates a new model with the given filenames.
func initialModel(flags *streamFlags, filenames []string) (*model, error) {
	ctx, err := newOtoContext(flags.rate, flags.channels)
	if err != nil {
		return nil, err
	}
	player, err := newTrackPlayer(ctx, flags, filenames[0])
	if err != nil {
		return nil, err
	}

	return &model{
		filenames: filenames,
		flags:     flags,
		player:    player,
		ctx:       ctx,
		help:      help.New(),
	}, nil
}

// ==========================================
// ================= Main ===================
// ==========================================
// startTUI is the main entry point for the TUI.
func startTUI(flags *streamFlags, inputFiles []string) error {
	m, err := initialModel(flags, inputFiles)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return fmt.Errorf("running player: %w", err)
	}
	return final.(*model).err
}

func (m *model) Init() tea.Cmd {
	return sendControlsMsg(start)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	// Handle terminal resizing
	case tea.WindowSizeMsg:
		m.player.progress.Width = msg.Width - padding*2 - 4
		if m.player.progress.Width > maxWidth {
			m.player.progress.Width = maxWidth
		}
		m.help.Width = msg.Width
		return m, nil

	// Handle key presses
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, helpKeys.quit):
			m.player.close()
			return m, tea.Quit
		case key.Matches(msg, helpKeys.togglePlay):
			if m.player.player.IsPlaying() {
				return m, sendControlsMsg(stop)
			}
			return m, sendControlsMsg(start)
		case key.Matches(msg, helpKeys.restart):
			return m, sendChangeSongMsg(again)
		case key.Matches(msg, helpKeys.previousSong):
			return m, sendChangeSongMsg(prev)
		case key.Matches(msg, helpKeys.nextSong):
			return m, sendChangeSongMsg(next)
		case key.Matches(msg, helpKeys.toggleHelp):
			m.help.ShowAll = !m.help.ShowAll
		}

	// Handle requests to change controls (play, pause, etc.)
	case controlsMsg:
		switch msg {
		case start:
			if !m.player.player.IsPlaying() {
				m.player.play()
				// Now that we are definitely playing, start the progress bubble
				return m, tickCmd()
			}
		case stop:
			m.player.pause()
		}

	// Handle requests to change song (prev, next, etc.)
	case changeSongMsg:
		if err := m.changeSong(msg); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, sendControlsMsg(start)

	// Update the progress. This is called periodically, so also handle songs that are over.
	case tickMsg:
		if m.player.paused {
			return m, nil
		}
		// Oto stops once the reader is drained.
		if !m.player.player.IsPlaying() {
			return m, sendChangeSongMsg(next)
		}
		cmd := m.player.progress.SetPercent(m.player.percent())
		return m, tea.Batch(cmd, tickCmd())

	case progress.FrameMsg:
		progressModel, cmd := m.player.progress.Update(msg)
		m.player.progress = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// changeSong moves through the filenames list, wrapping around at both ends.
func (m *model) changeSong(msg changeSongMsg) error {
	index := m.currentIndex
	switch msg {
	case next:
		index = (index + 1) % len(m.filenames)
	case prev:
		index = (index - 1 + len(m.filenames)) % len(m.filenames)
	}

	width := m.player.progress.Width
	m.player.close()

	player, err := newTrackPlayer(m.ctx, m.flags, m.filenames[index])
	if err != nil {
		return err
	}
	player.progress.Width = width
	m.player = player
	m.currentIndex = index
	return nil
}

// ==========================================
// ================= View ===================
// ==========================================
// View renders the current state of the application.
func (m *model) View() string {
	src := m.player.src
	cfg := src.stream.Config()

	total := "endless"
	if m.player.totalLength > 0 {
		total = formatDuration(m.player.totalLength)
	}
	details := fmt.Sprintf("%s  %d ch  %d Hz  %s / %s",
		cfg.Codec, cfg.Channels, cfg.SampleRate, formatDuration(m.player.elapsed()), total)

	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s (%d/%d)", filepath.Base(src.path), m.currentIndex+1, len(m.filenames))),
		detailStyle.Render(details),
		"",
		m.player.progress.View(),
		"",
		m.help.View(helpKeys),
	}
	return playerStyle.Render(strings.Join(lines, "\n"))
}

// formatDuration prints d as minutes and seconds.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
