package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/lyrio/internal/events"
	"github.com/desertthunder/lyrio/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1DB954")).
			Padding(0, 1)

	lyricsStyle = lipgloss.NewStyle().
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Faint(true).
			Padding(0, 1)

	hiddenStyle = lipgloss.NewStyle().
			Faint(true).
			Padding(1, 1)
)

// Messages sent into the program by the [Adapter].
type (
	trackMsg  struct{ track models.Track }
	lyricsMsg struct{ text string }
	showMsg   struct{}
	hideMsg   struct{}
)

// Overlay is the terminal lyrics surface. User actions become
// application events on the forward channel; they never call back into
// the dispatcher directly.
type Overlay struct {
	forward  chan<- events.Event
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	track    string
	lyrics   string
	visible  bool
	ready    bool
	width    int
	height   int
}

// NewOverlay creates the overlay model. Events produced by key
// handling are pushed onto forward without blocking.
func NewOverlay(forward chan<- events.Event, visible bool) Overlay {
	return Overlay{
		forward: forward,
		help:    help.New(),
		keys:    newKeyMap(),
		track:   "Waiting for playback…",
		visible: visible,
	}
}

func (m Overlay) Init() tea.Cmd {
	return nil
}

func (m Overlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		vh := msg.Height - 4
		if vh < 1 {
			vh = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vh)
			m.viewport.SetContent(lyricsStyle.Render(m.lyrics))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vh
		}
		return m, nil

	case trackMsg:
		m.track = msg.track.Label()
		m.lyrics = "Fetching lyrics…"
		if m.ready {
			m.viewport.SetContent(lyricsStyle.Render(m.lyrics))
			m.viewport.GotoTop()
		}
		return m, nil

	case lyricsMsg:
		m.lyrics = msg.text
		if m.ready {
			m.viewport.SetContent(lyricsStyle.Render(m.lyrics))
			m.viewport.GotoTop()
		}
		return m, nil

	case showMsg:
		m.visible = true
		return m, nil

	case hideMsg:
		m.visible = false
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			m.push(events.Quit{})
			return m, nil
		case key.Matches(msg, m.keys.toggle):
			m.push(events.ToggleOverlay{})
			return m, nil
		case key.Matches(msg, m.keys.auth):
			m.push(events.Authenticate{})
			return m, nil
		}
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Overlay) View() string {
	if !m.visible {
		return hiddenStyle.Render("overlay hidden, press t to show") + "\n" + statusStyle.Render(m.help.View(m.keys))
	}
	if !m.ready {
		return statusStyle.Render("initializing…")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(m.track),
		m.viewport.View(),
		statusStyle.Render(m.help.View(m.keys)),
	)
}

// push forwards a user action without ever blocking the render loop;
// a saturated channel drops the action rather than freezing the UI.
func (m Overlay) push(ev events.Event) {
	select {
	case m.forward <- ev:
	default:
	}
}
