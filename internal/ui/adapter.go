package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lyrio/internal/events"
	"github.com/desertthunder/lyrio/internal/models"
)

// forwardCapacity buffers UI actions between the render loop and the
// forwarder goroutine copying them onto the main event channel.
const forwardCapacity = 16

// Adapter implements the Presentation port over a running bubbletea
// program. Visibility and position are mirrored locally so the
// dispatcher gets synchronous answers without round-tripping through
// the program.
type Adapter struct {
	program *tea.Program
	forward chan events.Event

	mu      sync.Mutex
	visible bool
	posX    int
	posY    int
}

// NewAdapter creates an Adapter and the overlay model it will drive.
// Attach the returned model to a tea.Program, then call
// [Adapter.Attach] before the dispatcher starts.
func NewAdapter(visible bool) (*Adapter, Overlay) {
	a := &Adapter{
		forward: make(chan events.Event, forwardCapacity),
		visible: visible,
	}
	return a, NewOverlay(a.forward, visible)
}

// Attach binds the running program to the adapter.
func (a *Adapter) Attach(program *tea.Program) {
	a.program = program
}

// Forward returns the channel of user actions for the forwarder
// goroutine to drain onto the main event channel.
func (a *Adapter) Forward() <-chan events.Event {
	return a.forward
}

func (a *Adapter) send(msg tea.Msg) {
	if a.program != nil {
		a.program.Send(msg)
	}
}

func (a *Adapter) Show() error {
	a.mu.Lock()
	a.visible = true
	a.mu.Unlock()
	a.send(showMsg{})
	return nil
}

func (a *Adapter) Hide() error {
	a.mu.Lock()
	a.visible = false
	a.mu.Unlock()
	a.send(hideMsg{})
	return nil
}

func (a *Adapter) IsVisible() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.visible
}

func (a *Adapter) UpdateTrack(track models.Track) {
	a.send(trackMsg{track: track})
}

func (a *Adapter) UpdateLyrics(text string) {
	a.send(lyricsMsg{text: text})
}

func (a *Adapter) SetPosition(x, y int) {
	a.mu.Lock()
	a.posX, a.posY = x, y
	a.mu.Unlock()
}

func (a *Adapter) Position() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.posX, a.posY
}
