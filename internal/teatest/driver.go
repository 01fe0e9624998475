// Package teatest drives bubbletea models synchronously in tests.
//
// Instead of starting a tea.Program (goroutines, a real terminal, timing),
// the Driver calls Update directly and runs every returned Cmd to
// completion before handing control back to the test. Assertions on
// Driver.Model and View() are therefore deterministic.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDrainSteps caps message processing per Send so a model that keeps
// emitting Cmds cannot hang the test.
const maxDrainSteps = 100

// cmdTimeout separates real Cmds from timer-backed ones. A DB query or
// message factory returns in microseconds; a cursor blink sleeps ~530ms
// and gets skipped.
const cmdTimeout = 10 * time.Millisecond

type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting flips when tea.Quit's message comes through. The real
	// runtime intercepts it before the model sees it, so the driver has
	// to notice it itself.
	Quitting bool
}

type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else runs.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New wraps model in a Driver. Call DrainInit before sending input so the
// Init command has run.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs the model's Init command chain.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init())
}

// Send feeds one message through Update and runs the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.drain(cmd)
}

func (d *Driver) SendKey(msg tea.KeyMsg) { d.Send(msg) }

// PressKey sends a single character key.
func (d *Driver) PressKey(r rune) {
	d.SendKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressEnter() { d.SendKey(tea.KeyMsg{Type: tea.KeyEnter}) }
func (d *Driver) PressEsc()   { d.SendKey(tea.KeyMsg{Type: tea.KeyEsc}) }
func (d *Driver) PressUp()    { d.SendKey(tea.KeyMsg{Type: tea.KeyUp}) }
func (d *Driver) PressDown()  { d.SendKey(tea.KeyMsg{Type: tea.KeyDown}) }

// Type sends s one key event per rune.
func (d *Driver) Type(s string) {
	for _, r := range s {
		d.PressKey(r)
	}
}

// View renders the model's current frame.
func (d *Driver) View() string {
	return d.Model.View()
}

// drain executes pending Cmds breadth-first until the model settles.
func (d *Driver) drain(cmd tea.Cmd) {
	d.T.Helper()

	pending := []tea.Cmd{cmd}
	for steps := 0; len(pending) > 0; steps++ {
		if steps >= maxDrainSteps {
			d.T.Logf("teatest: still draining after %d steps, giving up", maxDrainSteps)
			return
		}

		next := pending[0]
		pending = pending[1:]
		if next == nil {
			continue
		}

		msg := runWithTimeout(next)
		switch m := msg.(type) {
		case nil:
			// Timed out or returned nothing.
		case tea.BatchMsg:
			pending = append(pending, m...)
		case tea.QuitMsg:
			d.Quitting = true
			d.Model, _ = d.Model.Update(m)
		default:
			if isCursorBlink(m) {
				continue
			}
			var follow tea.Cmd
			d.Model, follow = d.Model.Update(m)
			pending = append(pending, follow)
		}
	}
}

func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// The bubbles cursor emits unexported blink message types that chain into
// timer Cmds; feeding them back to Update would just re-arm the timer.
func isCursorBlink(msg tea.Msg) bool {
	return strings.Contains(fmt.Sprintf("%T", msg), "link")
}
