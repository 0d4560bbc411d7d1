package cli

import (
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

// Pulse animation constants
const (
	pulseEmpty = "◯"
	pulseFull  = "◉"

	pulseFPS              = 10
	pulseAngularFrequency = 7.0
	pulseDampingRatio     = 0.8

	// Position threshold for frame switching
	pulseFrameThreshold = 0.3
)

// Pulse renders a one-shot heartbeat marker: Trigger kicks the spring to
// full, then the indicator decays back to empty over the next few ticks. One
// Pulse exists per child device; a trigger fires on every connection-state
// change event for that child.
type Pulse struct {
	spring   harmonica.Spring
	position float64
	velocity float64
	target   float64
}

// NewPulse creates a pulse animator at rest.
func NewPulse() *Pulse {
	return &Pulse{
		spring: harmonica.NewSpring(harmonica.FPS(pulseFPS), pulseAngularFrequency, pulseDampingRatio),
	}
}

// Trigger kicks the indicator to full; the spring decays it back.
func (p *Pulse) Trigger() {
	p.position = 1.0
	p.velocity = 0
	p.target = 0
}

// Update advances the spring one tick.
func (p *Pulse) Update() {
	p.position, p.velocity = p.spring.Update(p.position, p.velocity, p.target)
}

// Frame returns the current frame based on the spring position.
func (p *Pulse) Frame() string {
	if p.position < pulseFrameThreshold {
		return pulseEmpty
	}

	return pulseFull
}

// Render returns the styled frame.
func (p *Pulse) Render(style lipgloss.Style) string {
	return style.Render(p.Frame())
}
