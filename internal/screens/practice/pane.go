package practice

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingua/internal/transcript"
)

// Pane is the terminal surface a transcript appends to. It keeps every
// entry so the whole conversation can be re-laid out when the terminal is
// resized, and follows the newest entry unless the learner scrolled up.
type Pane struct {
	entries []transcript.Entry
	vp      viewport.Model
	width   int
}

var _ transcript.Surface = (*Pane)(nil)

// NewPane creates an empty pane.
func NewPane() *Pane {
	vp := viewport.New()
	vp.SoftWrap = true
	return &Pane{vp: vp}
}

// Append implements transcript.Surface.
func (p *Pane) Append(e transcript.Entry) {
	p.entries = append(p.entries, e)
	p.refresh()
}

// ScrollToBottom implements transcript.Surface.
func (p *Pane) ScrollToBottom() {
	p.vp.GotoBottom()
}

// SetSize lays the pane out for a new area, staying pinned to the bottom
// if it was there before.
func (p *Pane) SetSize(width, height int) {
	if width == p.width && height == p.vp.Height() {
		return
	}
	follow := p.vp.AtBottom()
	p.width = width
	p.vp.SetWidth(width)
	p.vp.SetHeight(height)
	p.refresh()
	if follow {
		p.vp.GotoBottom()
	}
}

// Len returns the number of entries shown.
func (p *Pane) Len() int {
	return len(p.entries)
}

func (p *Pane) refresh() {
	if p.width <= 0 {
		return
	}
	blocks := make([]string, len(p.entries))
	for i, e := range p.entries {
		blocks[i] = renderEntry(e, p.width)
	}
	p.vp.SetContent(strings.Join(blocks, "\n\n"))
}

// View renders the visible part of the transcript.
func (p *Pane) View() string {
	return p.vp.View()
}

// Update forwards scrolling input to the viewport.
func (p *Pane) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}
