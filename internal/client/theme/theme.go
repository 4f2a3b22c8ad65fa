// Package theme is the appearance provider of the CLI. One Provider is
// created at startup and passed to whatever renders output.
package theme

import "sync"

// Palette holds ANSI escape sequences for the roles the CLI renders.
type Palette struct {
	Header    string
	Muted     string
	Unique    string
	Duplicate string
	Error     string
	Reset     string
}

var (
	light = Palette{
		Header:    "\x1b[1;34m",
		Muted:     "\x1b[90m",
		Unique:    "\x1b[32m",
		Duplicate: "\x1b[31m",
		Error:     "\x1b[31m",
		Reset:     "\x1b[0m",
	}
	dark = Palette{
		Header:    "\x1b[1;96m",
		Muted:     "\x1b[37m",
		Unique:    "\x1b[92m",
		Duplicate: "\x1b[91m",
		Error:     "\x1b[91m",
		Reset:     "\x1b[0m",
	}
)

type Provider struct {
	mu     sync.RWMutex
	dark   bool
	plain  bool
	notify func(dark bool)
}

// New returns a provider in the given mode. With color false every palette
// entry is empty.
func New(darkMode, color bool) *Provider {
	return &Provider{dark: darkMode, plain: !color}
}

// OnChange registers fn to be called after every Toggle.
func (p *Provider) OnChange(fn func(dark bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notify = fn
}

func (p *Provider) IsDark() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dark
}

// Toggle flips the mode and returns the new IsDark value.
func (p *Provider) Toggle() bool {
	p.mu.Lock()
	p.dark = !p.dark
	dark, fn := p.dark, p.notify
	p.mu.Unlock()

	if fn != nil {
		fn(dark)
	}
	return dark
}

func (p *Provider) Palette() Palette {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch {
	case p.plain:
		return Palette{}
	case p.dark:
		return dark
	default:
		return light
	}
}

// Paint wraps s in color unless color is empty.
func (pl Palette) Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + pl.Reset
}
