// controller.go - Keyboard bindings shared by the terminal host and the scope window

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionMonotron
License: GPLv3 or later
*/


package main

import (
	"fmt"
	"io"
	"sync"
)

// Step sizes per key press. Pitch mirrors the dial's single/page steps.
const (
	VOLUME_STEP       = 5
	PITCH_STEP_FINE   = 10
	PITCH_STEP_COARSE = 100
	HARMONICS_STEP    = 1
	TRIGGER_STEP      = 10
	WINDOW_STEP       = 256
	REFRESH_STEP      = 50
)

const CONTROLLER_HELP_TEXT = "keys: +/- volume  [/] pitch  {/} fine pitch  ,/. harmonics  space sound  t/T trigger  w/W window  r/R refresh  d display  x reset  q quit"

// KeyHandler receives single key bytes from a host input source.
type KeyHandler interface {
	HandleKey(b byte) bool
}

// Controller turns key presses into ParamChannel and ScopeSettings edits
// and echoes each change.
type Controller struct {
	params   *ParamChannel
	settings *ScopeSettings
	quit     func()

	mu  sync.Mutex
	log io.Writer
	eol string
}

func NewController(params *ParamChannel, settings *ScopeSettings, log io.Writer, quit func()) *Controller {
	return &Controller{
		params:   params,
		settings: settings,
		quit:     quit,
		log:      log,
		eol:      "\n",
	}
}

// SetRawMode switches echo line endings to \r\n for raw terminals.
func (c *Controller) SetRawMode(raw bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if raw {
		c.eol = "\r\n"
	} else {
		c.eol = "\n"
	}
}

func (c *Controller) logf(format string, args ...any) {
	if c.log == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.log, format+c.eol, args...)
}

// HandleKey applies the binding for b. It reports whether b was bound.
func (c *Controller) HandleKey(b byte) bool {
	p, s := c.params, c.settings
	switch b {
	case '+', '=':
		c.setVolume(p.VolumeControl() + VOLUME_STEP)
	case '-', '_':
		c.setVolume(p.VolumeControl() - VOLUME_STEP)
	case ']':
		c.setPitch(p.PitchControl() + PITCH_STEP_COARSE)
	case '[':
		c.setPitch(p.PitchControl() - PITCH_STEP_COARSE)
	case '}':
		c.setPitch(p.PitchControl() + PITCH_STEP_FINE)
	case '{':
		c.setPitch(p.PitchControl() - PITCH_STEP_FINE)
	case '.', '>':
		c.setHarmonics(p.HarmonicsControl() + HARMONICS_STEP)
	case ',', '<':
		c.setHarmonics(p.HarmonicsControl() - HARMONICS_STEP)
	case ' ':
		if p.ToggleSound() {
			c.logf("soundOn")
		} else {
			c.logf("soundOff")
		}
	case 'T':
		c.setTrigger(s.TriggerControl() + TRIGGER_STEP)
	case 't':
		c.setTrigger(s.TriggerControl() - TRIGGER_STEP)
	case 'W':
		c.setWindow(s.Window() + WINDOW_STEP)
	case 'w':
		c.setWindow(s.Window() - WINDOW_STEP)
	case 'R':
		c.setRefresh(s.RefreshMs() + REFRESH_STEP)
	case 'r':
		c.setRefresh(s.RefreshMs() - REFRESH_STEP)
	case 'd', '\n':
		s.RequestDisplay()
	case 'x':
		p.Reset()
		s.Reset()
		c.logf("reset: controls restored to defaults")
	case 'h', '?':
		c.logf("%s", CONTROLLER_HELP_TEXT)
	case 'q', 0x03: // Ctrl-C arrives as a byte in raw mode
		if c.quit != nil {
			c.quit()
		}
	default:
		return false
	}
	return true
}

func (c *Controller) setVolume(raw int) {
	v := c.params.SetVolume(raw)
	c.logf("setVolume: %d (%.2f)", c.params.VolumeControl(), v)
}

func (c *Controller) setPitch(raw int) {
	hz := c.params.SetPitch(raw)
	c.logf("setPitch: %d %.2f", c.params.PitchControl(), hz)
}

func (c *Controller) setHarmonics(raw int) {
	h := c.params.SetHarmonics(raw)
	c.logf("setHarmonics: %d harmonics", h)
}

func (c *Controller) setTrigger(raw int) {
	level := c.settings.SetTrigger(raw)
	c.logf("setTrigger: %d (%+.2f)", c.settings.TriggerControl(), level)
}

func (c *Controller) setWindow(n int) {
	c.logf("setSamples: %d", c.settings.SetWindow(n))
}

func (c *Controller) setRefresh(ms int) {
	c.logf("setRefresh: %d ms", c.settings.SetRefresh(ms))
}
