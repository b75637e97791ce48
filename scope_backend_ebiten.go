//go:build !headless

// scope_backend_ebiten.go - Ebiten oscilloscope window

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
	"image/color"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

func init() {
	compiledFeatures = append(compiledFeatures, "scope:ebiten")
}

const (
	SCOPE_WIDTH      = 800
	SCOPE_HEIGHT     = 480
	SCOPE_MARGIN     = 24
	SCOPE_STATUS_H   = 40
	SCOPE_GRID_DIVS  = 10
	SCOPE_TRACE_WIDE = 1.5
)

var (
	scopeBackground = color.RGBA{0x10, 0x14, 0x12, 0xff}
	scopeGrid       = color.RGBA{0x28, 0x3c, 0x30, 0xff}
	scopeAxis       = color.RGBA{0x40, 0x60, 0x4c, 0xff}
	scopeTrace      = color.RGBA{0x50, 0xff, 0x90, 0xff}
	scopeTrigger    = color.RGBA{0xff, 0x9c, 0x30, 0xc0}
	scopeText       = color.RGBA{0xc8, 0xe8, 0xd0, 0xff}
)

// ScopeWindow renders traces with ebiten and forwards typed keys to the
// controller. ShowTrace is called from the scope goroutine; Draw runs on
// ebiten's thread, so the trace is handed over through an atomic pointer.
type ScopeWindow struct {
	controller *Controller
	params     *ParamChannel
	settings   *ScopeSettings

	trace   atomic.Pointer[Trace]
	closing atomic.Bool
	chars   []rune

	clipboardOnce sync.Once
	clipboardOK   bool
}

// NewScopeWindow fails when no display is reachable; the caller then falls
// back to the text scope.
func NewScopeWindow(controller *Controller, params *ParamChannel, settings *ScopeSettings) (*ScopeWindow, error) {
	if err := checkDisplay(runtime.GOOS, os.Getenv); err != nil {
		return nil, err
	}
	return &ScopeWindow{
		controller: controller,
		params:     params,
		settings:   settings,
	}, nil
}

func (sw *ScopeWindow) ShowTrace(tr *Trace) { sw.trace.Store(tr) }

// Close asks the window to leave its run loop on the next update.
func (sw *ScopeWindow) Close() { sw.closing.Store(true) }

// Run blocks on the ebiten loop until the window is closed.
func (sw *ScopeWindow) Run() error {
	ebiten.SetWindowSize(SCOPE_WIDTH, SCOPE_HEIGHT)
	ebiten.SetWindowTitle("Monotron")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	if err := ebiten.RunGame(sw); err != nil && err != ebiten.Termination {
		return fmt.Errorf("scope window: %w", err)
	}
	return nil
}

func (sw *ScopeWindow) Update() error {
	if sw.closing.Load() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	sw.chars = ebiten.AppendInputChars(sw.chars[:0])
	for _, r := range sw.chars {
		if r >= 0x80 {
			continue
		}
		if r == 'c' {
			sw.copyTrace()
			continue
		}
		sw.controller.HandleKey(byte(r))
	}

	for key, b := range scopeSpecialKeys {
		if inpututil.IsKeyJustPressed(key) {
			sw.controller.HandleKey(b)
		}
	}
	return nil
}

// Arrow keys mirror the volume and pitch bindings.
var scopeSpecialKeys = map[ebiten.Key]byte{
	ebiten.KeyEnter: '\n',
	ebiten.KeyUp:    '+',
	ebiten.KeyDown:  '-',
	ebiten.KeyRight: ']',
	ebiten.KeyLeft:  '[',
}

func (sw *ScopeWindow) copyTrace() {
	sw.clipboardOnce.Do(func() {
		sw.clipboardOK = clipboard.Init() == nil
	})
	if !sw.clipboardOK {
		fmt.Fprintf(os.Stderr, "scope: clipboard unavailable\n")
		return
	}
	tr := sw.trace.Load()
	if tr == nil {
		return
	}
	data, err := traceCSV(tr.Points)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scope: formatting trace: %v\n", err)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	fmt.Printf("scope: copied %d points to clipboard\n", len(tr.Points))
}

type plotArea struct {
	x, y, w, h float32
}

func (pa plotArea) midY() float32 { return pa.y + pa.h/2 }

func (pa plotArea) ampY(a float64) float32 {
	return pa.midY() - float32(a/SCOPE_AMP_RANGE)*pa.h/2
}

func (sw *ScopeWindow) Draw(screen *ebiten.Image) {
	screen.Fill(scopeBackground)
	b := screen.Bounds()
	area := plotArea{
		x: SCOPE_MARGIN,
		y: SCOPE_MARGIN,
		w: float32(b.Dx() - 2*SCOPE_MARGIN),
		h: float32(b.Dy() - 2*SCOPE_MARGIN - SCOPE_STATUS_H),
	}
	if area.w <= 0 || area.h <= 0 {
		return
	}

	drawGrid(screen, area)
	tr := sw.trace.Load()
	if tr != nil {
		ty := area.ampY(tr.Params.Threshold)
		vector.StrokeLine(screen, area.x, ty, area.x+area.w, ty, 1, scopeTrigger, false)
		drawTracePath(screen, area, tr)
	}
	sw.drawStatus(screen, int(area.y+area.h)+16, tr)
}

func drawGrid(screen *ebiten.Image, area plotArea) {
	for i := 0; i <= SCOPE_GRID_DIVS; i++ {
		x := area.x + area.w*float32(i)/SCOPE_GRID_DIVS
		vector.StrokeLine(screen, x, area.y, x, area.y+area.h, 1, scopeGrid, false)
	}
	for i := 0; i <= SCOPE_GRID_DIVS/2; i++ {
		y := area.y + area.h*float32(i)/(SCOPE_GRID_DIVS/2)
		vector.StrokeLine(screen, area.x, y, area.x+area.w, y, 1, scopeGrid, false)
	}
	vector.StrokeLine(screen, area.x, area.midY(), area.x+area.w, area.midY(), 1, scopeAxis, false)
}

// drawTracePath scales the time axis to the requested window rather than
// the points present, so a short trace near the end of the capture does not
// stretch.
func drawTracePath(screen *ebiten.Image, area plotArea, tr *Trace) {
	n := len(tr.Points)
	if n < 2 || tr.SampleRate <= 0 {
		return
	}
	spanMs := float64(max(tr.Params.Window-1, 1)) * 1e3 / float64(tr.SampleRate)
	step := max(1, n/max(1, int(2*area.w)))

	px := func(p WaveformPoint) float32 {
		return area.x + float32(p.TimeMs/spanMs)*area.w
	}
	prev := tr.Points[0]
	for i := step; i < n; i += step {
		cur := tr.Points[i]
		vector.StrokeLine(screen, px(prev), area.ampY(prev.Amplitude), px(cur), area.ampY(cur.Amplitude), SCOPE_TRACE_WIDE, scopeTrace, true)
		prev = cur
	}
}

func (sw *ScopeWindow) drawStatus(screen *ebiten.Image, baselineY int, tr *Trace) {
	face := basicfont.Face7x13
	st := sw.params.State()
	sound := "off"
	if st.SoundOn() {
		sound = "ON"
	}
	line := fmt.Sprintf("vol %.2f  pitch %.1f Hz  harm %d  sound %s  trig %+.2f  win %d  refresh %dms",
		st.Volume(), st.Pitch(), st.Harmonics(), sound,
		float64(sw.settings.TriggerControl())/TRIGGER_CONTROL_SCALE, sw.settings.Window(), sw.settings.RefreshMs())
	text.Draw(screen, line, face, SCOPE_MARGIN, baselineY, scopeText)

	status := runtimeStatus.snapshot()
	info := fmt.Sprintf("%s %d Hz  captures %d", status.backend, status.sampleRate, status.captures)
	if tr != nil {
		info += "  " + traceSummary(tr)
	}
	if status.lastErr != "" {
		info += "  err: " + status.lastErr
	}
	text.Draw(screen, info, face, SCOPE_MARGIN, baselineY+16, scopeText)
	ebitenutil.DebugPrintAt(screen, "h: keys  c: copy trace  esc: quit", screen.Bounds().Dx()-220, 4)
}

func (sw *ScopeWindow) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
