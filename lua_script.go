// lua_script.go - Lua automation of synth and scope controls

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
	"context"
	"fmt"
	"io"
	"math"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// ScriptHost exposes the controller surface to Lua:
//
//	volume(0..100)        -> gain
//	pitch(0..10000)       -> Hz (dial curve)
//	pitch_hz(hz)          -> Hz
//	harmonics(0..100)     -> count
//	sound([on])           -> on (toggles without an argument)
//	trigger(-200..200)    -> level
//	window(0..capacity)   -> samples
//	refresh(0..500)       -> ms
//	display()             request an immediate scope refresh
//	wait(ms)              sleep, interrupted on shutdown
//	capture()             -> {{t=ms, a=amp}, ...}, start
//	state()               -> {volume=, pitch=, harmonics=, sound=, sample_index=, sample_rate=}
//	log(fmt, ...)         formatted line to the session log, whole numbers use %d
type ScriptHost struct {
	params   *ParamChannel
	settings *ScopeSettings
	coord    *CaptureCoordinator
	out      io.Writer
}

func NewScriptHost(params *ParamChannel, settings *ScopeSettings, coord *CaptureCoordinator, out io.Writer) *ScriptHost {
	return &ScriptHost{params: params, settings: settings, coord: coord, out: out}
}

func (h *ScriptHost) RunFile(ctx context.Context, path string) error {
	L := h.newState(ctx)
	defer L.Close()
	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

func (h *ScriptHost) RunString(ctx context.Context, src string) error {
	L := h.newState(ctx)
	defer L.Close()
	if err := L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

func (h *ScriptHost) newState(ctx context.Context) *lua.LState {
	L := lua.NewState()
	L.SetContext(ctx)
	for name, fn := range map[string]lua.LGFunction{
		"volume":    h.luaVolume,
		"pitch":     h.luaPitch,
		"pitch_hz":  h.luaPitchHz,
		"harmonics": h.luaHarmonics,
		"sound":     h.luaSound,
		"trigger":   h.luaTrigger,
		"window":    h.luaWindow,
		"refresh":   h.luaRefresh,
		"display":   h.luaDisplay,
		"wait":      h.luaWait,
		"capture":   h.luaCapture,
		"state":     h.luaState,
		"log":       h.luaLog,
	} {
		L.SetGlobal(name, L.NewFunction(fn))
	}
	return L
}

func (h *ScriptHost) luaVolume(L *lua.LState) int {
	L.Push(lua.LNumber(h.params.SetVolume(L.CheckInt(1))))
	return 1
}

func (h *ScriptHost) luaPitch(L *lua.LState) int {
	L.Push(lua.LNumber(h.params.SetPitch(L.CheckInt(1))))
	return 1
}

func (h *ScriptHost) luaPitchHz(L *lua.LState) int {
	L.Push(lua.LNumber(h.params.SetPitchHz(float64(L.CheckNumber(1)))))
	return 1
}

func (h *ScriptHost) luaHarmonics(L *lua.LState) int {
	L.Push(lua.LNumber(h.params.SetHarmonics(L.CheckInt(1))))
	return 1
}

func (h *ScriptHost) luaSound(L *lua.LState) int {
	var on bool
	if L.GetTop() == 0 {
		on = h.params.ToggleSound()
	} else {
		on = L.CheckBool(1)
		h.params.SetSound(on)
	}
	L.Push(lua.LBool(on))
	return 1
}

func (h *ScriptHost) luaTrigger(L *lua.LState) int {
	L.Push(lua.LNumber(h.settings.SetTrigger(L.CheckInt(1))))
	return 1
}

func (h *ScriptHost) luaWindow(L *lua.LState) int {
	L.Push(lua.LNumber(h.settings.SetWindow(L.CheckInt(1))))
	return 1
}

func (h *ScriptHost) luaRefresh(L *lua.LState) int {
	L.Push(lua.LNumber(h.settings.SetRefresh(L.CheckInt(1))))
	return 1
}

func (h *ScriptHost) luaDisplay(L *lua.LState) int {
	h.settings.RequestDisplay()
	return 0
}

func (h *ScriptHost) luaWait(L *lua.LState) int {
	ms := L.CheckInt(1)
	if ms <= 0 {
		return 0
	}
	ctx := L.Context()
	t := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
		L.RaiseError("wait interrupted: %v", ctx.Err())
	}
	return 0
}

func (h *ScriptHost) luaCapture(L *lua.LState) int {
	snap, err := h.coord.Capture(L.Context(), nil)
	if err != nil {
		L.RaiseError("capture: %v", err)
		return 0
	}
	params := h.settings.Trigger()
	points := L.NewTable()
	for p := range ExtractTrace(snap, params) {
		pt := L.NewTable()
		pt.RawSetString("t", lua.LNumber(p.TimeMs))
		pt.RawSetString("a", lua.LNumber(p.Amplitude))
		points.Append(pt)
	}
	L.Push(points)
	L.Push(lua.LNumber(TriggerStart(snap, params)))
	return 2
}

func (h *ScriptHost) luaState(L *lua.LState) int {
	st := h.params.State()
	tbl := L.NewTable()
	tbl.RawSetString("volume", lua.LNumber(st.Volume()))
	tbl.RawSetString("pitch", lua.LNumber(st.Pitch()))
	tbl.RawSetString("harmonics", lua.LNumber(st.Harmonics()))
	tbl.RawSetString("sound", lua.LBool(st.SoundOn()))
	tbl.RawSetString("sample_index", lua.LNumber(st.SampleIndex()))
	tbl.RawSetString("sample_rate", lua.LNumber(st.SampleRate()))
	L.Push(tbl)
	return 1
}

func (h *ScriptHost) luaLog(L *lua.LState) int {
	format := L.CheckString(1)
	args := make([]any, 0, L.GetTop()-1)
	for i := 2; i <= L.GetTop(); i++ {
		args = append(args, luaToGo(L.Get(i)))
	}
	if h.out != nil {
		fmt.Fprintf(h.out, "script: "+format+"\n", args...)
	}
	return 0
}

func luaToGo(v lua.LValue) any {
	switch v := v.(type) {
	case lua.LNumber:
		// Integral numbers format with %d.
		if f := float64(v); f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return float64(v)
	case lua.LBool:
		return bool(v)
	case lua.LString:
		return string(v)
	default:
		return v.String()
	}
}
