// scope_ascii.go - Text-mode trace renderer for terminals and headless builds

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
	"math"
	"strings"
	"sync"
	"time"
)

const (
	ASCII_COLS = 72
	ASCII_ROWS = 15
)

// renderTraceASCII plots points into rows x cols characters over
// ±SCOPE_AMP_RANGE. Each column shows the sample nearest its time slot.
func renderTraceASCII(points []WaveformPoint, cols, rows int) []string {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	grid := make([][]byte, rows)
	zeroRow := ampToRow(0, rows)
	for r := range grid {
		fill := byte(' ')
		if r == zeroRow {
			fill = '-'
		}
		grid[r] = []byte(strings.Repeat(string(fill), cols))
	}
	if len(points) > 0 {
		for c := 0; c < cols; c++ {
			idx := c * len(points) / cols
			grid[ampToRow(points[idx].Amplitude, rows)][c] = '*'
		}
	}
	lines := make([]string, rows)
	for r := range grid {
		lines[r] = "|" + string(grid[r])
	}
	return lines
}

// ampToRow maps +SCOPE_AMP_RANGE to row 0 and -SCOPE_AMP_RANGE to the
// last row. Values beyond the range pin to the edge rows.
func ampToRow(a float64, rows int) int {
	if math.IsNaN(a) {
		a = 0
	}
	a = math.Max(-SCOPE_AMP_RANGE, math.Min(SCOPE_AMP_RANGE, a))
	frac := (SCOPE_AMP_RANGE - a) / (2 * SCOPE_AMP_RANGE)
	return int(math.Round(frac * float64(rows-1)))
}

func traceSummary(tr *Trace) string {
	span := 0.0
	if n := len(tr.Points); n > 0 {
		span = tr.Points[n-1].TimeMs
	}
	return fmt.Sprintf("trace: %d pts  start=%d  trig=%+.2f  win=%d  span=%.3fms  capture=%s",
		len(tr.Points), tr.Start, tr.Params.Threshold, tr.Params.Window, span, tr.Latency.Round(10*time.Microsecond))
}

// asciiTraceSink prints each trace as a plot. With crlf set it emits \r\n
// so output stays aligned while the terminal is in raw mode.
type asciiTraceSink struct {
	mu   sync.Mutex
	w    io.Writer
	cols int
	rows int
	crlf bool
}

func newASCIITraceSink(w io.Writer, crlf bool) *asciiTraceSink {
	return &asciiTraceSink{w: w, cols: ASCII_COLS, rows: ASCII_ROWS, crlf: crlf}
}

func (s *asciiTraceSink) ShowTrace(tr *Trace) {
	eol := "\n"
	if s.crlf {
		eol = "\r\n"
	}
	var b strings.Builder
	b.WriteString(traceSummary(tr))
	b.WriteString(eol)
	for _, line := range renderTraceASCII(tr.Points, s.cols, s.rows) {
		b.WriteString(line)
		b.WriteString(eol)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, b.String())
}
