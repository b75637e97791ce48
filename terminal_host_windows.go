//go:build windows

package main

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

func init() {
	compiledFeatures = append(compiledFeatures, "term:line")
}

// TerminalHost drives the controller from the console keyboard. The
// console has no non-blocking reads, so the reader goroutine is detached:
// Stop restores the console and the reader drops any key that arrives
// afterwards.
type TerminalHost struct {
	keys KeyHandler
	fd   int

	saved *term.State

	quit     chan struct{}
	quitOnce sync.Once
}

func NewTerminalHost(keys KeyHandler) *TerminalHost {
	return &TerminalHost{
		keys: keys,
		fd:   int(os.Stdin.Fd()),
		quit: make(chan struct{}),
	}
}

// Start reports whether raw key input is active.
func (h *TerminalHost) Start() bool {
	if !term.IsTerminal(h.fd) {
		fmt.Fprintln(os.Stderr, "monotron: keyboard control disabled: stdin is not a terminal")
		return false
	}
	saved, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "monotron: keyboard control disabled: raw mode: %v\n", err)
		return false
	}
	h.saved = saved
	go h.readKeys()
	return true
}

func (h *TerminalHost) readKeys() {
	var dec keyDecoder
	var one [1]byte
	for {
		n, err := os.Stdin.Read(one[:])
		select {
		case <-h.quit:
			return
		default:
		}
		if n > 0 {
			if k, ok := dec.feed(one[0]); ok {
				h.keys.HandleKey(k)
			}
		}
		if err != nil {
			return
		}
	}
}

func (h *TerminalHost) Stop() {
	h.quitOnce.Do(func() { close(h.quit) })
	if h.saved != nil {
		_ = term.Restore(h.fd, h.saved)
		h.saved = nil
	}
}
