//go:build !windows

package main

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

func init() {
	compiledFeatures = append(compiledFeatures, "term:raw")
}

// keyPollInterval paces stdin polling while no key is waiting.
const keyPollInterval = 5 * time.Millisecond

// TerminalHost drives the controller from the keyboard of the launching
// terminal. stdin is switched to raw non-blocking mode so single keys
// arrive without Enter and the reader can notice Stop between reads.
type TerminalHost struct {
	keys KeyHandler
	fd   int

	saved    *term.State
	nonblock bool

	quit     chan struct{}
	quitOnce sync.Once
	exited   chan struct{}
}

func NewTerminalHost(keys KeyHandler) *TerminalHost {
	return &TerminalHost{
		keys:   keys,
		fd:     int(os.Stdin.Fd()),
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

// Start reports whether raw key input is active. On false the controller
// stays in line mode; Stop is safe to call in both cases.
func (h *TerminalHost) Start() bool {
	if err := h.enterRaw(); err != nil {
		fmt.Fprintf(os.Stderr, "monotron: keyboard control disabled: %v\n", err)
		h.leaveRaw()
		close(h.exited)
		return false
	}
	go h.readKeys()
	return true
}

func (h *TerminalHost) enterRaw() error {
	if !term.IsTerminal(h.fd) {
		return errors.New("stdin is not a terminal")
	}
	saved, err := term.MakeRaw(h.fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	h.saved = saved
	if err := syscall.SetNonblock(h.fd, true); err != nil {
		return fmt.Errorf("nonblocking stdin: %w", err)
	}
	h.nonblock = true
	return nil
}

func (h *TerminalHost) leaveRaw() {
	if h.nonblock {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblock = false
	}
	if h.saved != nil {
		_ = term.Restore(h.fd, h.saved)
		h.saved = nil
	}
}

func (h *TerminalHost) readKeys() {
	defer close(h.exited)
	var (
		dec keyDecoder
		one [1]byte
	)
	for {
		select {
		case <-h.quit:
			return
		default:
		}
		n, err := syscall.Read(h.fd, one[:])
		if n > 0 {
			if k, ok := dec.feed(one[0]); ok {
				h.keys.HandleKey(k)
			}
			continue
		}
		switch {
		case err == nil, errors.Is(err, syscall.EAGAIN), errors.Is(err, syscall.EWOULDBLOCK), errors.Is(err, syscall.EINTR):
			time.Sleep(keyPollInterval)
		default:
			return
		}
	}
}

// Stop waits for the reader to exit and hands the terminal back in the
// state it was found.
func (h *TerminalHost) Stop() {
	h.quitOnce.Do(func() { close(h.quit) })
	<-h.exited
	h.leaveRaw()
}
