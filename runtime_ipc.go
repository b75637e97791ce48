// runtime_ipc.go - Unix domain socket control channel for a running session

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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const ipcMaxRequestSize = 4096

type ipcRequest struct {
	Cmd  string `json:"cmd"`
	Keys string `json:"keys,omitempty"`
	Path string `json:"path,omitempty"`
}

type ipcState struct {
	Volume      float64 `json:"volume"`
	PitchHz     float64 `json:"pitch_hz"`
	Harmonics   int     `json:"harmonics"`
	Sound       bool    `json:"sound"`
	SampleRate  int     `json:"sample_rate"`
	SampleIndex uint64  `json:"sample_index"`
	Trigger     float64 `json:"trigger"`
	Window      int     `json:"window"`
	RefreshMs   int     `json:"refresh_ms"`
	Backend     string  `json:"backend,omitempty"`
	Captures    uint64  `json:"captures"`
}

type ipcResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	State   *ipcState `json:"state,omitempty"`
}

// ipcHandler is the session side of the control socket.
type ipcHandler interface {
	sendKeys(keys string) error
	runScript(path string) error
	state() ipcState
}

// IPCServer listens on a Unix socket and dispatches control requests.
type IPCServer struct {
	listener net.Listener
	handler  ipcHandler
	done     chan struct{}
	sockPath string
}

func resolveSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "monotron.sock")
	}
	return filepath.Join(os.TempDir(), "monotron.sock")
}

// NewIPCServer creates and binds the control socket at the default path.
func NewIPCServer(handler ipcHandler) (*IPCServer, error) {
	return newIPCServerAt(resolveSocketPath(), handler)
}

func newIPCServerAt(sockPath string, handler ipcHandler) (*IPCServer, error) {
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		// Stale socket cleanup: try connecting. If peer is dead, remove and retry.
		conn, dialErr := net.DialTimeout("unix", sockPath, 2*time.Second)
		if dialErr != nil {
			os.Remove(sockPath)
			ln, err = net.Listen("unix", sockPath)
			if err != nil {
				return nil, fmt.Errorf("ipc bind failed: %w", err)
			}
		} else {
			conn.Close()
			return nil, fmt.Errorf("another session is already listening on %s", sockPath)
		}
	}
	return &IPCServer{listener: ln, handler: handler, done: make(chan struct{}), sockPath: sockPath}, nil
}

func (s *IPCServer) Start() {
	go s.acceptLoop()
}

// Stop closes the listener and waits for the accept loop to exit.
func (s *IPCServer) Stop() {
	s.listener.Close()
	<-s.done
	os.Remove(s.sockPath)
}

func (s *IPCServer) acceptLoop() {
	defer close(s.done)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *IPCServer) handleConn(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	var req ipcRequest
	dec := json.NewDecoder(io.LimitReader(conn, ipcMaxRequestSize))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		s.reply(conn, ipcResponse{Status: "err", Message: "invalid json"})
		return
	}
	s.reply(conn, s.dispatch(req))
}

// dispatch applies one request to the session. Every successful command
// answers with the state it left behind.
func (s *IPCServer) dispatch(req ipcRequest) ipcResponse {
	var err error
	switch req.Cmd {
	case "keys":
		err = s.handler.sendKeys(req.Keys)
	case "script":
		if err = validateIPCPath(req.Path); err == nil {
			err = s.handler.runScript(req.Path)
		}
	case "state":
	default:
		return ipcResponse{Status: "err", Message: "unknown command"}
	}
	if err != nil {
		return ipcResponse{Status: "err", Message: err.Error()}
	}
	st := s.handler.state()
	return ipcResponse{Status: "ok", State: &st}
}

func (s *IPCServer) reply(conn net.Conn, resp ipcResponse) {
	_ = json.NewEncoder(conn).Encode(resp)
}

func validateIPCPath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("absolute path required")
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".lua" {
		return fmt.Errorf("unsupported extension: %s", ext)
	}
	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("file not found: %s", path)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", path)
	}
	return nil
}

// SendIPC sends one request to the session listening at the default socket.
func SendIPC(req ipcRequest) (*ipcState, error) {
	return sendIPCAt(resolveSocketPath(), req)
}

// sendIPCAt waits as long as a script takes to run, so scripts sent this
// way should not loop forever.
func sendIPCAt(sockPath string, req ipcRequest) (*ipcState, error) {
	conn, err := net.DialTimeout("unix", sockPath, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to running session: %w", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("send failed: %w", err)
	}

	var resp ipcResponse
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("remote error: %s", resp.Message)
	}
	return resp.State, nil
}

// sessionControl serves control requests against the live session.
type sessionControl struct {
	ctx      context.Context
	keys     KeyHandler
	scripts  *ScriptHost
	params   *ParamChannel
	settings *ScopeSettings
}

func (c *sessionControl) sendKeys(keys string) error {
	var unbound []string
	for i := 0; i < len(keys); i++ {
		if !c.keys.HandleKey(keys[i]) {
			unbound = append(unbound, fmt.Sprintf("%q", keys[i]))
		}
	}
	if len(unbound) > 0 {
		return fmt.Errorf("unbound keys: %s", strings.Join(unbound, " "))
	}
	return nil
}

func (c *sessionControl) runScript(path string) error {
	return c.scripts.RunFile(c.ctx, path)
}

func (c *sessionControl) state() ipcState {
	st := c.params.State()
	trig := c.settings.Trigger()
	status := runtimeStatus.snapshot()
	return ipcState{
		Volume:      st.Volume(),
		PitchHz:     st.Pitch(),
		Harmonics:   st.Harmonics(),
		Sound:       st.SoundOn(),
		SampleRate:  st.SampleRate(),
		SampleIndex: st.SampleIndex(),
		Trigger:     trig.Threshold,
		Window:      trig.Window,
		RefreshMs:   c.settings.RefreshMs(),
		Backend:     status.backend,
		Captures:    status.captures,
	}
}
