// terminal_keys.go - Escape sequence decoding for terminal key input

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

// Cursor keys arrive from a raw terminal as ESC [ A..D. They map onto the
// same bindings the scope window gives its arrow keys.
var terminalArrowKeys = map[byte]byte{
	'A': '+', // up: volume
	'B': '-', // down: volume
	'C': ']', // right: pitch
	'D': '[', // left: pitch
}

type keyDecodeState uint8

const (
	keyPlain keyDecodeState = iota
	keyEscape
	keyCSI
)

// keyDecoder turns a raw terminal byte stream into controller keys.
type keyDecoder struct {
	state keyDecodeState
}

// feed consumes one input byte and reports the key to dispatch, if any.
func (d *keyDecoder) feed(b byte) (byte, bool) {
	switch d.state {
	case keyEscape:
		if b == '[' || b == 'O' {
			d.state = keyCSI
			return 0, false
		}
		d.state = keyPlain
	case keyCSI:
		// Parameter bytes (e.g. "1;5") precede the final byte.
		if b >= '0' && b <= '?' {
			return 0, false
		}
		d.state = keyPlain
		k, ok := terminalArrowKeys[b]
		return k, ok
	}

	switch b {
	case 0x1b:
		d.state = keyEscape
		return 0, false
	case '\r':
		// Raw mode sends CR for Enter.
		return '\n', true
	}
	return b, true
}
