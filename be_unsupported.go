//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package main

// Float32 sample buffers are reinterpreted as little-endian bytes for the
// audio device.
var _ = "Monotron requires a little-endian architecture" + 1
