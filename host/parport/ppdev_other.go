//go:build !linux || !(386 || amd64 || arm || arm64 || riscv64 || loong64)

package parport

import (
	"errors"

	"pardisplay/core"
)

var errUnsupported = errors.New("ppdev is not supported on this platform")

// Port is unavailable on this platform
type Port struct{}

var _ core.Port = (*Port)(nil)

// Open always fails with core.ErrPortUnavailable
func Open(cfg *Config) (*Port, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	return nil, core.UnavailableError("open "+cfg.Device, errUnsupported)
}

func (p *Port) WriteData(b byte) error {
	return core.UnavailableError("write data", errUnsupported)
}

func (p *Port) ReadStatus() (byte, error) {
	return 0, core.UnavailableError("read status", errUnsupported)
}

func (p *Port) SetControl(mask, value core.ControlLine) error {
	return core.UnavailableError("set control", errUnsupported)
}

func (p *Port) Device() string {
	return ""
}

func (p *Port) Close() error {
	return nil
}
