// Package ubw drives a parallel-port style display bus through a USB Bit
// Whacker (firmware D 1.3 or later) attached as a serial device.
//
// Wiring: port A carries the control lines in the same bit positions as the
// PC control register, port B carries the 8 data lines, and port C is an input
// whose value is returned as the status register.
package ubw

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pardisplay/core"
	"pardisplay/host/serial"
)

// ErrUnsupportedFirmware is returned for firmware that does not acknowledge commands
var ErrUnsupportedFirmware = errors.New("unsupported UBW firmware")

// Port is a USB Bit Whacker presenting data, status and control registers.
// Register writes are shadowed locally since the firmware only sets whole ports.
type Port struct {
	conn    *serial.LineConn
	version string

	control core.ControlLine
	data    byte
}

var _ core.Port = (*Port)(nil)

// Open opens the serial device and initializes the bridge
func Open(cfg *serial.Config) (*Port, error) {
	link, err := serial.Open(cfg)
	if err != nil {
		return nil, core.UnavailableError("open", err)
	}

	p, err := New(link)
	if err != nil {
		link.Close()
		return nil, err
	}
	return p, nil
}

// New initializes a bridge on an already open link: it checks the firmware
// version, resets the device, configures ports A and B as outputs and port C
// as input, and drives every output low.
func New(link serial.Port) (*Port, error) {
	p := &Port{conn: serial.NewLineConn(link)}

	// stale replies from a previous session would desynchronize the exchange
	if err := p.conn.Reset(); err != nil {
		return nil, core.UnavailableError("flush", err)
	}

	version, err := p.conn.Exchange("V")
	if err != nil {
		return nil, core.UnavailableError("version", err)
	}
	if !supported(version) {
		return nil, core.UnavailableError("version", fmt.Errorf("%w: %q", ErrUnsupportedFirmware, version))
	}
	p.version = version

	if err := p.expectOK("reset", "R"); err != nil {
		return nil, err
	}
	if err := p.expectOK("configure", "C,0,0,255,0"); err != nil {
		return nil, err
	}
	if err := p.output(); err != nil {
		return nil, err
	}
	return p, nil
}

// supported reports whether the firmware acknowledges commands with OK.
// Versions that do not parse are assumed to be recent.
func supported(version string) bool {
	var major, minor, patch int
	if _, err := fmt.Sscanf(version, "UBW FW D Version %d.%d.%d", &major, &minor, &patch); err != nil {
		return true
	}
	return major > 1 || (major == 1 && minor >= 3)
}

// Version returns the firmware version reported at startup
func (p *Port) Version() string {
	return p.version
}

// WriteData drives port B
func (p *Port) WriteData(b byte) error {
	p.data = b
	return p.output()
}

// SetControl updates the control shadow and drives port A
func (p *Port) SetControl(mask, value core.ControlLine) error {
	p.control = p.control&^mask | value&mask
	return p.output()
}

// ReadStatus samples port C
func (p *Port) ReadStatus() (byte, error) {
	reply, err := p.conn.Exchange("I")
	if err != nil {
		return 0, core.IOError("read status", err)
	}

	fields := strings.Split(reply, ",")
	if len(fields) != 4 || fields[0] != "I" {
		return 0, core.IOError("read status", fmt.Errorf("malformed reply %q", reply))
	}
	status, err := strconv.ParseUint(strings.TrimSpace(fields[3]), 10, 8)
	if err != nil {
		return 0, core.IOError("read status", fmt.Errorf("malformed reply %q: %w", reply, err))
	}
	return byte(status), nil
}

// Close closes the serial link
func (p *Port) Close() error {
	return p.conn.Close()
}

func (p *Port) output() error {
	return p.expectOK("output", fmt.Sprintf("O,%d,%d,0", uint8(p.control), p.data))
}

func (p *Port) expectOK(op, cmd string) error {
	reply, err := p.conn.Exchange(cmd)
	if err != nil {
		return core.IOError(op, err)
	}
	if reply != "OK" {
		return core.IOError(op, fmt.Errorf("command %q: unexpected reply %q", cmd, reply))
	}
	return nil
}
