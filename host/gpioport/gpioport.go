// Package gpioport bit-bangs the parallel port registers on GPIO pins, for
// displays wired straight to a single-board computer header.
//
// Register bits are driven as-is: a set bit is a high pin. The inversions a
// PC parallel port applies to strobe, autofeed and select do not exist here.
package gpioport

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"pardisplay/core"
)

// Pins is the set of GPIO lines standing in for the port registers
type Pins struct {
	Data [8]gpio.PinOut // D0..D7

	Strobe   gpio.PinOut
	AutoFeed gpio.PinOut
	Init     gpio.PinOut
	Select   gpio.PinOut

	// Busy is sampled as the status busy flag. Nil reports never busy.
	Busy gpio.PinIn
}

// Config names the pins as known to periph's gpioreg (e.g. "GPIO17")
type Config struct {
	Data     [8]string
	Strobe   string
	AutoFeed string
	Init     string
	Select   string
	Busy     string // optional
}

// Port drives the register lines on GPIO pins
type Port struct {
	pins    Pins
	control core.ControlLine
}

var _ core.Port = (*Port)(nil)

// Open initializes the periph host drivers, resolves the configured pin
// names and returns a port with every output low
func Open(cfg *Config) (*Port, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if _, err := host.Init(); err != nil {
		return nil, core.UnavailableError("gpio host init", err)
	}

	var pins Pins
	var err error
	for i, name := range cfg.Data {
		if pins.Data[i], err = lookup(fmt.Sprintf("D%d", i), name); err != nil {
			return nil, err
		}
	}
	if pins.Strobe, err = lookup("strobe", cfg.Strobe); err != nil {
		return nil, err
	}
	if pins.AutoFeed, err = lookup("autofeed", cfg.AutoFeed); err != nil {
		return nil, err
	}
	if pins.Init, err = lookup("init", cfg.Init); err != nil {
		return nil, err
	}
	if pins.Select, err = lookup("select", cfg.Select); err != nil {
		return nil, err
	}
	if cfg.Busy != "" {
		if pins.Busy, err = lookup("busy", cfg.Busy); err != nil {
			return nil, err
		}
	}

	return New(pins)
}

func lookup(role, name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, core.UnavailableError("gpio "+role, errors.New("no pin configured"))
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, core.UnavailableError("gpio "+role, fmt.Errorf("pin %q not found", name))
	}
	return p, nil
}

// New takes over already resolved pins and drives every output low
func New(pins Pins) (*Port, error) {
	for i, p := range pins.Data {
		if p == nil {
			return nil, fmt.Errorf("data pin D%d is nil", i)
		}
	}
	if pins.Strobe == nil || pins.AutoFeed == nil || pins.Init == nil || pins.Select == nil {
		return nil, errors.New("control pins must all be set")
	}

	port := &Port{pins: pins}
	if err := port.WriteData(0); err != nil {
		return nil, err
	}
	if err := port.drive(core.ControlStrobe|core.ControlAutoFeed|core.ControlInit|core.ControlSelect, 0); err != nil {
		return nil, err
	}
	if pins.Busy != nil {
		if err := pins.Busy.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return nil, core.UnavailableError("gpio busy input", err)
		}
	}
	return port, nil
}

// WriteData drives D0..D7 with the bits of b
func (p *Port) WriteData(b byte) error {
	for i, pin := range p.pins.Data {
		if err := pin.Out(gpio.Level(b&(1<<uint(i)) != 0)); err != nil {
			return core.IOError("write data", err)
		}
	}
	return nil
}

// ReadStatus returns StatusBusy while the busy pin is high
func (p *Port) ReadStatus() (byte, error) {
	if p.pins.Busy == nil {
		return 0, nil
	}
	if p.pins.Busy.Read() == gpio.High {
		return core.StatusBusy, nil
	}
	return 0, nil
}

// SetControl drives the masked control pins
func (p *Port) SetControl(mask, value core.ControlLine) error {
	return p.drive(mask, value)
}

func (p *Port) drive(mask, value core.ControlLine) error {
	lines := []struct {
		line core.ControlLine
		pin  gpio.PinOut
	}{
		{core.ControlStrobe, p.pins.Strobe},
		{core.ControlAutoFeed, p.pins.AutoFeed},
		{core.ControlInit, p.pins.Init},
		{core.ControlSelect, p.pins.Select},
	}
	for _, l := range lines {
		if mask&l.line == 0 {
			continue
		}
		if err := l.pin.Out(gpio.Level(value&l.line != 0)); err != nil {
			return core.IOError("set control", err)
		}
		p.control = p.control&^l.line | value&l.line
	}
	return nil
}

// Control returns the last value driven on the control pins
func (p *Port) Control() core.ControlLine {
	return p.control
}
