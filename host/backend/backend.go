// Package backend opens the port backend named in the configuration.
package backend

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"pardisplay/core"
	"pardisplay/host/config"
	"pardisplay/host/gpioport"
	"pardisplay/host/parport"
	"pardisplay/host/serial"
	"pardisplay/host/ubw"
)

// Port is an open backend: register access plus release of the device
type Port interface {
	core.Port
	io.Closer
}

// Open opens the backend selected by cfg.Backend
func Open(cfg *config.Config, log zerolog.Logger) (Port, error) {
	log = log.With().Str("backend", cfg.Backend).Logger()

	var (
		port   Port
		device string
		err    error
	)
	switch cfg.Backend {
	case config.BackendPPDev:
		device = cfg.PPDev.Device
		port, err = parport.Open(PPDevConfig(cfg))
	case config.BackendUBW:
		device = cfg.UBW.Device
		var p *ubw.Port
		if p, err = ubw.Open(UBWConfig(cfg)); err == nil {
			log.Debug().Str("firmware", p.Version()).Msg("bit whacker ready")
			port = p
		}
	case config.BackendGPIO:
		device = "gpio"
		var gcfg *gpioport.Config
		if gcfg, err = GPIOConfig(cfg); err == nil {
			var p *gpioport.Port
			if p, err = gpioport.Open(gcfg); err == nil {
				port = nopCloser{p}
			}
		}
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().Str("device", device).Msg("port opened")
	return port, nil
}

// PPDevConfig extracts the ppdev settings
func PPDevConfig(cfg *config.Config) *parport.Config {
	pcfg := parport.DefaultConfig()
	pcfg.Device = cfg.PPDev.Device
	if cfg.PPDev.Exclusive != nil {
		pcfg.Exclusive = *cfg.PPDev.Exclusive
	}
	return pcfg
}

// UBWConfig extracts the serial link settings for the bit whacker
func UBWConfig(cfg *config.Config) *serial.Config {
	scfg := serial.DefaultConfig(cfg.UBW.Device)
	if cfg.UBW.Baud != 0 {
		scfg.Baud = cfg.UBW.Baud
	}
	if cfg.UBW.ReadTimeoutMS != 0 {
		scfg.ReadTimeout = cfg.UBW.ReadTimeoutMS
	}
	return scfg
}

// GPIOConfig extracts the GPIO pin names
func GPIOConfig(cfg *config.Config) (*gpioport.Config, error) {
	if len(cfg.GPIO.Data) != 8 {
		return nil, fmt.Errorf("gpio backend needs 8 data pins, got %d", len(cfg.GPIO.Data))
	}
	gcfg := &gpioport.Config{
		Strobe:   cfg.GPIO.Strobe,
		AutoFeed: cfg.GPIO.AutoFeed,
		Init:     cfg.GPIO.Init,
		Select:   cfg.GPIO.Select,
		Busy:     cfg.GPIO.Busy,
	}
	copy(gcfg.Data[:], cfg.GPIO.Data)
	return gcfg, nil
}

// nopCloser adapts a port that holds no device handle
type nopCloser struct {
	core.Port
}

func (nopCloser) Close() error { return nil }
