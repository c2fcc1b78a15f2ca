package serial

import (
	"io"
)

// Port represents a serial link to a USB bridge
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Scripted links (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush drops any buffered data in both directions
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC bridges ignore this)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns a configuration for a USB Bit Whacker on device
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 1000, // replies arrive well within a second
	}
}
