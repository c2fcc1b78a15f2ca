// Package parport gives raw register access to a PC parallel port through the
// Linux ppdev driver (/dev/parportN).
package parport

// Config holds parallel port configuration
type Config struct {
	// Device path (e.g., "/dev/parport0")
	Device string

	// Exclusive asks ppdev for exclusive access, keeping other parport
	// drivers (lp) off the port while it is claimed
	Exclusive bool
}

// DefaultConfig returns the configuration for the first parallel port
func DefaultConfig() *Config {
	return &Config{
		Device:    "/dev/parport0",
		Exclusive: true,
	}
}
