package core

// ControlLine is a bit (or set of bits) in the parallel port control register.
// Values match the PC control register layout used by the Linux parport layer.
type ControlLine uint8

const (
	// ControlStrobe latches the data lines on its high-to-low transition (pin 1)
	ControlStrobe ControlLine = 0x01

	// ControlAutoFeed is the auxiliary select line (pin 14)
	ControlAutoFeed ControlLine = 0x02

	// ControlInit carries chip-select for command/data controllers (pin 16)
	ControlInit ControlLine = 0x04

	// ControlSelect carries address-select (A0) for command/data controllers (pin 17)
	ControlSelect ControlLine = 0x08
)

// StatusBusy is the busy flag in the status register.
// The controller is busy while this bit is set.
const StatusBusy byte = 0x80

// Port is the raw register access a protocol writer borrows for one transfer.
// Backends handle the actual hardware (ppdev, USB bridge, GPIO).
//
// Implementations are not required to be safe for concurrent use.
type Port interface {
	// WriteData drives the 8 data lines with b
	WriteData(b byte) error

	// ReadStatus reads the status register
	ReadStatus() (byte, error)

	// SetControl sets the control bits selected by mask to the matching bits
	// of value, leaving the other bits unchanged
	SetControl(mask, value ControlLine) error
}

// pulseStrobe raises then lowers the strobe line, settling after each edge.
func pulseStrobe(port Port, t Timing) error {
	if err := port.SetControl(ControlStrobe, ControlStrobe); err != nil {
		return err
	}
	t.settle()
	if err := port.SetControl(ControlStrobe, 0); err != nil {
		return err
	}
	t.settle()
	return nil
}
