package core

// Command/data channel writer (Epson SED1330 family).
//
// Chip-select (CS) is carried on ControlInit and is active low. Address-select
// (A0) is carried on ControlSelect: clear for command bytes, set for data
// bytes. Every register write is followed by the settle delay.

// ChannelCommand sends a single command byte.
func ChannelCommand(port Port, cmd byte, t Timing) error {
	if err := selectChannel(port, 0, t); err != nil {
		return err
	}
	if err := port.WriteData(cmd); err != nil {
		return err
	}
	t.settle()
	return pulseStrobe(port, t)
}

// ChannelData sends data bytes. CS and A0 are set once for the whole sequence,
// so an empty sequence still selects the data channel.
func ChannelData(port Port, data []byte, t Timing) error {
	if err := selectChannel(port, ControlSelect, t); err != nil {
		return err
	}
	return strobeBytes(port, data, t)
}

// selectChannel asserts CS and sets A0 to a0.
func selectChannel(port Port, a0 ControlLine, t Timing) error {
	if err := port.SetControl(ControlInit, 0); err != nil {
		return err
	}
	t.settle()
	if err := port.SetControl(ControlSelect, a0); err != nil {
		return err
	}
	t.settle()
	return nil
}

// strobeBytes places each byte on the data lines and pulses strobe.
func strobeBytes(port Port, data []byte, t Timing) error {
	for _, b := range data {
		if err := port.WriteData(b); err != nil {
			return err
		}
		t.settle()
		if err := pulseStrobe(port, t); err != nil {
			return err
		}
	}
	return nil
}
