package core

// WriteBusy writes data using the busy/ready handshake (Noritake GU3900 family).
//
// Each byte is placed on the data lines, then the status register is polled
// until the busy flag clears, then strobe is pulsed high then low. There is
// no chip-select or address-select management.
//
// With a zero BusyPollLimit a controller that never clears busy blocks this
// call forever.
func WriteBusy(port Port, data []byte, t Timing) error {
	for _, b := range data {
		if err := port.WriteData(b); err != nil {
			return err
		}
		if err := waitReady(port, t.BusyPollLimit); err != nil {
			return err
		}
		// strobe
		if err := port.SetControl(ControlStrobe, ControlStrobe); err != nil {
			return err
		}
		if err := port.SetControl(ControlStrobe, 0); err != nil {
			return err
		}
	}
	return nil
}

// waitReady spins on the status register until the busy flag is clear.
// limit <= 0 means no limit.
func waitReady(port Port, limit int) error {
	for polls := 1; ; polls++ {
		status, err := port.ReadStatus()
		if err != nil {
			return err
		}
		if status&StatusBusy == 0 {
			return nil
		}
		if limit > 0 && polls >= limit {
			return ErrBusyTimeout
		}
	}
}
