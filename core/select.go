package core

// WriteSelect writes data using the persistent-select strobe protocol
// (Noritake GU300 family).
//
// The auxiliary select line (ControlAutoFeed) is raised once, then each byte is
// placed on the data lines and strobed. The select line is left raised when
// the call returns; callers that need it released must do so themselves.
func WriteSelect(port Port, data []byte, t Timing) error {
	if err := port.SetControl(ControlAutoFeed, ControlAutoFeed); err != nil {
		return err
	}
	t.settle()
	return strobeBytes(port, data, t)
}
