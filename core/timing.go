package core

// SettleUnitsPerSpin is the number of delay units consumed by one spin iteration
const SettleUnitsPerSpin = 4

// Timing holds the hardware margins for one transfer. It is passed to every
// writer explicitly; there is no package-level delay setting.
type Timing struct {
	// SettleDelay is the pause after each register write, in delay units.
	// Zero disables the pause.
	SettleDelay int

	// BusyPollLimit caps the status reads per byte while waiting for the busy
	// flag to clear. Zero waits forever.
	BusyPollLimit int

	// Spin burns the given number of iterations. Nil uses SpinLoop.
	Spin func(iterations int)
}

// DefaultTiming returns the timing used when nothing is configured:
// no settle delay and an unbounded busy wait.
func DefaultTiming() Timing {
	return Timing{}
}

// SettleIterations returns the spin iterations performed after each register write
func (t Timing) SettleIterations() int {
	if t.SettleDelay <= 0 {
		return 0
	}
	return t.SettleDelay / SettleUnitsPerSpin
}

func (t Timing) settle() {
	n := t.SettleIterations()
	if n == 0 {
		return
	}
	if t.Spin != nil {
		t.Spin(n)
		return
	}
	SpinLoop(n)
}

// spinSink keeps the spin loop from being optimized away
var spinSink uint32

// SpinLoop busy-spins for the given number of iterations on the calling goroutine.
// It never yields or sleeps.
func SpinLoop(iterations int) {
	for i := 0; i < iterations; i++ {
		spinSink++
	}
}
