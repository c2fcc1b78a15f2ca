package core

import "fmt"

type opKind int

const (
	opData opKind = iota
	opStatus
	opControl
	opSpin
)

// portOp is one recorded register operation (or settle spin)
type portOp struct {
	kind  opKind
	data  byte        // opData: value written, opStatus: value returned
	mask  ControlLine // opControl
	value ControlLine // opControl
	spins int         // opSpin
}

func (o portOp) String() string {
	switch o.kind {
	case opData:
		return fmt.Sprintf("data(%#02x)", o.data)
	case opStatus:
		return fmt.Sprintf("status->%#02x", o.data)
	case opControl:
		return fmt.Sprintf("control(%#02x,%#02x)", uint8(o.mask), uint8(o.value))
	case opSpin:
		return fmt.Sprintf("spin(%d)", o.spins)
	}
	return "?"
}

// fakePort records every register operation. After each data write it
// reports busy for busyFor status reads before reporting ready.
type fakePort struct {
	ops     []portOp
	control ControlLine

	busyFor   int
	remaining int

	failAt  int // fail the n-th recorded operation (1-based), 0 never fails
	failErr error
}

func (p *fakePort) record(op portOp) error {
	p.ops = append(p.ops, op)
	if p.failAt > 0 && len(p.ops) == p.failAt {
		return p.failErr
	}
	return nil
}

func (p *fakePort) WriteData(b byte) error {
	p.remaining = p.busyFor
	return p.record(portOp{kind: opData, data: b})
}

func (p *fakePort) ReadStatus() (byte, error) {
	status := byte(0x78)
	if p.remaining > 0 {
		p.remaining--
		status |= StatusBusy
	}
	if err := p.record(portOp{kind: opStatus, data: status}); err != nil {
		return 0, err
	}
	return status, nil
}

func (p *fakePort) SetControl(mask, value ControlLine) error {
	if err := p.record(portOp{kind: opControl, mask: mask, value: value}); err != nil {
		return err
	}
	p.control = p.control&^mask | value&mask
	return nil
}

// spinner returns a Spin func that logs each settle into the op trace
func (p *fakePort) spinner() func(int) {
	return func(n int) {
		p.ops = append(p.ops, portOp{kind: opSpin, spins: n})
	}
}

func (p *fakePort) count(match func(portOp) bool) int {
	n := 0
	for _, op := range p.ops {
		if match(op) {
			n++
		}
	}
	return n
}

func isStrobeHigh(op portOp) bool {
	return op.kind == opControl && op.mask == ControlStrobe && op.value == ControlStrobe
}

func isStrobeLow(op portOp) bool {
	return op.kind == opControl && op.mask == ControlStrobe && op.value == 0
}

func isDataWrite(op portOp) bool {
	return op.kind == opData
}

func controlOp(mask, value ControlLine) portOp {
	return portOp{kind: opControl, mask: mask, value: value}
}

func dataOp(b byte) portOp {
	return portOp{kind: opData, data: b}
}

func spinOp(n int) portOp {
	return portOp{kind: opSpin, spins: n}
}

func equalOps(a, b []portOp) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
