package core

import (
	"errors"
	"testing"
)

func TestWriteBusySingleByte(t *testing.T) {
	port := &fakePort{busyFor: 2}

	if err := WriteBusy(port, []byte{0x41}, DefaultTiming()); err != nil {
		t.Fatalf("WriteBusy failed: %v", err)
	}

	expected := []portOp{
		dataOp(0x41),
		{kind: opStatus, data: 0x78 | StatusBusy},
		{kind: opStatus, data: 0x78 | StatusBusy},
		{kind: opStatus, data: 0x78},
		controlOp(ControlStrobe, ControlStrobe),
		controlOp(ControlStrobe, 0),
	}
	if !equalOps(port.ops, expected) {
		t.Errorf("Unexpected trace:\n got %v\nwant %v", port.ops, expected)
	}
}

func TestWriteBusyStrobePerByte(t *testing.T) {
	testCases := []struct {
		n       int
		busyFor int
	}{
		{1, 0},
		{2, 1},
		{5, 3},
		{64, 0},
		{200, 7},
	}

	for _, tc := range testCases {
		port := &fakePort{busyFor: tc.busyFor}
		data := make([]byte, tc.n)
		for i := range data {
			data[i] = byte(i)
		}

		if err := WriteBusy(port, data, DefaultTiming()); err != nil {
			t.Fatalf("WriteBusy(%d bytes) failed: %v", tc.n, err)
		}

		if got := port.count(isStrobeHigh); got != tc.n {
			t.Errorf("%d bytes: expected %d strobe pulses, got %d", tc.n, tc.n, got)
		}
		if got := port.count(isStrobeLow); got != tc.n {
			t.Errorf("%d bytes: expected %d strobe releases, got %d", tc.n, tc.n, got)
		}

		// every strobe must directly follow a status read that showed ready
		for i, op := range port.ops {
			if !isStrobeHigh(op) {
				continue
			}
			if i == 0 {
				t.Fatalf("%d bytes: strobe issued before any status read", tc.n)
			}
			prev := port.ops[i-1]
			if prev.kind != opStatus || prev.data&StatusBusy != 0 {
				t.Errorf("%d bytes: strobe at %d not preceded by a ready status read (got %v)", tc.n, i, prev)
			}
		}
	}
}

func TestWriteBusyEmpty(t *testing.T) {
	port := &fakePort{}

	if err := WriteBusy(port, nil, DefaultTiming()); err != nil {
		t.Fatalf("WriteBusy(nil) failed: %v", err)
	}
	if err := WriteBusy(port, []byte{}, DefaultTiming()); err != nil {
		t.Fatalf("WriteBusy(empty) failed: %v", err)
	}
	if len(port.ops) != 0 {
		t.Errorf("Expected no port operations, got %v", port.ops)
	}
}

func TestWriteBusyNeverTouchesSelectLines(t *testing.T) {
	port := &fakePort{busyFor: 1}

	if err := WriteBusy(port, []byte("hello"), DefaultTiming()); err != nil {
		t.Fatalf("WriteBusy failed: %v", err)
	}
	for _, op := range port.ops {
		if op.kind == opControl && op.mask != ControlStrobe {
			t.Errorf("Unexpected control operation %v", op)
		}
	}
	if port.control != 0 {
		t.Errorf("Expected idle control register, got %#02x", port.control)
	}
}

func TestWriteBusyIgnoresSettleDelay(t *testing.T) {
	port := &fakePort{}
	timing := Timing{SettleDelay: 400, Spin: port.spinner()}

	if err := WriteBusy(port, []byte{1, 2, 3}, timing); err != nil {
		t.Fatalf("WriteBusy failed: %v", err)
	}
	if n := port.count(func(op portOp) bool { return op.kind == opSpin }); n != 0 {
		t.Errorf("Expected no settle spins, got %d", n)
	}
}

func TestWriteBusyPollLimit(t *testing.T) {
	port := &fakePort{busyFor: 1000}
	timing := Timing{BusyPollLimit: 3}

	err := WriteBusy(port, []byte{0x10, 0x11}, timing)
	if !errors.Is(err, ErrBusyTimeout) {
		t.Fatalf("Expected ErrBusyTimeout, got %v", err)
	}

	if n := port.count(func(op portOp) bool { return op.kind == opStatus }); n != 3 {
		t.Errorf("Expected 3 status reads, got %d", n)
	}
	if n := port.count(isStrobeHigh); n != 0 {
		t.Errorf("Expected no strobe after timeout, got %d", n)
	}
	if n := port.count(isDataWrite); n != 1 {
		t.Errorf("Expected transfer to stop after first byte, got %d data writes", n)
	}
}

func TestWriteBusyPollLimitNotReached(t *testing.T) {
	port := &fakePort{busyFor: 2}
	timing := Timing{BusyPollLimit: 3}

	if err := WriteBusy(port, []byte{0x10, 0x11}, timing); err != nil {
		t.Fatalf("WriteBusy failed: %v", err)
	}
	if n := port.count(isStrobeHigh); n != 2 {
		t.Errorf("Expected 2 strobes, got %d", n)
	}
}
