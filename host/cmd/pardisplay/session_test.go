package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"pardisplay/core"
)

// recordingPort keeps the bytes latched by each strobe pulse
type recordingPort struct {
	data    byte
	control core.ControlLine
	latched []byte
	status  byte
}

func (p *recordingPort) WriteData(b byte) error {
	p.data = b
	return nil
}

func (p *recordingPort) ReadStatus() (byte, error) {
	return p.status, nil
}

func (p *recordingPort) SetControl(mask, value core.ControlLine) error {
	next := p.control&^mask | value&mask
	if p.control&core.ControlStrobe != 0 && next&core.ControlStrobe == 0 {
		p.latched = append(p.latched, p.data)
	}
	p.control = next
	return nil
}

func newTestSession(protocol core.Protocol) (*session, *recordingPort, *bytes.Buffer) {
	port := &recordingPort{}
	out := &bytes.Buffer{}
	return &session{
		port:   port,
		writer: core.NewWriter(protocol, core.DefaultTiming()),
		out:    out,
	}, port, out
}

func TestSessionData(t *testing.T) {
	s, port, out := newTestSession(core.ProtocolSelect)

	if err := s.execLine("data 0x41 66 0b11 0o7"); err != nil {
		t.Fatalf("execLine failed: %v", err)
	}
	if !bytes.Equal(port.latched, []byte{0x41, 66, 3, 7}) {
		t.Errorf("Unexpected latched bytes: %v", port.latched)
	}
	if !strings.Contains(out.String(), "Wrote 4 bytes") {
		t.Errorf("Unexpected output: %q", out.String())
	}
}

func TestSessionTextQuoted(t *testing.T) {
	s, port, _ := newTestSession(core.ProtocolBusy)

	if err := s.execLine(`text "hello  world" !`); err != nil {
		t.Fatalf("execLine failed: %v", err)
	}
	if string(port.latched) != "hello  world !" {
		t.Errorf("Unexpected latched text: %q", port.latched)
	}
}

func TestSessionCommand(t *testing.T) {
	s, port, _ := newTestSession(core.ProtocolChannel)

	if err := s.execLine("cmd 0x42"); err != nil {
		t.Fatalf("execLine failed: %v", err)
	}
	if !bytes.Equal(port.latched, []byte{0x42}) {
		t.Errorf("Unexpected latched bytes: %v", port.latched)
	}
	if port.control&core.ControlSelect != 0 {
		t.Error("Expected A0 in command state")
	}

	s, _, _ = newTestSession(core.ProtocolSelect)
	if err := s.execLine("cmd 0x42"); !errors.Is(err, core.ErrNoCommandChannel) {
		t.Errorf("Expected ErrNoCommandChannel, got %v", err)
	}
}

func TestSessionStatus(t *testing.T) {
	s, port, out := newTestSession(core.ProtocolBusy)
	port.status = 0xF8

	if err := s.execLine("status"); err != nil {
		t.Fatalf("execLine failed: %v", err)
	}
	if !strings.Contains(out.String(), "busy=true") {
		t.Errorf("Unexpected output: %q", out.String())
	}
}

func TestSessionErrors(t *testing.T) {
	s, port, _ := newTestSession(core.ProtocolChannel)

	testCases := []string{
		"data 256",
		"data zz",
		"cmd",
		"cmd 1 2",
		"frobnicate",
		`text "unterminated`,
	}
	for _, line := range testCases {
		if err := s.execLine(line); err == nil {
			t.Errorf("%q: expected error", line)
		}
	}
	if len(port.latched) != 0 {
		t.Errorf("Expected nothing written, got %v", port.latched)
	}
}

func TestSessionQuitAndBlank(t *testing.T) {
	s, _, _ := newTestSession(core.ProtocolBusy)

	if err := s.execLine("   "); err != nil {
		t.Errorf("Blank line returned %v", err)
	}
	for _, line := range []string{"quit", "exit", "q"} {
		if err := s.execLine(line); !errors.Is(err, errQuit) {
			t.Errorf("%q: expected errQuit, got %v", line, err)
		}
	}
}

func TestSessionHelpAndControllers(t *testing.T) {
	s, _, out := newTestSession(core.ProtocolBusy)

	if err := s.execLine("help"); err != nil {
		t.Fatalf("help failed: %v", err)
	}
	if err := s.execLine("controllers"); err != nil {
		t.Fatalf("controllers failed: %v", err)
	}
	if !strings.Contains(out.String(), "Available commands") || !strings.Contains(out.String(), "SED1335") {
		t.Errorf("Unexpected output: %q", out.String())
	}
}
