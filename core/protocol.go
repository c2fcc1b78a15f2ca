package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Protocol identifies one of the controller write protocols
type Protocol uint8

const (
	ProtocolBusy    Protocol = iota + 1 // busy/ready handshake
	ProtocolChannel                     // CS + A0 command/data channel
	ProtocolSelect                      // persistent select + strobe
)

var protocolNames = map[Protocol]string{
	ProtocolBusy:    "busy",
	ProtocolChannel: "channel",
	ProtocolSelect:  "select",
}

func (p Protocol) String() string {
	if name, ok := protocolNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Protocol(%d)", uint8(p))
}

// ParseProtocol accepts a protocol name ("busy", "channel", "select") or its
// letter ("a", "b", "c")
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "busy", "a":
		return ProtocolBusy, nil
	case "channel", "b":
		return ProtocolChannel, nil
	case "select", "c":
		return ProtocolSelect, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProtocol, s)
}

// HasCommandChannel reports whether the protocol distinguishes command bytes from data bytes
func (p Protocol) HasCommandChannel() bool {
	return p == ProtocolChannel
}

// Writer sends bytes to a controller using the selected protocol.
// It holds no per-port state, so one Writer may serve many ports in turn.
type Writer struct {
	Protocol Protocol
	Timing   Timing

	log *zerolog.Logger
}

// NewWriter returns a Writer for protocol p with logging disabled
func NewWriter(p Protocol, t Timing) *Writer {
	return &Writer{
		Protocol: p,
		Timing:   t,
	}
}

// WithLogger sets the logger used for per-transfer debug events
func (w *Writer) WithLogger(log zerolog.Logger) *Writer {
	l := log.With().Str("protocol", w.Protocol.String()).Logger()
	w.log = &l
	return w
}

// Write sends data. For ProtocolChannel the bytes go out as display data.
func (w *Writer) Write(port Port, data []byte) error {
	var err error
	switch w.Protocol {
	case ProtocolBusy:
		err = WriteBusy(port, data, w.Timing)
	case ProtocolChannel:
		err = ChannelData(port, data, w.Timing)
	case ProtocolSelect:
		err = WriteSelect(port, data, w.Timing)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownProtocol, w.Protocol)
	}
	w.logTransfer("write", len(data), err)
	return err
}

// Command sends a single command byte. Only ProtocolChannel supports this.
func (w *Writer) Command(port Port, cmd byte) error {
	if !w.Protocol.HasCommandChannel() {
		return fmt.Errorf("%w: %v", ErrNoCommandChannel, w.Protocol)
	}
	err := ChannelCommand(port, cmd, w.Timing)
	w.logTransfer("command", 1, err)
	return err
}

func (w *Writer) logTransfer(op string, n int, err error) {
	if w.log == nil {
		return
	}
	if err != nil {
		w.log.Warn().Err(err).Str("op", op).Int("bytes", n).Msg("transfer aborted")
		return
	}
	w.log.Debug().Str("op", op).Int("bytes", n).Msg("transfer")
}

// Bind returns an io.Writer that sends everything written to it through port.
func (w *Writer) Bind(port Port) io.Writer {
	return &boundWriter{w: w, port: port}
}

type boundWriter struct {
	w    *Writer
	port Port
}

// Write reports len(p) on success and 0 on failure, since a failed transfer
// gives no reliable count of latched bytes.
func (b *boundWriter) Write(p []byte) (int, error) {
	if err := b.w.Write(b.port, p); err != nil {
		return 0, err
	}
	return len(p), nil
}
