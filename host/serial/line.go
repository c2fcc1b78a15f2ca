package serial

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoReply is returned when the link closes or times out before a reply line arrives
var ErrNoReply = errors.New("no reply")

// LineConn runs a request/reply exchange of text lines over a Port.
// Commands are terminated with "\n"; replies may end in "\n" or "\r\n".
type LineConn struct {
	port   Port
	reader *bufio.Reader
}

// NewLineConn wraps port
func NewLineConn(port Port) *LineConn {
	return &LineConn{
		port:   port,
		reader: bufio.NewReader(port),
	}
}

// Exchange sends one command line and returns the next reply line without
// its terminator
func (c *LineConn) Exchange(cmd string) (string, error) {
	if _, err := c.port.Write([]byte(cmd + "\n")); err != nil {
		return "", fmt.Errorf("write %q: %w", cmd, err)
	}

	line, err := c.reader.ReadString('\n')
	if err != nil {
		// tarm/serial reports a read timeout as io.EOF
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reply to %q: %w", cmd, ErrNoReply)
		}
		return "", fmt.Errorf("reply to %q: %w", cmd, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Reset drops buffered input on both the port and the reader
func (c *LineConn) Reset() error {
	c.reader.Reset(c.port)
	return c.port.Flush()
}

// Close closes the underlying port
func (c *LineConn) Close() error {
	return c.port.Close()
}
