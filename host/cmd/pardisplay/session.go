package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"pardisplay/core"
)

var errQuit = errors.New("quit")

// session runs display commands against one open port
type session struct {
	port   core.Port
	writer *core.Writer
	out    io.Writer
}

// execLine splits an interactive line with shell quoting rules and runs it
func (s *session) execLine(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse %q: %w", line, err)
	}
	if len(args) == 0 {
		return nil
	}
	return s.exec(args[0], args[1:])
}

func (s *session) exec(cmd string, args []string) error {
	switch cmd {
	case "quit", "exit", "q":
		return errQuit

	case "help", "?":
		printHelp(s.out)
		return nil

	case "cmd", "command":
		if len(args) != 1 {
			return errors.New("usage: cmd <byte>")
		}
		b, err := parseByte(args[0])
		if err != nil {
			return err
		}
		return s.writer.Command(s.port, b)

	case "data", "write":
		data, err := parseBytes(args)
		if err != nil {
			return err
		}
		if err := s.writer.Write(s.port, data); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Wrote %d bytes\n", len(data))
		return nil

	case "text":
		text := strings.Join(args, " ")
		if err := s.writer.Write(s.port, []byte(text)); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Wrote %d bytes\n", len(text))
		return nil

	case "status":
		status, err := s.port.ReadStatus()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Status: %#02x busy=%v\n", status, status&core.StatusBusy != 0)
		return nil

	case "controllers":
		printControllers(s.out)
		return nil
	}
	return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
}

// parseByte accepts decimal, 0x hex, 0o octal or 0b binary values
func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q: %w", s, err)
	}
	return byte(v), nil
}

func parseBytes(args []string) ([]byte, error) {
	data := make([]byte, 0, len(args))
	for _, a := range args {
		b, err := parseByte(a)
		if err != nil {
			return nil, err
		}
		data = append(data, b)
	}
	return data, nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "\nAvailable commands:")
	fmt.Fprintln(w, "  cmd <byte>        - Send a command byte (channel protocol only)")
	fmt.Fprintln(w, "  data <byte>...    - Send data bytes (e.g. data 0x41 66 0b1)")
	fmt.Fprintln(w, "  text <string>     - Send the bytes of a string")
	fmt.Fprintln(w, "  status            - Read the status register")
	fmt.Fprintln(w, "  controllers       - List known controllers")
	fmt.Fprintln(w, "  help              - Show this help message")
	fmt.Fprintln(w, "  quit/exit/q       - Exit the program")
	fmt.Fprintln(w)
}

func printControllers(w io.Writer) {
	for _, c := range core.Controllers() {
		fmt.Fprintf(w, "  %-10s %-8s %s\n", c.Name, c.Protocol, c.Description)
	}
}
