package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Controller describes a display controller family and the protocol its
// parallel interface speaks
type Controller struct {
	Name        string
	Protocol    Protocol
	Description string
}

// Known controllers, keyed by upper-case name
var controllers = make(map[string]Controller)

func init() {
	for _, c := range []Controller{
		{Name: "GU3900", Protocol: ProtocolBusy, Description: "Noritake GU3900 series VFD"},
		{Name: "SED1330", Protocol: ProtocolChannel, Description: "Epson SED1330 LCD controller"},
		{Name: "SED1335", Protocol: ProtocolChannel, Description: "Epson SED1335 LCD controller"},
		{Name: "SED133X", Protocol: ProtocolChannel, Description: "Epson SED133x LCD controller"},
		{Name: "S1D13305", Protocol: ProtocolChannel, Description: "Epson S1D13305 LCD controller"},
		{Name: "GU300", Protocol: ProtocolSelect, Description: "Noritake GU300 series VFD"},
		{Name: "GU355", Protocol: ProtocolSelect, Description: "Noritake GU355 VFD"},
		{Name: "GU372", Protocol: ProtocolSelect, Description: "Noritake GU372 VFD"},
	} {
		if err := RegisterController(c); err != nil {
			panic(err)
		}
	}
}

// RegisterController adds a controller family. Names are case-insensitive.
func RegisterController(c Controller) error {
	if c.Name == "" {
		return errors.New("controller name is required")
	}
	if _, ok := protocolNames[c.Protocol]; !ok {
		return fmt.Errorf("controller %s: %w: %v", c.Name, ErrUnknownProtocol, c.Protocol)
	}

	key := strings.ToUpper(c.Name)
	if _, exists := controllers[key]; exists {
		return fmt.Errorf("controller %s already registered", c.Name)
	}
	controllers[key] = c
	return nil
}

// LookupController finds a controller family by name
func LookupController(name string) (Controller, error) {
	c, ok := controllers[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Controller{}, fmt.Errorf("%w: %q", ErrUnknownController, name)
	}
	return c, nil
}

// Controllers returns all registered controllers sorted by name
func Controllers() []Controller {
	list := make([]Controller, 0, len(controllers))
	for _, c := range controllers {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
