//go:build linux && (386 || amd64 || arm || arm64 || riscv64 || loong64)

package parport

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"

	"pardisplay/core"
)

// ioctl request encoding for the generic Linux layout
const (
	iocWrite = 1
	iocRead  = 2

	ppIoctlType = 'p'
)

func ioc(dir, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | ppIoctlType<<8 | nr
}

// ppdev requests, see linux/ppdev.h
var (
	ppClaim    = ioc(0, 0x8b, 0)
	ppRelease  = ioc(0, 0x8c, 0)
	ppExcl     = ioc(0, 0x8f, 0)
	ppRStatus  = ioc(iocRead, 0x81, 1)
	ppWData    = ioc(iocWrite, 0x86, 1)
	ppFControl = ioc(iocWrite, 0x8e, unsafe.Sizeof(frob{}))
)

// frob mirrors struct ppdev_frob_struct
type frob struct {
	mask uint8
	val  uint8
}

// Port is a claimed ppdev parallel port
type Port struct {
	fd  int
	cfg *Config
}

var _ core.Port = (*Port)(nil)

// Open opens and claims a parallel port
func Open(cfg *Config) (*Port, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	fd, err := unix.Open(cfg.Device, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, core.UnavailableError("open "+cfg.Device, err)
	}

	if cfg.Exclusive {
		if err := ioctl(fd, ppExcl, nil); err != nil {
			unix.Close(fd)
			return nil, core.UnavailableError("exclusive "+cfg.Device, err)
		}
	}
	if err := ioctl(fd, ppClaim, nil); err != nil {
		unix.Close(fd)
		return nil, core.UnavailableError("claim "+cfg.Device, err)
	}

	return &Port{fd: fd, cfg: cfg}, nil
}

// WriteData drives the data lines
func (p *Port) WriteData(b byte) error {
	if err := ioctl(p.fd, ppWData, unsafe.Pointer(&b)); err != nil {
		return core.IOError("write data", err)
	}
	return nil
}

// ReadStatus reads the status register
func (p *Port) ReadStatus() (byte, error) {
	var status byte
	if err := ioctl(p.fd, ppRStatus, unsafe.Pointer(&status)); err != nil {
		return 0, core.IOError("read status", err)
	}
	return status, nil
}

// SetControl changes the masked control register bits in one ioctl
func (p *Port) SetControl(mask, value core.ControlLine) error {
	f := frob{mask: uint8(mask), val: uint8(value)}
	if err := ioctl(p.fd, ppFControl, unsafe.Pointer(&f)); err != nil {
		return core.IOError("set control", err)
	}
	return nil
}

// Device returns the device path the port was opened from
func (p *Port) Device() string {
	return p.cfg.Device
}

// Close releases the port and closes the device
func (p *Port) Close() error {
	if p.fd < 0 {
		return nil
	}
	releaseErr := ioctl(p.fd, ppRelease, nil)
	closeErr := unix.Close(p.fd)
	p.fd = -1
	if releaseErr != nil {
		return core.IOError("release "+p.cfg.Device, releaseErr)
	}
	if closeErr != nil {
		return core.IOError("close "+p.cfg.Device, closeErr)
	}
	return nil
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
