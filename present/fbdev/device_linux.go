// Copyright 2013 Konstantin Kulikov. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && !android

package fbdev

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/srlehn/lcdpipe/internal/errors"
)

const (
	getVariableScreenInfo = 0x4600 // FBIOGET_VSCREENINFO
	getFixedScreenInfo    = 0x4602 // FBIOGET_FSCREENINFO
)

// Open opens the framebuffer device and maps it to memory.
func Open(dev string) (*Device, error) {
	f, err := os.OpenFile(dev, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, errors.New(err)
	}
	var (
		finfo fixedScreenInfo
		vinfo variableScreenInfo
	)
	if err := ioctl(f.Fd(), getFixedScreenInfo, unsafe.Pointer(&finfo)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := ioctl(f.Fd(), getVariableScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
		_ = f.Close()
		return nil, err
	}
	size := int(finfo.SmemLen) + int(finfo.SmemStart&uintptr(unix.Getpagesize()-1))
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, errors.New(err)
	}
	d, err := newDevice(data, finfo, vinfo)
	if err != nil {
		_ = unix.Munmap(data)
		_ = f.Close()
		return nil, err
	}
	d.closer = func() error {
		return errors.Join(unix.Munmap(data), f.Close())
	}
	return d, nil
}

func ioctl(fd uintptr, cmd uintptr, data unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, cmd, uintptr(data))
	if errno != 0 {
		return errors.New(os.NewSyscallError(`IOCTL`, errno))
	}
	return nil
}
