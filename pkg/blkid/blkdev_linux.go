//go:build linux

// This file is part of MinIO DriveMap
// Copyright (c) 2026 MinIO, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package blkid

import (
	"os"
	"unsafe"

	"github.com/dswarbrick/smart/ioctl"
	"golang.org/x/sys/unix"
)

// BLKGETSIZE64 from <linux/fs.h>
var blkGetSize64 = ioctl.Ior(0x12, 114, unsafe.Sizeof(uint64(0)))

func getLogicalSectorSize(file *os.File) (int, error) {
	return unix.IoctlGetInt(int(file.Fd()), unix.BLKSSZGET)
}

func getDeviceSize(file *os.File) (uint64, error) {
	var size uint64
	if err := ioctl.Ioctl(file.Fd(), blkGetSize64, uintptr(unsafe.Pointer(&size))); err != nil {
		return 0, err
	}
	return size, nil
}
