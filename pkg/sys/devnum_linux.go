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

package sys

import (
	"golang.org/x/sys/unix"
)

// getDeviceNumber returns major/minor of a block or character special file
// without following symbolic links.
func getDeviceNumber(path string) (major, minor uint32, isDevice bool, err error) {
	var stat unix.Stat_t
	if err = unix.Lstat(path, &stat); err != nil {
		return 0, 0, false, err
	}

	switch stat.Mode & unix.S_IFMT {
	case unix.S_IFBLK, unix.S_IFCHR:
	default:
		return 0, 0, false, nil
	}

	rdev := uint64(stat.Rdev)
	return unix.Major(rdev), unix.Minor(rdev), true, nil
}
