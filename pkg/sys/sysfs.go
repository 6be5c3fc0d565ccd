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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/minio/drivemap/pkg/consts"
)

const sectorSize = 512

func readFirstLine(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	s, err := bufio.NewReader(file).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// parseMajorMinor parses "<major>:<minor>" as found in sysfs "dev" attribute files.
func parseMajorMinor(majorMinor string) (major, minor uint32, err error) {
	tokens := strings.SplitN(majorMinor, ":", 2)
	if len(tokens) != 2 {
		return 0, 0, fmt.Errorf("unknown format of %q", majorMinor)
	}

	ui64, err := strconv.ParseUint(tokens[0], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid major in %q; %w", majorMinor, err)
	}
	major = uint32(ui64)

	if ui64, err = strconv.ParseUint(tokens[1], 10, 32); err != nil {
		return 0, 0, fmt.Errorf("invalid minor in %q; %w", majorMinor, err)
	}
	minor = uint32(ui64)

	return major, minor, nil
}

func readDeviceSize(sysClassBlockDir, name string) (uint64, error) {
	s, err := readFirstLine(filepath.Join(sysClassBlockDir, name, "size"))
	if err != nil {
		return 0, err
	}

	sectors, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q of %v; %w", s, name, err)
	}
	return sectors * sectorSize, nil
}

// GetDeviceSize returns size in bytes of block device name.
func GetDeviceSize(name string) (uint64, error) {
	return readDeviceSize(consts.SysClassBlock, name)
}
