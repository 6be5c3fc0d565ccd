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
	"encoding/binary"
	"errors"
	"fmt"
)

var errNotMBR = errors.New("not a MBR")

var mbrSignature = [2]byte{0x55, 0xAA}

type mbrPartitionEntry struct {
	BootIndicator byte
	StartCHS      [3]byte
	PartitionType byte
	EndCHS        [3]byte
	FirstLBA      uint32
	NumSectors    uint32
}

type mbrHeader struct {
	BootCode         [440]byte
	DiskSignature    uint32
	_                uint16
	PartitionEntries [4]mbrPartitionEntry
	Signature        [2]byte
}

func (e mbrPartitionEntry) isValid() bool {
	return e.BootIndicator == 0x00 || e.BootIndicator == 0x80
}

func (s *deviceSession) probeMBR() (*PartitionTable, error) {
	var header mbrHeader
	if err := s.readAt(0, &header, binary.LittleEndian); err != nil {
		if isShortRead(err) {
			return nil, errNotMBR
		}
		return nil, err
	}

	if header.Signature != mbrSignature {
		return nil, errNotMBR
	}

	for _, entry := range header.PartitionEntries {
		if !entry.isValid() {
			return nil, errNotMBR
		}
	}

	return &PartitionTable{
		Type: "dos",
		ID:   fmt.Sprintf("%08x", header.DiskSignature),
	}, nil
}
