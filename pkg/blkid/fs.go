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
	"bytes"
	"encoding/binary"

	"github.com/google/uuid"
)

const (
	xfsMagic   = 0x58465342 // "XFSB"
	ext4Magic  = 0xEF53
	dynamicRev = 1

	swapSignature     = "SWAPSPACE2"
	swapMaxPageSize   = 64 * 1024
	swapHeaderOffset  = 1024 // after boot bits
	swapHeaderVersion = 1
)

type xfsSuperBlock struct {
	MagicNumber uint32
	BlockSize   uint32
	TotalBlocks uint64
	RBlocks     uint64
	RExtents    uint64
	UUID        [16]byte
}

// ext2/3/4 superblock up to s_volume_name, located 1024 bytes into the device.
type ext4SuperBlock struct {
	_          [0x38]byte
	Magic      uint16
	_          [0x12]byte
	RevLevel   uint32
	_          [0x18]byte
	UUID       [16]byte
	VolumeName [16]byte
}

func (s *deviceSession) probeXFS() (*Filesystem, error) {
	var sb xfsSuperBlock
	if err := s.readAt(0, &sb, binary.BigEndian); err != nil {
		if isShortRead(err) {
			return nil, ErrFSNotFound
		}
		return nil, err
	}

	if sb.MagicNumber != xfsMagic {
		return nil, ErrFSNotFound
	}

	return &Filesystem{Type: "xfs", UUID: uuid.UUID(sb.UUID).String()}, nil
}

func (s *deviceSession) probeExt4() (*Filesystem, error) {
	var sb ext4SuperBlock
	if err := s.readAt(1024, &sb, binary.LittleEndian); err != nil {
		if isShortRead(err) {
			return nil, ErrFSNotFound
		}
		return nil, err
	}

	if sb.Magic != ext4Magic {
		return nil, ErrFSNotFound
	}

	// Old revision superblocks carry no UUID.
	id := uuid.Nil
	if sb.RevLevel >= dynamicRev {
		id = uuid.UUID(sb.UUID)
	}

	return &Filesystem{Type: "ext4", UUID: id.String()}, nil
}

// swap header from util-linux include/swapheader.h; fields are in the byte
// order of the host which made it.
type swapHeader struct {
	Version    uint32
	LastPage   uint32
	NrBadPages uint32
	UUID       [16]byte
	VolumeName [16]byte
}

func (s *deviceSession) probeSwap() (*Filesystem, error) {
	data := make([]byte, swapMaxPageSize)
	n, err := s.file.ReadAt(data, 0)
	if err != nil && !isShortRead(err) {
		return nil, err
	}
	data = data[:n]

	found := false
	for page := 0x1000; page <= swapMaxPageSize; page <<= 1 {
		// 32k page size is not supported
		if page == 0x8000 {
			continue
		}

		offset := page - len(swapSignature)
		if len(data) < page {
			break
		}
		if bytes.HasPrefix(data[offset:], []byte(swapSignature)) {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrFSNotFound
	}

	var header swapHeader
	reader := bytes.NewReader(data[swapHeaderOffset:])
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		if isShortRead(err) {
			return nil, ErrFSNotFound
		}
		return nil, err
	}

	switch {
	case header.Version == swapHeaderVersion:
	case header.Version == swapHeaderVersion<<24: // big-endian host
	default:
		return nil, ErrFSNotFound
	}

	return &Filesystem{Type: "swap", UUID: uuid.UUID(header.UUID).String()}, nil
}
