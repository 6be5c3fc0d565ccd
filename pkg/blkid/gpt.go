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
	"hash/crc32"

	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

var errNotGPT = errors.New("not a GPT")

var gptSignature = [8]byte{0x45, 0x46, 0x49, 0x20, 0x50, 0x41, 0x52, 0x54} // "EFI PART"

const (
	gptMinHeaderSize = 92
	gptCRCOffset     = 16
)

type gptHeader struct {
	Signature              [8]byte
	Revision               [4]byte
	HeaderSize             uint32
	CRC32                  uint32
	_                      uint32
	CurrentLBA             uint64 // address of this header
	BackupLBA              uint64 // address of the other header
	FirstUsableLBA         uint64
	LastUsableLBA          uint64
	DiskGUID               [16]byte
	PartitionEntryStartLBA uint64
	NumPartitionEntries    uint32
	PartitionEntrySize     uint32
	PartitionArrayCRC32    uint32
}

// guidToUUID converts mixed-endian on-disk GUID to UUID.
func guidToUUID(guid [16]byte) uuid.UUID {
	var id uuid.UUID
	binary.BigEndian.PutUint32(id[0:4], binary.LittleEndian.Uint32(guid[0:4]))
	binary.BigEndian.PutUint16(id[4:6], binary.LittleEndian.Uint16(guid[4:6]))
	binary.BigEndian.PutUint16(id[6:8], binary.LittleEndian.Uint16(guid[6:8]))
	copy(id[8:], guid[8:])
	return id
}

func (s *deviceSession) readGPTHeader(lba uint64) (*gptHeader, error) {
	offset := lba * s.sectorSize

	var header gptHeader
	if err := s.readAt(offset, &header, binary.LittleEndian); err != nil {
		if isShortRead(err) {
			return nil, errNotGPT
		}
		return nil, err
	}

	if header.Signature != gptSignature {
		return nil, errNotGPT
	}

	if header.HeaderSize < gptMinHeaderSize || uint64(header.HeaderSize) > s.sectorSize {
		klog.V(5).InfoS("invalid GPT header size", "lba", lba, "size", header.HeaderSize)
		return nil, errNotGPT
	}

	raw, err := s.readBytes(offset, int(header.HeaderSize))
	if err != nil {
		if isShortRead(err) {
			return nil, errNotGPT
		}
		return nil, err
	}
	binary.LittleEndian.PutUint32(raw[gptCRCOffset:], 0)
	if crc := crc32.ChecksumIEEE(raw); crc != header.CRC32 {
		klog.V(5).InfoS("GPT header checksum mismatch", "lba", lba, "expected", header.CRC32, "got", crc)
		return nil, errNotGPT
	}

	if header.CurrentLBA != lba {
		klog.V(5).InfoS("GPT header LBA mismatch", "lba", lba, "currentLBA", header.CurrentLBA)
		return nil, errNotGPT
	}

	return &header, nil
}

// probeGPT reads the primary GPT header at LBA 1 and falls back to the
// backup header at the last LBA.
func (s *deviceSession) probeGPT() (*PartitionTable, error) {
	header, err := s.readGPTHeader(1)
	if errors.Is(err, errNotGPT) && s.size >= 2*s.sectorSize {
		header, err = s.readGPTHeader(s.size/s.sectorSize - 1)
	}
	if err != nil {
		return nil, err
	}

	return &PartitionTable{
		Type: "gpt",
		ID:   guidToUUID(header.DiskGUID).String(),
	}, nil
}
