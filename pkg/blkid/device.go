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
	"io"
	"os"

	"k8s.io/klog/v2"
)

const defaultSectorSize = 512

// DeviceProber probes devices and image files by reading their on-disk
// structures.
type DeviceProber struct{}

// Open implements Prober.
func (DeviceProber) Open(path string) (Session, error) {
	file, err := os.OpenFile(path, os.O_RDONLY, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	session := &deviceSession{
		file:       file,
		sectorSize: defaultSectorSize,
	}

	if sectorSize, err := getLogicalSectorSize(file); err == nil && sectorSize > 0 {
		session.sectorSize = uint64(sectorSize)
	}

	if session.size, err = getDeviceSize(file); err != nil {
		info, err := file.Stat()
		if err != nil {
			file.Close()
			return nil, err
		}
		session.size = uint64(info.Size())
	}

	klog.V(5).InfoS("opened probe", "path", path, "sectorSize", session.sectorSize, "size", session.size)
	return session, nil
}

type deviceSession struct {
	file       *os.File
	sectorSize uint64
	size       uint64
}

func (s *deviceSession) readAt(offset uint64, data interface{}, order binary.ByteOrder) error {
	reader := io.NewSectionReader(s.file, int64(offset), int64(binary.Size(data)))
	return binary.Read(reader, order, data)
}

func (s *deviceSession) readBytes(offset uint64, length int) ([]byte, error) {
	buf := make([]byte, length)
	if _, err := s.file.ReadAt(buf, int64(offset)); err != nil {
		return nil, err
	}
	return buf, nil
}

// isShortRead returns whether err denotes the device is smaller than the
// structure being read.
func isShortRead(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// PartitionTable implements Session. GPT takes precedence over MBR as a
// GPT disk also carries a protective MBR.
func (s *deviceSession) PartitionTable() (*PartitionTable, error) {
	table, err := s.probeGPT()
	switch {
	case err == nil:
		return table, nil
	case !errors.Is(err, errNotGPT):
		return nil, err
	}

	table, err = s.probeMBR()
	switch {
	case err == nil:
		return table, nil
	case errors.Is(err, errNotMBR):
		return nil, ErrNoPartitionTable
	default:
		return nil, err
	}
}

// Filesystem implements Session.
func (s *deviceSession) Filesystem() (*Filesystem, error) {
	for _, probe := range []func() (*Filesystem, error){s.probeXFS, s.probeExt4, s.probeSwap} {
		fs, err := probe()
		if err == nil {
			return fs, nil
		}
		if !errors.Is(err, ErrFSNotFound) {
			return nil, err
		}
	}
	return nil, ErrFSNotFound
}

// Close implements Session.
func (s *deviceSession) Close() error {
	return s.file.Close()
}
