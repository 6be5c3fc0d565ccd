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

// Package blkid probes block devices for identifiers: the partition table
// ID used as drive identity and the filesystem UUID.
package blkid

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

var (
	// ErrNoProbe denotes the device cannot be opened for probing.
	ErrNoProbe = errors.New("unable to probe device")

	// ErrNoPartitionTable denotes the device has no partition table.
	ErrNoPartitionTable = errors.New("no partition table found")

	// ErrNoID denotes the partition table has no UUID identifier.
	ErrNoID = errors.New("no partition table ID found")

	// ErrFSNotFound denotes no supported filesystem found.
	ErrFSNotFound = errors.New("filesystem not found")
)

// PartitionTable is a partition table found on a device.
type PartitionTable struct {
	Type string // "gpt" or "dos"
	ID   string // disk GUID or disk signature as reported by blkid
}

// Filesystem is a filesystem signature found on a device.
type Filesystem struct {
	Type string
	UUID string
}

// Session is an open probing session on one device.
type Session interface {
	PartitionTable() (*PartitionTable, error)
	Filesystem() (*Filesystem, error)
	Close() error
}

// Prober opens probing sessions on devices.
type Prober interface {
	Open(path string) (Session, error)
}

// ProbePartitionTableID returns the partition table identifier of device at
// path as UUID.
func ProbePartitionTableID(prober Prober, path string) (uuid.UUID, error) {
	session, err := prober.Open(path)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w; %v", ErrNoProbe, err)
	}
	defer session.Close()

	table, err := session.PartitionTable()
	if err != nil {
		if errors.Is(err, ErrNoPartitionTable) {
			return uuid.Nil, fmt.Errorf("%w on %v", err, path)
		}
		return uuid.Nil, fmt.Errorf("%w; %v: %v", ErrNoPartitionTable, path, err)
	}

	if table.ID == "" {
		return uuid.Nil, fmt.Errorf("%w on %v", ErrNoID, path)
	}

	id, err := uuid.Parse(table.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w; %v partition table ID %q of %v; %v", ErrNoID, table.Type, table.ID, path, err)
	}

	klog.V(5).InfoS("probed partition table", "device", path, "type", table.Type, "id", id)
	return id, nil
}

// ProbeFilesystemUUID returns the filesystem UUID of device at path. A
// device without a supported filesystem signature yields uuid.Nil without
// error.
func ProbeFilesystemUUID(prober Prober, path string) (uuid.UUID, error) {
	session, err := prober.Open(path)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w; %v", ErrNoProbe, err)
	}
	defer session.Close()

	fs, err := session.Filesystem()
	if err != nil {
		if !errors.Is(err, ErrFSNotFound) {
			klog.ErrorS(err, "unable to probe filesystem", "device", path)
		} else {
			klog.V(5).InfoS("no filesystem found", "device", path)
		}
		return uuid.Nil, nil
	}

	id, err := uuid.Parse(fs.UUID)
	if err != nil {
		klog.ErrorS(err, "invalid filesystem UUID", "device", path, "fstype", fs.Type, "uuid", fs.UUID)
		return uuid.Nil, nil
	}

	return id, nil
}
