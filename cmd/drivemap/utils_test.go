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

package main

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/minio/drivemap/pkg/blkid"
	"github.com/minio/drivemap/pkg/drive"
	"github.com/minio/drivemap/pkg/sys"
	"github.com/spf13/viper"
)

func TestMatchDrive(t *testing.T) {
	identity := drive.Identity{
		ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Paths: []drive.DrivePath{
			{BlockPath: "/dev/sdb", SGPath: "/dev/sg1"},
			{BlockPath: "/dev/sdc", SGPath: "/dev/sg2"},
		},
	}

	testCases := []struct {
		patterns       []string
		expectedResult bool
	}{
		{nil, true},
		{[]string{"sdb"}, true},
		{[]string{"/dev/sdc"}, true},
		{[]string{"sg*"}, true},
		{[]string{"sdd", "sg2"}, true},
		{[]string{"sdd"}, false},
		{[]string{"nvme*"}, false},
	}

	for i, testCase := range testCases {
		if result := matchDrive(identity, testCase.patterns); result != testCase.expectedResult {
			t.Fatalf("case %v: expected: %v; got: %v", i+1, testCase.expectedResult, result)
		}
	}
}

func TestPrintableBytes(t *testing.T) {
	testCases := []struct {
		value          uint64
		expectedString string
	}{
		{0, "-"},
		{1024, "1.0 KiB"},
		{4000787030016, "3.6 TiB"},
	}

	for i, testCase := range testCases {
		if s := printableBytes(testCase.value); s != testCase.expectedString {
			t.Fatalf("case %v: expected: %v; got: %v", i+1, testCase.expectedString, s)
		}
	}
}

func TestValidateOutputFormat(t *testing.T) {
	defer viper.Set(outputKey, "")

	testCases := []struct {
		output    string
		expectErr bool
	}{
		{"", false},
		{"wide", false},
		{"json", false},
		{"yaml", false},
		{"table", true},
	}

	for i, testCase := range testCases {
		viper.Set(outputKey, testCase.output)
		err := validateOutputFormat()
		if testCase.expectErr != (err != nil) {
			t.Fatalf("case %v: expected error: %v; got: %v", i+1, testCase.expectErr, err)
		}
	}
}

type fakeScanner struct {
	devices []sys.SCSIDevice
	err     error
}

func (s *fakeScanner) Scan() ([]sys.SCSIDevice, []*sys.EntryError, error) {
	return s.devices, nil, s.err
}

type fakeSession struct {
	id string
}

func (s fakeSession) PartitionTable() (*blkid.PartitionTable, error) {
	return &blkid.PartitionTable{Type: "gpt", ID: s.id}, nil
}

func (s fakeSession) Filesystem() (*blkid.Filesystem, error) {
	return nil, blkid.ErrFSNotFound
}

func (s fakeSession) Close() error {
	return nil
}

type fakeProber map[string]string

func (p fakeProber) Open(path string) (blkid.Session, error) {
	return fakeSession{id: p[path]}, nil
}

func TestRegistryHolderRebuild(t *testing.T) {
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	scanner := &fakeScanner{
		devices: []sys.SCSIDevice{{Address: "1:0:0:0", BlockPath: "/dev/sdb", SGPath: "/dev/sg1"}},
	}
	prober := fakeProber{"/dev/sdb": id.String()}

	holder := &registryHolder{registry: drive.NewRegistry(0)}
	if err := holder.rebuild(scanner, prober); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := holder.rebuild(scanner, prober); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	identities, report := holder.snapshot()
	if len(identities) != 1 || identities[0].ID != id {
		t.Fatalf("unexpected identities: %v", identities)
	}
	if report.Count(drive.ReasonAdded) != 1 {
		t.Fatalf("unexpected report: %+v", report.Outcomes)
	}

	scanner.err = sys.ErrNoSuchBus
	if err := holder.rebuild(scanner, prober); !errors.Is(err, sys.ErrNoSuchBus) {
		t.Fatalf("expected: %v; got: %v", sys.ErrNoSuchBus, err)
	}
	if identities, _ = holder.snapshot(); len(identities) != 0 {
		t.Fatalf("unexpected identities: %v", identities)
	}
}
