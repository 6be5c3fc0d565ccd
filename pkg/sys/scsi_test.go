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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type fakeTopology struct {
	t      *testing.T
	root   string
	busDir string
	devDir string

	numbers map[string][2]uint32
}

func newFakeTopology(t *testing.T) *fakeTopology {
	root := t.TempDir()
	topology := &fakeTopology{
		t:       t,
		root:    root,
		busDir:  filepath.Join(root, "sys", "bus", "scsi", "devices"),
		devDir:  filepath.Join(root, "dev"),
		numbers: map[string][2]uint32{},
	}
	for _, dir := range []string{topology.busDir, topology.devDir, filepath.Join(root, "sys", "class", "scsi_generic")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return topology
}

func (f *fakeTopology) mkdir(path string) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		f.t.Fatal(err)
	}
}

func (f *fakeTopology) writeFile(path, data string) {
	f.mkdir(filepath.Dir(path))
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		f.t.Fatal(err)
	}
}

// addEntry adds a SCSI bus entry; empty blockName or sgName leaves out the
// corresponding sub-entry.
func (f *fakeTopology) addEntry(address, blockName, sgName, sgDev string) {
	entryDir := filepath.Join(f.busDir, address)
	f.mkdir(entryDir)
	if blockName != "" {
		f.mkdir(filepath.Join(entryDir, "block", blockName))
	}
	if sgName != "" {
		sgDir := filepath.Join(f.root, "sys", "class", "scsi_generic", sgName)
		f.writeFile(filepath.Join(sgDir, "dev"), sgDev+"\n")
		if err := os.Symlink(sgDir, filepath.Join(entryDir, "generic")); err != nil {
			f.t.Fatal(err)
		}
	}
}

func (f *fakeTopology) addNode(name string, major, minor uint32) {
	f.writeFile(filepath.Join(f.devDir, name), "")
	f.numbers[name] = [2]uint32{major, minor}
}

func (f *fakeTopology) scanner() *Scanner {
	scanner := NewScanner(f.busDir, f.devDir)
	scanner.getDeviceNumber = func(path string) (uint32, uint32, bool, error) {
		number, found := f.numbers[filepath.Base(path)]
		if !found {
			return 0, 0, false, nil
		}
		return number[0], number[1], true, nil
	}
	return scanner
}

func TestParseMajorMinor(t *testing.T) {
	testCases := []struct {
		value         string
		expectedMajor uint32
		expectedMinor uint32
		expectErr     bool
	}{
		{"21:0", 21, 0, false},
		{"8:16", 8, 16, false},
		{"259:1", 259, 1, false},
		{"21", 0, 0, true},
		{"a:1", 0, 0, true},
		{"1:b", 0, 0, true},
		{"", 0, 0, true},
	}

	for i, testCase := range testCases {
		major, minor, err := parseMajorMinor(testCase.value)
		if testCase.expectErr {
			if err == nil {
				t.Fatalf("case %v: expected error, but succeeded", i+1)
			}
			continue
		}
		if err != nil {
			t.Fatalf("case %v: unexpected error: %v", i+1, err)
		}
		if major != testCase.expectedMajor || minor != testCase.expectedMinor {
			t.Fatalf("case %v: expected: %v:%v; got: %v:%v", i+1, testCase.expectedMajor, testCase.expectedMinor, major, minor)
		}
	}
}

func TestScanAddressFilter(t *testing.T) {
	testCases := []struct {
		name           string
		expectedResult bool
	}{
		{"0:0:0:0", true},
		{"10:2:33:4", true},
		{"host0", false},
		{"target0:0:0", false},
		{"0:0:0:0:gen", false},
		{"nst0", false},
		{"0:0:0", false},
	}

	for i, testCase := range testCases {
		if result := scsiAddressRegexp.MatchString(testCase.name); result != testCase.expectedResult {
			t.Fatalf("case %v: expected: %v; got: %v", i+1, testCase.expectedResult, result)
		}
	}
}

func TestScan(t *testing.T) {
	topology := newFakeTopology(t)
	topology.addEntry("0:0:0:0", "sdb", "sg1", "21:1")
	topology.addEntry("0:0:1:0", "sdc", "sg2", "21:2")
	topology.addEntry("1:0:0:0", "", "sg3", "21:3")
	topology.addEntry("2:0:0:0", "sdd", "", "")
	topology.addEntry("3:0:0:0", "sde", "sg5", "21:9")
	topology.addEntry("4:0:0:0", "sdf", "sg6", "garbage")
	topology.mkdir(filepath.Join(topology.busDir, "host0"))
	topology.mkdir(filepath.Join(topology.busDir, "target0:0:0"))

	topology.addNode("sdb", 8, 16)
	topology.addNode("sg1", 21, 1)
	topology.addNode("sg2", 21, 2)
	topology.addNode("sg3", 21, 3)
	topology.addNode("null", 1, 3)

	devices, skipped, err := topology.scanner().Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedDevices := []SCSIDevice{
		{Address: "0:0:0:0", BlockPath: filepath.Join(topology.devDir, "sdb"), SGPath: filepath.Join(topology.devDir, "sg1")},
		{Address: "0:0:1:0", BlockPath: filepath.Join(topology.devDir, "sdc"), SGPath: filepath.Join(topology.devDir, "sg2")},
	}
	if !reflect.DeepEqual(devices, expectedDevices) {
		t.Fatalf("devices: expected: %+v; got: %+v", expectedDevices, devices)
	}

	expectedSkips := map[string]error{
		"1:0:0:0": ErrNoBlockDevice,
		"2:0:0:0": ErrNoGenericDevice,
		"3:0:0:0": ErrNoDeviceNode,
		"4:0:0:0": ErrDevAttribute,
	}
	if len(skipped) != len(expectedSkips) {
		t.Fatalf("skipped: expected: %v; got: %v", len(expectedSkips), skipped)
	}
	for _, entryErr := range skipped {
		expectedErr, found := expectedSkips[entryErr.Entry]
		if !found {
			t.Fatalf("unexpected skipped entry %v", entryErr.Entry)
		}
		if !errors.Is(entryErr, expectedErr) {
			t.Fatalf("entry %v: expected: %v; got: %v", entryErr.Entry, expectedErr, entryErr.Err)
		}
	}
}

func TestScanNoSuchBus(t *testing.T) {
	scanner := NewScanner(filepath.Join(t.TempDir(), "missing"), t.TempDir())
	devices, skipped, err := scanner.Scan()
	if !errors.Is(err, ErrNoSuchBus) {
		t.Fatalf("expected: %v; got: %v", ErrNoSuchBus, err)
	}
	if devices != nil || skipped != nil {
		t.Fatalf("expected no result; got: %v, %v", devices, skipped)
	}
}

func TestScanFirstMatchingNode(t *testing.T) {
	topology := newFakeTopology(t)
	topology.addEntry("0:0:0:0", "sdb", "sg1", "21:1")
	topology.addNode("bsg1", 21, 1)
	topology.addNode("sg1", 21, 1)

	devices, _, err := topology.scanner().Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("expected: 1 device; got: %v", devices)
	}

	// os.ReadDir returns entries sorted by name.
	if expected := filepath.Join(topology.devDir, "bsg1"); devices[0].SGPath != expected {
		t.Fatalf("expected: %v; got: %v", expected, devices[0].SGPath)
	}
}

func TestFindSG(t *testing.T) {
	topology := newFakeTopology(t)
	topology.addEntry("0:0:0:0", "sdb", "sg1", "21:1")
	topology.addEntry("0:0:1:0", "sdc", "sg2", "21:2")
	topology.addEntry("2:0:0:0", "sdd", "", "")
	topology.addNode("sg1", 21, 1)
	topology.addNode("sg2", 21, 2)

	testCases := []struct {
		blockName      string
		expectedSGPath string
		expectedErr    error
	}{
		{"sdb", filepath.Join(topology.devDir, "sg1"), nil},
		{"sdc", filepath.Join(topology.devDir, "sg2"), nil},
		{"sdd", "", ErrNoGenericDevice},
		{"sdz", "", ErrNoBlockDevice},
		{"", "", ErrNoBlockDevice},
		{"../block", "", ErrNoBlockDevice},
	}

	scanner := topology.scanner()
	for i, testCase := range testCases {
		sgPath, err := scanner.FindSG(testCase.blockName)
		if testCase.expectedErr != nil {
			if !errors.Is(err, testCase.expectedErr) {
				t.Fatalf("case %v: expected: %v; got: %v", i+1, testCase.expectedErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("case %v: unexpected error: %v", i+1, err)
		}
		if sgPath != testCase.expectedSGPath {
			t.Fatalf("case %v: expected: %v; got: %v", i+1, testCase.expectedSGPath, sgPath)
		}
	}
}

func TestEntryError(t *testing.T) {
	err := &EntryError{Entry: "0:0:0:0", Err: fmt.Errorf("%w; detail", ErrNoGenericDevice)}
	if !errors.Is(err, ErrNoGenericDevice) {
		t.Fatalf("expected wrapped %v", ErrNoGenericDevice)
	}
	if expected := "SCSI device 0:0:0:0: no generic device; detail"; err.Error() != expected {
		t.Fatalf("expected: %v; got: %v", expected, err.Error())
	}
}
