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

package dm

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeRunner struct {
	output string
	err    error
	calls  []string
}

func (f *fakeRunner) Deps(ctx context.Context, device string) (string, error) {
	f.calls = append(f.calls, device)
	return f.output, f.err
}

func TestParseDeps(t *testing.T) {
	testCases := []struct {
		output        string
		expectedNames []string
		expectErr     bool
	}{
		{" 1 dependencies\t: (sdb)\n", []string{"sdb"}, false},
		{"1 dependencies  : (sdb)", []string{"sdb"}, false},
		{"2 dependencies  : (sdc) (sdb)\n", []string{"sdc", "sdb"}, false},
		{"0 dependencies  : \n", nil, false},
		{"1 dependency : (nvme0n1)\n", []string{"nvme0n1"}, false},
		{"", nil, true},
		{"Device does not exist.\n", nil, true},
		{"2 dependencies  : (sdc)\n", nil, true},
	}

	for i, testCase := range testCases {
		names, err := ParseDeps(testCase.output)
		if testCase.expectErr {
			if err == nil {
				t.Fatalf("case %v: expected error, but succeeded", i+1)
			}
			if !errors.Is(err, ErrNotResolvable) {
				t.Fatalf("case %v: expected: %v; got: %v", i+1, ErrNotResolvable, err)
			}
			continue
		}

		if err != nil {
			t.Fatalf("case %v: unexpected error: %v", i+1, err)
		}

		if !reflect.DeepEqual(names, testCase.expectedNames) {
			t.Fatalf("case %v: expected: %v; got: %v", i+1, testCase.expectedNames, names)
		}
	}
}

func TestTrimPartition(t *testing.T) {
	testCases := []struct {
		name         string
		expectedName string
	}{
		{"sda1", "sda"},
		{"sda", "sda"},
		{"/dev/sdb12", "/dev/sdb"},
		{"123", ""},
		{"", ""},
	}

	for i, testCase := range testCases {
		if name := TrimPartition(testCase.name); name != testCase.expectedName {
			t.Fatalf("case %v: expected: %v; got: %v", i+1, testCase.expectedName, name)
		}
	}
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name         string
		runner       *fakeRunner
		expectedName string
		expectErr    bool
		expectCall   bool
	}{
		{"sda1", &fakeRunner{}, "sda", false, false},
		{"sda", &fakeRunner{}, "sda", false, false},
		{"/dev/sdc3", &fakeRunner{}, "sdc", false, false},
		{"", &fakeRunner{}, "", true, false},
		{"42", &fakeRunner{}, "", true, false},
		{"/dev/", &fakeRunner{}, "", true, false},
		{"/dev/sdb/", &fakeRunner{}, "", true, false},
		{"/", &fakeRunner{}, "", true, false},
		{"/dev/mapper/mpatha", &fakeRunner{output: "1 dependencies  : (sdb)\n"}, "sdb", false, true},
		{"/dev/mapper/mpatha1", &fakeRunner{output: "1 dependencies  : (sdb1)\n"}, "sdb", false, true},
		{"/dev/dm-0", &fakeRunner{output: "1 dependencies  : (sdd)\n"}, "sdd", false, true},
		{"/dev/mapper/mpathb", &fakeRunner{output: "2 dependencies  : (sdc) (sdb)\n"}, "", true, true},
		{"/dev/mapper/mpathc", &fakeRunner{output: "0 dependencies  : \n"}, "", true, true},
		{"/dev/mapper/mpathd", &fakeRunner{output: "garbage\n"}, "", true, true},
		{"/dev/mapper/mpathe", &fakeRunner{err: errors.New("exit status 1")}, "", true, true},
		{"/dev/mapper/mpathf", &fakeRunner{output: "1 dependencies  : (/dev/)\n"}, "", true, true},
	}

	for i, testCase := range testCases {
		name, err := NewNormalizer(testCase.runner).Normalize(context.Background(), testCase.name)
		if testCase.expectErr {
			if !errors.Is(err, ErrNotResolvable) {
				t.Fatalf("case %v: expected: %v; got: %v", i+1, ErrNotResolvable, err)
			}
		} else {
			if err != nil {
				t.Fatalf("case %v: unexpected error: %v", i+1, err)
			}
			if name != testCase.expectedName {
				t.Fatalf("case %v: expected: %v; got: %v", i+1, testCase.expectedName, name)
			}
		}

		called := len(testCase.runner.calls) != 0
		if called != testCase.expectCall {
			t.Fatalf("case %v: runner called: expected: %v; got: %v", i+1, testCase.expectCall, called)
		}
	}
}

func TestIsMapperPath(t *testing.T) {
	testCases := []struct {
		name           string
		expectedResult bool
	}{
		{"/dev/mapper/mpatha", true},
		{"/dev/dm-3", true},
		{"/dev/sda", false},
		{"mapper", false},
		{"sdb", false},
	}

	for i, testCase := range testCases {
		if result := IsMapperPath(testCase.name); result != testCase.expectedResult {
			t.Fatalf("case %v: expected: %v; got: %v", i+1, testCase.expectedResult, result)
		}
	}
}
