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

// Package dm resolves device names, including device-mapper aliases, to
// the short name of the underlying whole physical block device.
package dm

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/minio/drivemap/pkg/consts"
	"k8s.io/klog/v2"
)

// ErrNotResolvable denotes a name which cannot be resolved to a single physical device.
var ErrNotResolvable = errors.New("device name not resolvable")

var (
	depsRegexp = regexp.MustCompile(`^\s*(\d+)\s+dependenc(?:y|ies)\s*:\s*(.*)$`)
	nameRegexp = regexp.MustCompile(`\(([^()]*)\)`)
)

// Runner runs the device-mapper dependency tool for a device and returns its output.
type Runner interface {
	Deps(ctx context.Context, device string) (string, error)
}

// DMSetup runs `dmsetup deps -o devname <device>`.
type DMSetup struct {
	// Command is the dmsetup executable; defaults to "dmsetup" looked up in PATH.
	Command string
}

// Deps implements Runner.
func (d DMSetup) Deps(ctx context.Context, device string) (string, error) {
	command := d.Command
	if command == "" {
		command = consts.DMSetup
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, "deps", "-o", "devname", device)
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%v deps %v failed; %w; %v", command, device, err, strings.TrimSpace(stderr.String()))
	}
	return string(output), nil
}

// IsMapperPath returns whether name denotes a device-mapper device.
func IsMapperPath(name string) bool {
	return strings.Contains(name, "/dev/mapper/") || strings.HasPrefix(name, "/dev/dm-")
}

// ParseDeps parses the first line of dependency tool output of the form
// `<count> dependencies : (<name>) ...` and returns the dependency names.
func ParseDeps(output string) (names []string, err error) {
	line, err := bufio.NewReader(strings.NewReader(output)).ReadString('\n')
	if line == "" && err != nil {
		return nil, fmt.Errorf("%w; empty dependency output", ErrNotResolvable)
	}

	matches := depsRegexp.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
	if matches == nil {
		return nil, fmt.Errorf("%w; unknown dependency output %q", ErrNotResolvable, line)
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("%w; invalid dependency count %q", ErrNotResolvable, matches[1])
	}

	for _, match := range nameRegexp.FindAllStringSubmatch(matches[2], -1) {
		names = append(names, strings.TrimSpace(match[1]))
	}

	if count != len(names) {
		return nil, fmt.Errorf("%w; dependency count %v does not match names %v", ErrNotResolvable, count, names)
	}

	return names, nil
}

// TrimPartition removes trailing partition number digits from name.
func TrimPartition(name string) string {
	return strings.TrimRightFunc(name, func(r rune) bool { return r >= '0' && r <= '9' })
}

// Normalizer resolves device names to whole-device short names.
type Normalizer struct {
	runner Runner
}

// NewNormalizer creates a normalizer using runner for device-mapper paths.
// A nil runner uses DMSetup with default command.
func NewNormalizer(runner Runner) *Normalizer {
	if runner == nil {
		runner = DMSetup{}
	}
	return &Normalizer{runner: runner}
}

func (n *Normalizer) dependency(ctx context.Context, name string) (string, error) {
	output, err := n.runner.Deps(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%w; %v", ErrNotResolvable, err)
	}

	names, err := ParseDeps(output)
	if err != nil {
		return "", err
	}

	if len(names) != 1 {
		return "", fmt.Errorf("%w; %v has %v dependencies", ErrNotResolvable, name, len(names))
	}

	klog.V(5).InfoS("resolved device-mapper dependency", "device", name, "dependency", names[0])
	return names[0], nil
}

// Normalize resolves name to the short name of its whole physical block
// device, e.g. /dev/sda1 and sda1 resolve to sda. Device-mapper paths are
// resolved through the dependency tool and must have exactly one dependency.
// The tool is spawned once per call without retry and without timeout other
// than the one carried by ctx.
func (n *Normalizer) Normalize(ctx context.Context, name string) (string, error) {
	resolved := name
	if IsMapperPath(name) {
		dependency, err := n.dependency(ctx, name)
		if err != nil {
			return "", err
		}
		resolved = dependency
	}

	resolved = TrimPartition(resolved)
	if resolved == "" {
		return "", fmt.Errorf("%w; empty device name from %q", ErrNotResolvable, name)
	}
	if strings.HasSuffix(resolved, "/") {
		return "", fmt.Errorf("%w; %q is a directory", ErrNotResolvable, name)
	}

	base := path.Base(resolved)
	switch base {
	case "", ".", "/":
		return "", fmt.Errorf("%w; invalid device name %q", ErrNotResolvable, name)
	}

	return base, nil
}
