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
	"regexp"

	"github.com/minio/drivemap/pkg/consts"
	"k8s.io/klog/v2"
)

var (
	// ErrNoSuchBus denotes the SCSI bus device directory cannot be listed.
	ErrNoSuchBus = errors.New("no such SCSI bus")

	// ErrNoBlockDevice denotes a SCSI device without block device.
	ErrNoBlockDevice = errors.New("no block device")

	// ErrNoGenericDevice denotes a SCSI device without generic device.
	ErrNoGenericDevice = errors.New("no generic device")

	// ErrDevAttribute denotes an unreadable or malformed "dev" attribute.
	ErrDevAttribute = errors.New("invalid dev attribute")

	// ErrNoDeviceNode denotes no device node matches a major:minor.
	ErrNoDeviceNode = errors.New("no matching device node")
)

// Only host:channel:target:lun entries; this rejects hostN, targetN:N:N
// and tape/auxiliary aliases.
var scsiAddressRegexp = regexp.MustCompile(`^[0-9]+:[0-9]+:[0-9]+:[0-9]+$`)

// SCSIDevice is one block device and its SCSI generic device found on the SCSI bus.
type SCSIDevice struct {
	Address   string `json:"address"`
	BlockPath string `json:"blockPath"`
	SGPath    string `json:"sgPath"`
}

// EntryError denotes a SCSI bus entry excluded from scan.
type EntryError struct {
	Entry string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("SCSI device %v: %v", e.Entry, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

type deviceNode struct {
	path  string
	major uint32
	minor uint32
}

// Scanner walks the SCSI bus device directory of sysfs.
type Scanner struct {
	busDir string
	devDir string

	getDeviceNumber func(path string) (major, minor uint32, isDevice bool, err error)
}

// NewScanner creates a scanner for busDir and devDir; empty values use
// /sys/bus/scsi/devices and /dev.
func NewScanner(busDir, devDir string) *Scanner {
	if busDir == "" {
		busDir = consts.SysBusSCSIDevices
	}
	if devDir == "" {
		devDir = consts.DevDir
	}
	return &Scanner{
		busDir:          busDir,
		devDir:          devDir,
		getDeviceNumber: getDeviceNumber,
	}
}

func (s *Scanner) entries() ([]string, error) {
	dirEntries, err := os.ReadDir(s.busDir)
	if err != nil {
		return nil, fmt.Errorf("%w; %v", ErrNoSuchBus, err)
	}

	var names []string
	for _, dirEntry := range dirEntries {
		if scsiAddressRegexp.MatchString(dirEntry.Name()) {
			names = append(names, dirEntry.Name())
		}
	}
	return names, nil
}

// listDeviceNodes returns block and character special files directly under
// devDir in directory order; symbolic links are skipped.
func (s *Scanner) listDeviceNodes() ([]deviceNode, error) {
	dirEntries, err := os.ReadDir(s.devDir)
	if err != nil {
		return nil, err
	}

	var nodes []deviceNode
	for _, dirEntry := range dirEntries {
		path := filepath.Join(s.devDir, dirEntry.Name())
		major, minor, isDevice, err := s.getDeviceNumber(path)
		if err != nil || !isDevice {
			continue
		}
		nodes = append(nodes, deviceNode{path: path, major: major, minor: minor})
	}
	return nodes, nil
}

func (s *Scanner) blockName(entryDir string) (string, error) {
	dirEntries, err := os.ReadDir(filepath.Join(entryDir, "block"))
	if err != nil {
		return "", fmt.Errorf("%w; %v", ErrNoBlockDevice, err)
	}

	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() || dirEntry.Type()&os.ModeSymlink != 0 {
			return dirEntry.Name(), nil
		}
	}

	return "", ErrNoBlockDevice
}

func (s *Scanner) genericDevNumber(entryDir string) (major, minor uint32, err error) {
	genericDir := filepath.Join(entryDir, "generic")
	info, err := os.Stat(genericDir)
	if err != nil {
		return 0, 0, fmt.Errorf("%w; %v", ErrNoGenericDevice, err)
	}
	if !info.IsDir() {
		return 0, 0, fmt.Errorf("%w; %v is not a directory", ErrNoGenericDevice, genericDir)
	}

	resolvedDir, err := filepath.EvalSymlinks(genericDir)
	if err != nil {
		return 0, 0, fmt.Errorf("%w; %v", ErrNoGenericDevice, err)
	}

	value, err := readFirstLine(filepath.Join(resolvedDir, "dev"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w; %v", ErrDevAttribute, err)
	}

	if major, minor, err = parseMajorMinor(value); err != nil {
		return 0, 0, fmt.Errorf("%w; %v", ErrDevAttribute, err)
	}

	return major, minor, nil
}

func findDeviceNode(nodes []deviceNode, major, minor uint32) (string, error) {
	for _, node := range nodes {
		if node.major == major && node.minor == minor {
			return node.path, nil
		}
	}
	return "", fmt.Errorf("%w; %v:%v", ErrNoDeviceNode, major, minor)
}

func (s *Scanner) genericNode(entryDir string, nodes []deviceNode) (string, error) {
	major, minor, err := s.genericDevNumber(entryDir)
	if err != nil {
		return "", err
	}
	return findDeviceNode(nodes, major, minor)
}

func (s *Scanner) scanEntry(name string, nodes []deviceNode) (*SCSIDevice, error) {
	entryDir := filepath.Join(s.busDir, name)

	blockName, err := s.blockName(entryDir)
	if err != nil {
		return nil, err
	}

	sgPath, err := s.genericNode(entryDir, nodes)
	if err != nil {
		return nil, err
	}

	return &SCSIDevice{
		Address:   name,
		BlockPath: filepath.Join(s.devDir, blockName),
		SGPath:    sgPath,
	}, nil
}

// Scan returns block and generic device node paths of every SCSI bus entry.
// Entries failing any step are returned as skipped and do not fail the
// scan; only an unreadable bus directory returns ErrNoSuchBus.
func (s *Scanner) Scan() (devices []SCSIDevice, skipped []*EntryError, err error) {
	names, err := s.entries()
	if err != nil {
		return nil, nil, err
	}

	nodes, err := s.listDeviceNodes()
	if err != nil {
		klog.ErrorS(err, "unable to list device nodes", "dir", s.devDir)
	}

	for _, name := range names {
		device, err := s.scanEntry(name, nodes)
		if err != nil {
			if !errors.Is(err, ErrNoBlockDevice) {
				klog.ErrorS(err, "skipping SCSI device", "entry", name)
			} else {
				klog.V(5).InfoS("skipping SCSI device without block device", "entry", name)
			}
			skipped = append(skipped, &EntryError{Entry: name, Err: err})
			continue
		}

		klog.V(3).InfoS("found SCSI device", "entry", name, "block", device.BlockPath, "generic", device.SGPath)
		devices = append(devices, *device)
	}

	return devices, skipped, nil
}

// FindSG returns the generic device node path of the SCSI device whose block
// device short name is blockName, without building a registry.
func (s *Scanner) FindSG(blockName string) (string, error) {
	if blockName == "" || filepath.Base(blockName) != blockName {
		return "", fmt.Errorf("%w; invalid block device name %q", ErrNoBlockDevice, blockName)
	}

	names, err := s.entries()
	if err != nil {
		return "", err
	}

	for _, name := range names {
		entryDir := filepath.Join(s.busDir, name)
		if _, err := os.Stat(filepath.Join(entryDir, "block", blockName)); err != nil {
			continue
		}

		nodes, err := s.listDeviceNodes()
		if err != nil {
			return "", fmt.Errorf("%w; %v", ErrNoDeviceNode, err)
		}

		sgPath, err := s.genericNode(entryDir, nodes)
		if err != nil {
			return "", &EntryError{Entry: name, Err: err}
		}
		return sgPath, nil
	}

	return "", fmt.Errorf("%w; no SCSI device has block device %v", ErrNoBlockDevice, blockName)
}
