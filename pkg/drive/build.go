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

package drive

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/minio/drivemap/pkg/blkid"
	"github.com/minio/drivemap/pkg/sys"
	"go.uber.org/multierr"
	"k8s.io/klog/v2"
)

// Scanner lists SCSI devices.
type Scanner interface {
	Scan() (devices []sys.SCSIDevice, skipped []*sys.EntryError, err error)
}

// Reason tells why a SCSI device is or is not in the registry.
type Reason string

const (
	// ReasonAdded denotes the device paths are recorded.
	ReasonAdded Reason = "added"

	// ReasonEntrySkip denotes a bus entry without usable block or generic device.
	ReasonEntrySkip Reason = "entry"

	// ReasonProbeFailure denotes the partition table ID cannot be probed.
	ReasonProbeFailure Reason = "probe"

	// ReasonCapacityExceeded denotes the drive already has maximum paths.
	ReasonCapacityExceeded Reason = "capacity"

	// ReasonDuplicatePath denotes the block path is already recorded.
	ReasonDuplicatePath Reason = "duplicate"
)

// Outcome is the build result of one SCSI bus entry.
type Outcome struct {
	Entry     string    `json:"entry"`
	BlockPath string    `json:"blockPath,omitempty"`
	SGPath    string    `json:"sgPath,omitempty"`
	ID        uuid.UUID `json:"id"`
	Reason    Reason    `json:"reason"`
	Err       error     `json:"-"`
}

// Added returns whether the entry is recorded in the registry.
func (o Outcome) Added() bool {
	return o.Reason == ReasonAdded
}

// Report is the per-entry result of Build.
type Report struct {
	Outcomes []Outcome
}

// Count returns the number of outcomes with reason.
func (r *Report) Count(reason Reason) (count int) {
	for _, outcome := range r.Outcomes {
		if outcome.Reason == reason {
			count++
		}
	}
	return count
}

// Skipped returns outcomes of entries not recorded in the registry.
func (r *Report) Skipped() (outcomes []Outcome) {
	for _, outcome := range r.Outcomes {
		if !outcome.Added() {
			outcomes = append(outcomes, outcome)
		}
	}
	return outcomes
}

// Err combines errors of all skipped entries.
func (r *Report) Err() error {
	var errs []error
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			errs = append(errs, fmt.Errorf("%v: %w", outcome.Entry, outcome.Err))
		}
	}
	return multierr.Combine(errs...)
}

func upsertReason(err error) Reason {
	switch {
	case err == nil:
		return ReasonAdded
	case errors.Is(err, ErrCapacityExceeded):
		return ReasonCapacityExceeded
	case errors.Is(err, ErrDuplicatePath):
		return ReasonDuplicatePath
	}
	return ReasonProbeFailure
}

// Build scans SCSI devices, probes partition table ID of each block device
// and records its paths. Failures of individual entries are logged and
// reported, never returned; only a scan failure, e.g. sys.ErrNoSuchBus, is
// returned, leaving the registry empty.
func (r *Registry) Build(scanner Scanner, prober blkid.Prober) (*Report, error) {
	if r.state == StateBuilt {
		return nil, ErrAlreadyBuilt
	}

	devices, skipped, err := scanner.Scan()
	if err != nil {
		klog.ErrorS(err, "unable to scan SCSI devices")
		return &Report{}, err
	}

	report := &Report{}
	for _, entryErr := range skipped {
		report.Outcomes = append(report.Outcomes, Outcome{
			Entry:  entryErr.Entry,
			Reason: ReasonEntrySkip,
			Err:    entryErr.Err,
		})
	}

	for _, device := range devices {
		outcome := Outcome{
			Entry:     device.Address,
			BlockPath: device.BlockPath,
			SGPath:    device.SGPath,
		}

		id, err := blkid.ProbePartitionTableID(prober, device.BlockPath)
		if err != nil {
			klog.ErrorS(err, "unable to read partition table ID", "entry", device.Address, "device", device.BlockPath)
			outcome.Reason = ReasonProbeFailure
			outcome.Err = err
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}
		outcome.ID = id

		err = r.Upsert(id, device.BlockPath, device.SGPath)
		if err != nil {
			klog.ErrorS(err, "unable to add drive path", "entry", device.Address, "id", id)
			outcome.Err = err
		}
		outcome.Reason = upsertReason(err)
		report.Outcomes = append(report.Outcomes, outcome)
	}

	// Scanner lists bus entries in name order.
	sort.SliceStable(report.Outcomes, func(i, j int) bool {
		return report.Outcomes[i].Entry < report.Outcomes[j].Entry
	})

	r.state = StateBuilt
	r.logDump()
	klog.V(3).InfoS("drive registry built", "drives", r.Len(), "added", report.Count(ReasonAdded), "skipped", len(report.Skipped()))
	return report, nil
}

// Rebuild tears down the registry and builds it again.
func (r *Registry) Rebuild(scanner Scanner, prober blkid.Prober) (*Report, error) {
	r.Teardown()
	return r.Build(scanner, prober)
}

func (r *Registry) logDump() {
	if !klog.V(3).Enabled() {
		return
	}
	for _, identity := range r.drives {
		klog.InfoS("SCSI drive", "id", identity.ID, "paths", len(identity.Paths))
		for _, path := range identity.Paths {
			klog.InfoS("SCSI drive path", "id", identity.ID, "block", path.BlockPath, "generic", path.SGPath)
		}
	}
}
