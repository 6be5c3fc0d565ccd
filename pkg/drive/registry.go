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

// Package drive maintains the registry of SCSI drives keyed by partition
// table UUID along with every block and generic device path reaching them.
//
// A Registry is built once and queried afterwards. It does no locking;
// callers sharing a Registry between goroutines must not run Build or
// Teardown concurrently with queries.
package drive

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/drivemap/pkg/consts"
)

var (
	// ErrCapacityExceeded denotes a drive already holding the maximum number of paths.
	ErrCapacityExceeded = errors.New("drive path capacity exceeded")

	// ErrDuplicatePath denotes a block path already recorded for a drive.
	ErrDuplicatePath = errors.New("block path already recorded")

	// ErrAlreadyBuilt denotes Build called on a built registry.
	ErrAlreadyBuilt = errors.New("registry already built")

	// ErrNotFound denotes a name not known to the registry.
	ErrNotFound = errors.New("drive not found")
)

// DrivePath is one route to a drive.
type DrivePath struct {
	BlockPath string `json:"blockPath"`
	SGPath    string `json:"sgPath"`
}

// Identity is a drive and every path reaching it.
type Identity struct {
	ID    uuid.UUID   `json:"id"`
	Paths []DrivePath `json:"paths"`
}

func (identity *Identity) clone() Identity {
	paths := make([]DrivePath, len(identity.Paths))
	copy(paths, identity.Paths)
	return Identity{ID: identity.ID, Paths: paths}
}

// State is the registry life-cycle state.
type State int

const (
	// StateUninitialized is the state before Build or after Teardown.
	StateUninitialized State = iota

	// StateBuilt is the state after a successful Build.
	StateBuilt
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateBuilt:
		return "Built"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Registry maps partition table UUIDs to drive identities.
type Registry struct {
	maxPaths int
	state    State
	drives   []*Identity
	byID     map[uuid.UUID]*Identity
	blocks   map[string]struct{}
}

// NewRegistry creates an empty registry recording at most maxPaths paths
// per drive; a non-positive maxPaths uses the default.
func NewRegistry(maxPaths int) *Registry {
	if maxPaths <= 0 {
		maxPaths = consts.MaxPathsPerDrive
	}
	return &Registry{
		maxPaths: maxPaths,
		byID:     map[uuid.UUID]*Identity{},
		blocks:   map[string]struct{}{},
	}
}

// State returns current state.
func (r *Registry) State() State {
	return r.state
}

// MaxPaths returns the number of paths recorded per drive at most.
func (r *Registry) MaxPaths() int {
	return r.maxPaths
}

// Len returns the number of drives.
func (r *Registry) Len() int {
	return len(r.drives)
}

// Upsert records blockPath and sgPath for drive id, creating the drive if
// not present.
func (r *Registry) Upsert(id uuid.UUID, blockPath, sgPath string) error {
	if _, found := r.blocks[blockPath]; found {
		return fmt.Errorf("%w; %v", ErrDuplicatePath, blockPath)
	}

	identity, found := r.byID[id]
	if !found {
		identity = &Identity{ID: id}
		r.byID[id] = identity
		r.drives = append(r.drives, identity)
	}

	if len(identity.Paths) >= r.maxPaths {
		return fmt.Errorf("%w; drive %v already has %v paths; dropping %v", ErrCapacityExceeded, id, len(identity.Paths), blockPath)
	}

	identity.Paths = append(identity.Paths, DrivePath{BlockPath: blockPath, SGPath: sgPath})
	r.blocks[blockPath] = struct{}{}
	return nil
}

// FindSGByBlockName returns the generic device path of the first path of
// the drive having a block device named name. The returned path may be
// paired with another block device of the same drive.
func (r *Registry) FindSGByBlockName(name string) (string, bool) {
	for _, identity := range r.drives {
		for _, path := range identity.Paths {
			if filepath.Base(path.BlockPath) == name {
				return identity.Paths[0].SGPath, true
			}
		}
	}
	return "", false
}

// FindUUIDByName returns the drive UUID having a block or generic device
// named name.
func (r *Registry) FindUUIDByName(name string) (uuid.UUID, bool) {
	for _, identity := range r.drives {
		for _, path := range identity.Paths {
			if filepath.Base(path.BlockPath) == name || filepath.Base(path.SGPath) == name {
				return identity.ID, true
			}
		}
	}
	return uuid.Nil, false
}

// Get returns a copy of drive id.
func (r *Registry) Get(id uuid.UUID) (Identity, bool) {
	identity, found := r.byID[id]
	if !found {
		return Identity{}, false
	}
	return identity.clone(), true
}

// Dump returns copies of all drives in creation order.
func (r *Registry) Dump() []Identity {
	identities := make([]Identity, 0, len(r.drives))
	for _, identity := range r.drives {
		identities = append(identities, identity.clone())
	}
	return identities
}

// Teardown drops every drive; the registry may be built again.
func (r *Registry) Teardown() {
	r.drives = nil
	r.byID = map[uuid.UUID]*Identity{}
	r.blocks = map[string]struct{}{}
	r.state = StateUninitialized
}
