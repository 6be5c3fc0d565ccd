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
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

var sgNameRegexp = regexp.MustCompile(`^sg[0-9]+$`)

// Normalizer resolves a caller supplied device name to a whole device short name.
type Normalizer interface {
	Normalize(ctx context.Context, name string) (string, error)
}

// SGFinder finds generic device path of a block device without a registry.
type SGFinder interface {
	FindSG(blockName string) (string, error)
}

// FirstSG normalizes name and returns a generic device path of its drive.
func (r *Registry) FirstSG(ctx context.Context, normalizer Normalizer, name string) (string, error) {
	blockName, err := normalizer.Normalize(ctx, name)
	if err != nil {
		return "", err
	}

	sgPath, found := r.FindSGByBlockName(blockName)
	if !found {
		return "", fmt.Errorf("%w; %v", ErrNotFound, blockName)
	}
	return sgPath, nil
}

// IdentityOf returns the drive UUID of name. Generic device names are
// looked up as is; other names are normalized first.
func (r *Registry) IdentityOf(ctx context.Context, normalizer Normalizer, name string) (uuid.UUID, error) {
	shortName := filepath.Base(name)
	if !sgNameRegexp.MatchString(shortName) {
		var err error
		if shortName, err = normalizer.Normalize(ctx, name); err != nil {
			return uuid.Nil, err
		}
	}

	id, found := r.FindUUIDByName(shortName)
	if !found {
		return uuid.Nil, fmt.Errorf("%w; %v", ErrNotFound, shortName)
	}
	return id, nil
}

// ConvertToSG normalizes name and finds its generic device path by scanning
// the SCSI bus.
func ConvertToSG(ctx context.Context, normalizer Normalizer, finder SGFinder, name string) (string, error) {
	blockName, err := normalizer.Normalize(ctx, name)
	if err != nil {
		return "", err
	}
	return finder.FindSG(blockName)
}
