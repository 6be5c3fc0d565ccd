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
	"strings"

	"github.com/google/uuid"
	"github.com/minio/drivemap/pkg/blkid"
	"github.com/minio/drivemap/pkg/consts"
	"github.com/spf13/cobra"
)

var fsuuidCmd = &cobra.Command{
	Use:   "fsuuid PATH...",
	Short: "Show filesystem UUID of block devices",
	Long:  "Show filesystem UUID of block devices; a device without XFS, ext2/3/4 or swap filesystem shows " + uuid.Nil.String(),
	Example: strings.ReplaceAll(
		`1. Show filesystem UUID of /dev/sdb1
   $ {APP_NAME} fsuuid /dev/sdb1`,
		`{APP_NAME}`,
		consts.AppName,
	),
	Args: cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		if err := validateOutputFormat(); err != nil {
			return err
		}
		return lookupNames(args, "FSUUID", func(path string) (string, error) {
			id, err := blkid.ProbeFilesystemUUID(blkid.DeviceProber{}, path)
			if err != nil {
				return "", err
			}
			return id.String(), nil
		})
	},
}
