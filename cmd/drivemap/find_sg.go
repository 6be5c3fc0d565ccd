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

	"github.com/minio/drivemap/pkg/consts"
	"github.com/spf13/cobra"
)

var sgCmd = &cobra.Command{
	Use:   "sg NAME...",
	Short: "Show a SCSI generic device of the drive having the block device",
	Example: strings.ReplaceAll(
		`1. Show SCSI generic device of sdb
   $ {APP_NAME} sg sdb

2. Show SCSI generic device of a multipath device
   $ {APP_NAME} sg /dev/mapper/mpatha`,
		`{APP_NAME}`,
		consts.AppName,
	),
	Args: cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		if err := validateOutputFormat(); err != nil {
			return err
		}

		registry, _, err := buildRegistry()
		if err != nil {
			return err
		}
		defer registry.Teardown()

		normalizer := newNormalizer()
		return lookupNames(args, "SG", func(name string) (string, error) {
			return registry.FirstSG(c.Context(), normalizer, name)
		})
	},
}
