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
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/minio/drivemap/pkg/consts"
	"github.com/minio/drivemap/pkg/drive"
	"github.com/minio/drivemap/pkg/sg"
	"github.com/minio/drivemap/pkg/sys"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "dump"},
	Short:   "List SCSI drives and their device paths",
	Example: strings.ReplaceAll(
		`1. List all drives
   $ {APP_NAME} list

2. List drives reachable through sdb or any sg device
   $ {APP_NAME} list --drives=sdb,sg*

3. List drives with size, vendor, product and serial number
   $ {APP_NAME} list --output wide

4. List drives in YAML
   $ {APP_NAME} list -o yaml`,
		`{APP_NAME}`,
		consts.AppName,
	),
	RunE: func(c *cobra.Command, args []string) error {
		if err := validateOutputFormat(); err != nil {
			return err
		}
		return listMain()
	},
}

func init() {
	setFlagOpts(listCmd)
	addDrivesFlag(listCmd, "Filter output by block or SCSI generic device names")
}

type pathInfo struct {
	drive.DrivePath
	Size    uint64      `json:"size,omitempty"`
	Inquiry *sg.Inquiry `json:"inquiry,omitempty"`
}

type driveInfo struct {
	ID    string     `json:"id"`
	Paths []pathInfo `json:"paths"`
}

func newDriveInfo(identity drive.Identity, wide bool) driveInfo {
	info := driveInfo{ID: identity.ID.String()}
	for _, path := range identity.Paths {
		pi := pathInfo{DrivePath: path}
		if wide {
			var err error
			if pi.Size, err = sys.GetDeviceSize(filepath.Base(path.BlockPath)); err != nil {
				klog.V(3).InfoS("unable to get device size", "device", path.BlockPath, "err", err)
			}
			if pi.Inquiry, err = sg.Inquire(path.SGPath); err != nil {
				klog.ErrorS(err, "unable to inquire SCSI device", "device", path.SGPath)
			}
		}
		info.Paths = append(info.Paths, pi)
	}
	return info
}

func listMain() error {
	registry, _, err := buildRegistry()
	if err != nil {
		return err
	}
	defer registry.Teardown()

	outputFormat := viper.GetString(outputKey)
	wide := outputFormat != ""

	var drives []driveInfo
	for _, identity := range registry.Dump() {
		if matchDrive(identity, drivesArgs) {
			drives = append(drives, newDriveInfo(identity, wide))
		}
	}

	switch outputFormat {
	case "json":
		return printJSON(drives)
	case "yaml":
		return printYAML(drives)
	}

	header := table.Row{"DRIVE", "BLOCK", "SG"}
	if wide {
		header = append(header, "SIZE", "VENDOR", "PRODUCT", "SERIAL")
	}
	writer := newTableWriter(header)

	for _, info := range drives {
		for i, path := range info.Paths {
			id := info.ID
			if i > 0 {
				id = ""
			}
			row := table.Row{printableString(id), path.BlockPath, path.SGPath}
			if wide {
				vendor, product, serial := "-", "-", "-"
				if path.Inquiry != nil {
					vendor = printableString(path.Inquiry.Vendor)
					product = printableString(path.Inquiry.Product)
					serial = printableString(path.Inquiry.Serial)
				}
				row = append(row, printableBytes(path.Size), vendor, product, serial)
			}
			writer.AppendRow(row)
		}
	}

	if len(drives) == 0 {
		eprintf(false, "No SCSI drives found\n")
		return nil
	}

	writer.Render()
	return nil
}
