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

package consts

const (
	// AppName denotes application/library/plugin/tool name
	AppName = "drivemap"

	// AppPrettyName denotes application/library/plugin/tool pretty name
	AppPrettyName = "DriveMap"

	// AppCapsName denotes application/library/plugin/tool name in capital letters.
	AppCapsName = "DRIVEMAP"

	// SysBusSCSIDevices is the sysfs directory listing SCSI bus devices.
	SysBusSCSIDevices = "/sys/bus/scsi/devices"

	// SysClassBlock is the sysfs directory of block devices.
	SysClassBlock = "/sys/class/block"

	// DevDir is the device node directory.
	DevDir = "/dev"

	// DMSetup is the default device-mapper dependency tool.
	DMSetup = "dmsetup"

	// MaxPathsPerDrive is the default number of paths recorded for one drive.
	MaxPathsPerDrive = 8

	// MetricsPort is default metrics port.
	MetricsPort = 10443

	// ConfigFileName is the config file name looked up under $HOME/.<AppName>.
	ConfigFileName = "config"
)
