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
	"fmt"
	"strings"

	"github.com/minio/drivemap/pkg/consts"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	sysfsBusDirKey = "sysfs-bus-dir"
	devDirKey      = "dev-dir"
	maxPathsKey    = "max-paths"
	dmsetupKey     = "dmsetup"
	metricsPortKey = "metrics-port"
	outputKey      = "output"
	noHeadersKey   = "no-headers"
	quietKey       = "quiet"
)

var outputFormatValues = []string{"wide", "json", "yaml"}

var (
	configFile string   // --config flag
	drivesArgs []string // --drives flag
)

func addGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", configFile, fmt.Sprintf("Config file (default $HOME/.%v/%v.yaml)", consts.AppName, consts.ConfigFileName))
	flags.String(sysfsBusDirKey, consts.SysBusSCSIDevices, "SCSI bus devices directory in sysfs")
	flags.String(devDirKey, consts.DevDir, "Device node directory")
	flags.Int(maxPathsKey, consts.MaxPathsPerDrive, "Maximum number of paths recorded per drive")
	flags.String(dmsetupKey, consts.DMSetup, "Device-mapper dependency tool")
	flags.StringP(outputKey, "o", "", fmt.Sprintf("Output format; one of: %v", strings.Join(outputFormatValues, "|")))
	flags.Bool(noHeadersKey, false, "When using the default or custom-column output format, don't print headers (default print headers)")
	flags.Bool(quietKey, false, "Suppress printing error messages")
}

func addDrivesFlag(cmd *cobra.Command, usage string) {
	cmd.PersistentFlags().StringSliceVarP(&drivesArgs, "drives", "d", drivesArgs, usage+"; supports glob pattern e.g. sd*")
}

func addMetricsPortFlag(cmd *cobra.Command, usage string) {
	cmd.PersistentFlags().Int(metricsPortKey, consts.MetricsPort, usage)
	viper.BindPFlag(metricsPortKey, cmd.PersistentFlags().Lookup(metricsPortKey))
}

func setFlagOpts(cmd *cobra.Command) {
	cmd.Flags().SortFlags = false
	cmd.InheritedFlags().SortFlags = false
	cmd.LocalFlags().SortFlags = false
	cmd.LocalNonPersistentFlags().SortFlags = false
	cmd.NonInheritedFlags().SortFlags = false
	cmd.PersistentFlags().SortFlags = false
}

func validateOutputFormat() error {
	switch outputFormat := viper.GetString(outputKey); outputFormat {
	case "", "wide", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown output format %v; one of: %v", outputFormat, strings.Join(outputFormatValues, "|"))
	}
}
