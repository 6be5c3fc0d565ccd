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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mb0/glob"
	"github.com/minio/drivemap/pkg/blkid"
	"github.com/minio/drivemap/pkg/dm"
	"github.com/minio/drivemap/pkg/drive"
	"github.com/minio/drivemap/pkg/sys"
	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func eprintf(isErr bool, format string, a ...interface{}) {
	if viper.GetBool(quietKey) {
		return
	}

	message := fmt.Sprintf(format, a...)
	if isErr {
		fmt.Fprint(os.Stderr, red("ERROR "), message)
	} else {
		fmt.Fprint(os.Stderr, yellow(message))
	}
}

func printYAML(obj interface{}) error {
	data, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("unable to marshal object; %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func printJSON(obj interface{}) error {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal object; %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printableString(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printableBytes(value uint64) string {
	if value == 0 {
		return "-"
	}
	return humanize.IBytes(value)
}

func newTableWriter(header table.Row) table.Writer {
	writer := table.NewWriter()
	writer.SetOutputMirror(os.Stdout)
	if !viper.GetBool(noHeadersKey) {
		writer.AppendHeader(header)
	}

	text.DisableColors()
	style := table.StyleColoredDark
	style.Color.IndexColumn = text.Colors{text.FgHiBlue, text.BgHiBlack}
	style.Color.Header = text.Colors{text.FgHiBlue, text.BgHiBlack}
	writer.SetStyle(style)
	return writer
}

// matchDrive returns whether any block or generic device name of identity
// matches one of patterns; no pattern matches everything.
func matchDrive(identity drive.Identity, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	for _, path := range identity.Paths {
		for _, name := range []string{filepath.Base(path.BlockPath), filepath.Base(path.SGPath)} {
			for _, pattern := range patterns {
				pattern = strings.TrimPrefix(pattern, "/dev/")
				if matched, _ := glob.Match(pattern, name); matched {
					return true
				}
			}
		}
	}
	return false
}

func newScanner() *sys.Scanner {
	return sys.NewScanner(viper.GetString(sysfsBusDirKey), viper.GetString(devDirKey))
}

func newNormalizer() *dm.Normalizer {
	return dm.NewNormalizer(dm.DMSetup{Command: viper.GetString(dmsetupKey)})
}

func buildRegistry() (*drive.Registry, *drive.Report, error) {
	registry := drive.NewRegistry(viper.GetInt(maxPathsKey))
	report, err := registry.Build(newScanner(), blkid.DeviceProber{})
	if err != nil {
		return nil, nil, err
	}

	if skipped := report.Skipped(); len(skipped) != 0 {
		eprintf(false, "%v SCSI bus entries skipped; run with -v=3 for details\n", len(skipped))
	}
	return registry, report, nil
}
