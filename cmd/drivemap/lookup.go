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
	"errors"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/viper"
)

var errLookupFailed = errors.New("lookup failed for one or more names")

type lookupResult struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// lookupNames calls lookup for each name and prints results; it fails if
// any lookup failed.
func lookupNames(names []string, valueHeader string, lookup func(name string) (string, error)) error {
	results := make([]lookupResult, 0, len(names))
	failed := false
	for _, name := range names {
		value, err := lookup(name)
		result := lookupResult{Name: name, Value: value}
		if err != nil {
			failed = true
			result.Error = err.Error()
			eprintf(true, "%v: %v\n", name, err)
		}
		results = append(results, result)
	}

	switch viper.GetString(outputKey) {
	case "json":
		if err := printJSON(results); err != nil {
			return err
		}
	case "yaml":
		if err := printYAML(results); err != nil {
			return err
		}
	default:
		writer := newTableWriter(table.Row{"NAME", valueHeader})
		for _, result := range results {
			writer.AppendRow(table.Row{result.Name, printableString(result.Value)})
		}
		writer.Render()
	}

	if failed {
		return errLookupFailed
	}
	return nil
}
