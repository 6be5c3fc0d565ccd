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

package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/minio/drivemap/pkg/blkid"
	"github.com/minio/drivemap/pkg/consts"
	"github.com/minio/drivemap/pkg/drive"
	"github.com/prometheus/client_golang/prometheus"
	clientmodelgo "github.com/prometheus/client_model/go"
)

type metricType string

const (
	metricDrives        metricType = consts.AppName + "_drives"
	metricDrivePaths    metricType = consts.AppName + "_drive_paths"
	metricDrivePathInfo metricType = consts.AppName + "_drive_path_info"
	metricBuildEntries  metricType = consts.AppName + "_build_entries"
)

var (
	uuid1 = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	uuid2 = uuid.MustParse("22222222-2222-2222-2222-222222222222")

	identities = []drive.Identity{
		{
			ID: uuid1,
			Paths: []drive.DrivePath{
				{BlockPath: "/dev/sdb", SGPath: "/dev/sg1"},
				{BlockPath: "/dev/sdc", SGPath: "/dev/sg2"},
			},
		},
		{
			ID:    uuid2,
			Paths: []drive.DrivePath{{BlockPath: "/dev/sdd", SGPath: "/dev/sg3"}},
		},
	}

	report = &drive.Report{
		Outcomes: []drive.Outcome{
			{Entry: "1:0:0:0", Reason: drive.ReasonAdded},
			{Entry: "2:0:0:0", Reason: drive.ReasonAdded},
			{Entry: "3:0:0:0", Reason: drive.ReasonAdded},
			{Entry: "4:0:0:0", Reason: drive.ReasonProbeFailure, Err: blkid.ErrNoPartitionTable},
			{Entry: "host0", Reason: drive.ReasonEntrySkip, Err: errors.New("no block device")},
		},
	}
)

func snapshot() ([]drive.Identity, *drive.Report) {
	return identities, report
}

func getLabel(labelPairs []*clientmodelgo.LabelPair, name string) string {
	for _, lp := range labelPairs {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func getFQNameFromDesc(desc string) string {
	firstPart := strings.Split(desc, ",")[0]
	fqName := strings.Split(firstPart, ":")
	if len(fqName) != 2 {
		panic("cannot parse the fqname")
	}
	return strings.ReplaceAll(strings.TrimSpace(fqName[1]), "\"", "")
}

func collect(t *testing.T, snapshot SnapshotFunc) map[metricType][]*clientmodelgo.Metric {
	metricChan := make(chan prometheus.Metric)
	go func() {
		newMetricsCollector(snapshot).Collect(metricChan)
		close(metricChan)
	}()

	metrics := map[metricType][]*clientmodelgo.Metric{}
	for metric := range metricChan {
		metricOut := &clientmodelgo.Metric{}
		if err := metric.Write(metricOut); err != nil {
			t.Fatal(err)
		}
		mt := metricType(getFQNameFromDesc(metric.Desc().String()))
		metrics[mt] = append(metrics[mt], metricOut)
	}
	return metrics
}

func TestCollect(t *testing.T) {
	metrics := collect(t, snapshot)

	if len(metrics[metricDrives]) != 1 || metrics[metricDrives][0].GetGauge().GetValue() != 2 {
		t.Fatalf("%v: unexpected metrics: %v", metricDrives, metrics[metricDrives])
	}

	drivePaths := map[string]float64{}
	for _, metric := range metrics[metricDrivePaths] {
		drivePaths[getLabel(metric.GetLabel(), "drive")] = metric.GetGauge().GetValue()
	}
	if drivePaths[uuid1.String()] != 2 || drivePaths[uuid2.String()] != 1 || len(drivePaths) != 2 {
		t.Fatalf("%v: unexpected values: %v", metricDrivePaths, drivePaths)
	}

	if len(metrics[metricDrivePathInfo]) != 3 {
		t.Fatalf("%v: expected: 3; got: %v", metricDrivePathInfo, len(metrics[metricDrivePathInfo]))
	}
	for _, metric := range metrics[metricDrivePathInfo] {
		if getLabel(metric.GetLabel(), "block") == "/dev/sdd" && getLabel(metric.GetLabel(), "sg") != "/dev/sg3" {
			t.Fatalf("%v: unexpected labels: %v", metricDrivePathInfo, metric.GetLabel())
		}
	}

	testCases := []struct {
		result        drive.Reason
		expectedValue float64
	}{
		{drive.ReasonAdded, 3},
		{drive.ReasonProbeFailure, 1},
		{drive.ReasonEntrySkip, 1},
		{drive.ReasonCapacityExceeded, 0},
		{drive.ReasonDuplicatePath, 0},
	}

	buildEntries := map[string]float64{}
	for _, metric := range metrics[metricBuildEntries] {
		buildEntries[getLabel(metric.GetLabel(), "result")] = metric.GetGauge().GetValue()
	}
	for i, testCase := range testCases {
		value, found := buildEntries[string(testCase.result)]
		if !found || value != testCase.expectedValue {
			t.Fatalf("case %v: %v: expected: %v; got: %v", i+1, testCase.result, testCase.expectedValue, value)
		}
	}
}

func TestCollectWithoutReport(t *testing.T) {
	metrics := collect(t, func() ([]drive.Identity, *drive.Report) { return nil, nil })

	if len(metrics[metricDrives]) != 1 || metrics[metricDrives][0].GetGauge().GetValue() != 0 {
		t.Fatalf("%v: unexpected metrics: %v", metricDrives, metrics[metricDrives])
	}
	if len(metrics[metricBuildEntries]) != 0 {
		t.Fatalf("%v: unexpected metrics: %v", metricBuildEntries, metrics[metricBuildEntries])
	}
}

func TestHandler(t *testing.T) {
	server := httptest.NewServer(Handler(snapshot))
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, line := range []string{
		"drivemap_drives 2",
		`drivemap_drive_paths{drive="11111111-1111-1111-1111-111111111111"} 2`,
		`drivemap_build_entries{result="added"} 3`,
	} {
		if !strings.Contains(string(body), line) {
			t.Fatalf("%q not found in response:\n%s", line, body)
		}
	}
}
