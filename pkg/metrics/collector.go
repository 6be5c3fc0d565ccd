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
	"github.com/minio/drivemap/pkg/consts"
	"github.com/minio/drivemap/pkg/drive"
	"github.com/prometheus/client_golang/prometheus"
)

// SnapshotFunc returns copies of registered drives and the last build report.
type SnapshotFunc func() (identities []drive.Identity, report *drive.Report)

var buildResults = []drive.Reason{
	drive.ReasonAdded,
	drive.ReasonEntrySkip,
	drive.ReasonProbeFailure,
	drive.ReasonCapacityExceeded,
	drive.ReasonDuplicatePath,
}

type metricsCollector struct {
	snapshot SnapshotFunc

	drivesDesc       *prometheus.Desc
	drivePathsDesc   *prometheus.Desc
	pathInfoDesc     *prometheus.Desc
	buildEntriesDesc *prometheus.Desc
}

func newMetricsCollector(snapshot SnapshotFunc) *metricsCollector {
	return &metricsCollector{
		snapshot: snapshot,
		drivesDesc: prometheus.NewDesc(
			prometheus.BuildFQName(consts.AppName, "", "drives"),
			"Number of SCSI drives in the registry",
			nil, nil),
		drivePathsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(consts.AppName, "", "drive_paths"),
			"Number of device paths reaching the drive",
			[]string{"drive"}, nil),
		pathInfoDesc: prometheus.NewDesc(
			prometheus.BuildFQName(consts.AppName, "", "drive_path_info"),
			"Block and SCSI generic device of a drive path",
			[]string{"drive", "block", "sg"}, nil),
		buildEntriesDesc: prometheus.NewDesc(
			prometheus.BuildFQName(consts.AppName, "", "build_entries"),
			"Number of SCSI bus entries by result of the last registry build",
			[]string{"result"}, nil),
	}
}

// Describe sends the super set of all possible descriptors of metrics
func (c *metricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.drivesDesc
	ch <- c.drivePathsDesc
	ch <- c.pathInfoDesc
	ch <- c.buildEntriesDesc
}

// Collect is called by Prometheus registry when collecting metrics.
func (c *metricsCollector) Collect(ch chan<- prometheus.Metric) {
	identities, report := c.snapshot()

	ch <- prometheus.MustNewConstMetric(c.drivesDesc, prometheus.GaugeValue, float64(len(identities)))

	for _, identity := range identities {
		id := identity.ID.String()
		ch <- prometheus.MustNewConstMetric(c.drivePathsDesc, prometheus.GaugeValue, float64(len(identity.Paths)), id)
		for _, path := range identity.Paths {
			ch <- prometheus.MustNewConstMetric(c.pathInfoDesc, prometheus.GaugeValue, 1, id, path.BlockPath, path.SGPath)
		}
	}

	if report == nil {
		return
	}
	for _, result := range buildResults {
		ch <- prometheus.MustNewConstMetric(c.buildEntriesDesc, prometheus.GaugeValue, float64(report.Count(result)), string(result))
	}
}
