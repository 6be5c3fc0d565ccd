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
	"context"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/minio/drivemap/pkg/blkid"
	"github.com/minio/drivemap/pkg/consts"
	"github.com/minio/drivemap/pkg/drive"
	"github.com/minio/drivemap/pkg/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the drive registry and export its metrics",
	Long:  "Build the drive registry and export its metrics; the registry is rebuilt on SIGHUP.",
	Example: strings.ReplaceAll(
		`1. Export metrics on port 9100
   $ {APP_NAME} run --metrics-port=9100

2. Rebuild the registry of a running instance
   $ pkill -HUP {APP_NAME}`,
		`{APP_NAME}`,
		consts.AppName,
	),
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		return runMain(c.Context())
	},
}

func init() {
	setFlagOpts(runCmd)
	addMetricsPortFlag(runCmd, "Metrics port")
}

// registryHolder serializes registry rebuilds against metrics scrapes.
type registryHolder struct {
	mutex    sync.RWMutex
	registry *drive.Registry
	report   *drive.Report
}

func (h *registryHolder) rebuild(scanner drive.Scanner, prober blkid.Prober) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	report, err := h.registry.Rebuild(scanner, prober)
	h.report = report
	return err
}

func (h *registryHolder) snapshot() ([]drive.Identity, *drive.Report) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return h.registry.Dump(), h.report
}

func runMain(ctx context.Context) error {
	holder := &registryHolder{registry: drive.NewRegistry(viper.GetInt(maxPathsKey))}
	scanner := newScanner()
	prober := blkid.DeviceProber{}

	if err := holder.rebuild(scanner, prober); err != nil {
		return err
	}
	klog.InfoS("drive registry built", "drives", holder.registry.Len())

	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	defer signal.Stop(hupCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- metrics.ServeMetrics(ctx, holder.snapshot, viper.GetInt(metricsPortKey))
	}()

	for {
		select {
		case <-ctx.Done():
			return <-errCh
		case err := <-errCh:
			return err
		case <-hupCh:
			if err := holder.rebuild(scanner, prober); err != nil {
				klog.ErrorS(err, "unable to rebuild drive registry")
				continue
			}
			klog.InfoS("drive registry rebuilt", "drives", holder.registry.Len())
		}
	}
}
