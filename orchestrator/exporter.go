// orchestrator/exporter.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dcs-atis/atisd/util"
)

// reportExporter accumulates the latest textual report per station and
// rewrites a single JSON object atomically on every update, per
// spec.md §4.F. It satisfies supervisor.Exporter.
type reportExporter struct {
	path string

	mu      sync.Mutex
	reports map[string]string
}

func newReportExporter(path string) *reportExporter {
	return &reportExporter{
		path:    path,
		reports: make(map[string]string),
	}
}

func (e *reportExporter) Export(ctx context.Context, stationName, textual string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reports[stationName] = textual

	data, err := json.MarshalIndent(e.reports, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reports: %w", err)
	}

	// No TempFileRegistry: a crash mid-rewrite just leaves a stray
	// "*.tmp" sibling next to atis-reports.json, which the next export
	// cycle's os.CreateTemp call doesn't care about; registering here
	// would also race cmd/atisd's own SIGINT handling against
	// MakeTempFileRegistry's built-in os.Exit(0) on the same signal.
	return util.WriteFileAtomic(nil, e.path, data, 0644)
}
