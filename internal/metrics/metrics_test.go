package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/geotag/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.PhotosProcessed.WithLabelValues("located").Inc()
	m.ConversionFailures.WithLabelValues("division_by_zero").Add(2)
	m.RecordsSplit.WithLabelValues("written").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.PhotosProcessed.WithLabelValues("located")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.ConversionFailures.WithLabelValues("division_by_zero")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RecordsSplit.WithLabelValues("written")), 0)

	assert.Panics(t, func() { metrics.NewMetrics(reg) }, "registering twice must fail")
}

func TestWriteTextfile(t *testing.T) {
	dir := filet.TmpDir(t, "")
	defer filet.CleanUp(t)

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.PhotosProcessed.WithLabelValues("no_gps").Inc()

	path := filepath.Join(dir, "geotag.prom")
	require.NoError(t, metrics.WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `geotag_photos_processed_total{status="no_gps"} 1`)

	err = metrics.WriteTextfile(filepath.Join(dir, "missing", "geotag.prom"), reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write metrics textfile")
}
