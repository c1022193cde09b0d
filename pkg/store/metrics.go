package store

import (
	"io/fs"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "imageboard_store_ops_total",
	Help: "Store operations by op and outcome.",
}, []string{"op", "status"})

var _ = promauto.NewGaugeFunc(prometheus.GaugeOpts{
	Name: "imageboard_store_disk_bytes",
	Help: "Total on-disk size of the pebble directory, best effort.",
}, func() float64 { return float64(DiskUsageBytes()) })

// DiskUsageBytes returns the total on-disk size of the DB directory. Best
// effort; unreadable entries are skipped.
func DiskUsageBytes() uint64 {
	if dbPath == "" {
		return 0
	}
	var total uint64
	_ = filepath.WalkDir(dbPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += uint64(fi.Size())
		}
		return nil
	})
	return total
}
