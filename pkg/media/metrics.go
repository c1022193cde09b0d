package media

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ingestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "imageboard_media_ingest_total",
	Help: "Media ingestion attempts by kind and outcome.",
}, []string{"kind", "status"})

var sweepRemoved = promauto.NewCounter(prometheus.CounterOpts{
	Name: "imageboard_media_sweep_removed_total",
	Help: "Stale partial upload files removed by the sweeper.",
})
