package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TasksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vreddit_tasks_created_total",
		Help: "Total number of download tasks queued",
	})

	TasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vreddit_tasks_completed_total",
		Help: "Total number of download tasks completed",
	})

	TasksFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vreddit_tasks_failed_total",
		Help: "Total number of download tasks failed",
	})

	DownloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vreddit_downloads_total",
		Help: "Total number of orchestration runs",
	})

	DownloadsSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vreddit_downloads_success_total",
		Help: "Total number of runs that produced a muxed file",
	})

	DownloadsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vreddit_downloads_failed_total",
		Help: "Failed runs by the stage that failed and the error kind",
	}, []string{"stage", "kind"})

	DownloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vreddit_download_duration_seconds",
		Help:    "Duration of a full run in seconds",
		Buckets: prometheus.DefBuckets,
	})

	DownloadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vreddit_download_bytes_total",
		Help: "Total bytes of muxed output written",
	})
)
