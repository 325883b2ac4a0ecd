package metrics

import (
	"results-tracker/trackerctl/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// TransferMetrics tracks data moved off the hosting provider.
//
// Metrics:
//   - trackerctl_files_downloaded_total: files fetched over FTP
//   - trackerctl_bytes_downloaded_total: bytes fetched over FTP
//   - trackerctl_documents_exported_total: Firestore documents written
type TransferMetrics struct {
	filesDownloaded   prometheus.Counter
	bytesDownloaded   prometheus.Counter
	documentsExported prometheus.Counter
}

// NewTransferMetrics creates and registers transfer metrics with the provided registry.
func NewTransferMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *TransferMetrics {
	tm := &TransferMetrics{
		filesDownloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "files_downloaded_total",
			Help:      "Total number of files downloaded over FTP",
		}),
		bytesDownloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "bytes_downloaded_total",
			Help:      "Total number of bytes downloaded over FTP",
		}),
		documentsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "documents_exported_total",
			Help:      "Total number of Firestore documents exported",
		}),
	}

	registry.MustRegister(tm.filesDownloaded, tm.bytesDownloaded, tm.documentsExported)

	return tm
}

// RecordDownload counts one file and its size.
func (tm *TransferMetrics) RecordDownload(n int64) {
	tm.filesDownloaded.Inc()
	if n > 0 {
		tm.bytesDownloaded.Add(float64(n))
	}
}

// RecordDocuments counts exported documents.
func (tm *TransferMetrics) RecordDocuments(n int) {
	if n > 0 {
		tm.documentsExported.Add(float64(n))
	}
}
