package stats

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	_ = 1 << (10 * iota)
	kilobyte
	megabyte

	dumpFile = "metrics.txt"
)

// EnableMemoryStatistics logs memory usage and goroutine count every
// interval until ctx is done. Then, if dir is not empty, the metrics of the
// default prometheus registry are appended to a file in dir.
func EnableMemoryStatistics(
	ctx context.Context, interval time.Duration, dir string,
) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				LogRuntimeStatistics()
			case <-ctx.Done():
				if dir == "" {
					return
				}
				if err := DumpMetrics(filepath.Join(dir, dumpFile)); err != nil {
					log.WithError(err).Warn("failed to dump metrics")
				}
				return
			}
		}
	}()
}

// LogRuntimeStatistics logs heap usage and number of running goroutines.
func LogRuntimeStatistics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	log.WithFields(log.Fields{
		"total_alloc_mb": fmt.Sprintf("%.2f", toMegabytes(m.TotalAlloc)),
		"heap_alloc_mb":  fmt.Sprintf("%.2f", toMegabytes(m.HeapAlloc)),
		"mallocs":        m.Mallocs,
		"frees":          m.Frees,
		"goroutines":     runtime.NumGoroutine(),
	}).Info("runtime stats")
}

// DumpMetrics appends the default prometheus metrics to the given file.
func DumpMetrics(path string) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "# %s\n", time.Now().UTC().Format(time.RFC3339))
	for _, f := range families {
		if _, err := writer.WriteString(f.String() + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}

func toMegabytes(bytes uint64) float64 {
	return float64(bytes) / megabyte
}
