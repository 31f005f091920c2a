package metrics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/safing/poolrand/api"
	"github.com/safing/poolrand/config"
	"github.com/safing/poolrand/log"
)

const pushInterval = 10 * time.Second

func registerAPI() error {
	api.RegisterHandler("/metrics", &metricsAPI{}, http.MethodGet)

	return api.RegisterEndpoint(api.Endpoint{
		Path:        "metrics/list",
		Method:      http.MethodGet,
		StructFunc:  listMetrics,
		Name:        "Export Registered Metrics",
		Description: "List all registered metrics with their metadata.",
	})
}

func listMetrics(_ *api.Request) (interface{}, error) {
	registryLock.RLock()
	defer registryLock.RUnlock()

	list := make([]Metric, len(registry))
	copy(list, registry)
	return list, nil
}

type metricsAPI struct{}

func (m *metricsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Unknown or missing levels show everything.
	expertiseLevel, ok := config.ParseExpertiseLevel(r.URL.Query().Get("level"))
	if !ok {
		expertiseLevel = config.ExpertiseLevelDeveloper
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	WriteMetrics(w, expertiseLevel)
}

// WriteMetrics writes all metrics up to the given expertise level to the
// given writer in the prometheus text format.
func WriteMetrics(w io.Writer, expertiseLevel config.ExpertiseLevel) {
	registryLock.RLock()
	defer registryLock.RUnlock()

	for _, metric := range registry {
		if expertiseLevel >= metric.Opts().ExpertiseLevel {
			metric.WritePrometheus(w)
		}
	}
}

func writeMetricsTo(ctx context.Context, url string) error {
	buf := &bytes.Buffer{}
	WriteMetrics(buf, config.ExpertiseLevelDeveloper)

	if buf.Len() == 0 {
		log.Debugf("metrics: not pushing metrics, nothing to send")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; version=0.0.4")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		return nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("got %s while writing metrics to %s: %s", resp.Status, url, body)
	}
}

// metricsWriter pushes metrics to url until ctx is canceled.
func metricsWriter(ctx context.Context, url string) error {
	ticker := time.NewTicker(pushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := writeMetricsTo(ctx, url); err != nil {
				return err
			}
		}
	}
}
