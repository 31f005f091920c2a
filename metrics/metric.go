package metrics

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"

	vm "github.com/VictoriaMetrics/metrics"

	"github.com/safing/poolrand/config"
)

// metricNamespace prefixes all exported metric names.
const metricNamespace = "poolrand"

const prometheusBaseFormt = "[a-zA-Z_][a-zA-Z0-9_]*"

var (
	prometheusFormat = regexp.MustCompile("^" + prometheusBaseFormt + "$")

	registry     []Metric
	registryLock sync.RWMutex

	// ErrInvalidID is returned for metric IDs that cannot be converted to a prometheus name.
	ErrInvalidID = errors.New("invalid metric ID")
	// ErrAlreadyRegistered is returned when a metric with the same ID and labels already exists.
	ErrAlreadyRegistered = errors.New("metric already registered")
)

// Metric represents one or more metrics.
type Metric interface {
	ID() string
	LabeledID() string
	Opts() *Options
	WritePrometheus(w io.Writer)
}

// Options can be used to set advanced metric settings.
type Options struct {
	// Name defines an optional human readable name for the metric.
	Name string

	// Description defines an optional human readable description of the metric.
	Description string

	// ExpertiseLevel defines which expertise level the metric is meant for.
	ExpertiseLevel config.ExpertiseLevel
}

type metricBase struct {
	Identifier string
	Labels     map[string]string
	Prometheus string
	Options    *Options
	set        *vm.Set
}

// newMetricBase converts id to a prometheus name and appends the sorted
// labels. IDs use slashes as separators, such as "random/bytes/total".
func newMetricBase(id string, labels map[string]string, opts Options) (*metricBase, error) {
	name := metricNamespace + "_" + strings.ReplaceAll(id, "/", "_")
	if !prometheusFormat.MatchString(name) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	for k := range labels {
		if !prometheusFormat.MatchString(k) {
			return nil, fmt.Errorf("%w: invalid label %q", ErrInvalidID, k)
		}
	}

	return &metricBase{
		Identifier: id,
		Labels:     labels,
		Prometheus: name + formatLabels(labels),
		Options:    &opts,
		set:        vm.NewSet(),
	}, nil
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%q", k, labels[k]))
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

func (m *metricBase) ID() string {
	return m.Identifier
}

func (m *metricBase) LabeledID() string {
	return m.Prometheus
}

func (m *metricBase) Opts() *Options {
	return m.Options
}

func (m *metricBase) WritePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
}

func register(m Metric) error {
	registryLock.Lock()
	defer registryLock.Unlock()

	for _, registered := range registry {
		if registered.LabeledID() == m.LabeledID() {
			return fmt.Errorf("%w: %s", ErrAlreadyRegistered, m.LabeledID())
		}
	}

	registry = append(registry, m)
	sort.Slice(registry, func(i, j int) bool {
		return registry[i].LabeledID() < registry[j].LabeledID()
	})
	return nil
}
