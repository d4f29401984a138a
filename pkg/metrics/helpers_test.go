package metrics

import (
	"fmt"

	dto "github.com/prometheus/client_model/go"
)

// sample finds the metric in family name whose labels include every pair in
// labels (name, value, name, value...).
func sample(mfs []*dto.MetricFamily, name string, labels ...string) (*dto.Metric, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if hasLabels(m, labels) {
				return m, nil
			}
		}
		return nil, fmt.Errorf("%s has no sample with labels %v", name, labels)
	}
	return nil, fmt.Errorf("%s not gathered", name)
}

func hasLabels(m *dto.Metric, labels []string) bool {
	got := map[string]string{}
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for i := 0; i+1 < len(labels); i += 2 {
		if got[labels[i]] != labels[i+1] {
			return false
		}
	}
	return true
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels ...string) (float64, error) {
	m, err := sample(mfs, name, labels...)
	if err != nil {
		return 0, err
	}
	return m.GetCounter().GetValue(), nil
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels ...string) (float64, error) {
	m, err := sample(mfs, name, labels...)
	if err != nil {
		return 0, err
	}
	return m.GetHistogram().GetSampleSum(), nil
}
