package http_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	cfghttp "github.com/sagarc03/cfgchain/http"
)

func TestMetrics_RecordResolution(t *testing.T) {
	m := cfghttp.NewMetrics()

	m.RecordResolution("region", true, nil)
	m.RecordResolution("region", true, nil)
	m.RecordResolution("region", false, nil)
	m.RecordResolution("timeout", false, errors.New("bad"))

	assert.Equal(t, 3, testutil.CollectAndCount(m.Registry(), "cfgchain_resolutions_total"))

	families, err := m.Registry().Gather()
	assert.NoError(t, err)
	counts := make(map[string]float64)
	for _, mf := range families {
		if mf.GetName() != "cfgchain_resolutions_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			var name, outcome string
			for _, l := range metric.GetLabel() {
				switch l.GetName() {
				case "name":
					name = l.GetValue()
				case "outcome":
					outcome = l.GetValue()
				}
			}
			counts[name+"/"+outcome] = metric.GetCounter().GetValue()
		}
	}

	assert.Equal(t, map[string]float64{
		"region/" + cfghttp.OutcomePresent: 2,
		"region/" + cfghttp.OutcomeAbsent:  1,
		"timeout/" + cfghttp.OutcomeError:  1,
	}, counts)
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := cfghttp.NewMetrics()

	m.ObserveRequest(http.MethodGet, "/variables/{name}/", "200", 5*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry(), "cfgchain_http_request_duration_seconds"))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a := cfghttp.NewMetrics()
	b := cfghttp.NewMetrics()

	a.RecordResolution("region", true, nil)

	assert.Equal(t, 1, testutil.CollectAndCount(a.Registry(), "cfgchain_resolutions_total"))
	assert.Equal(t, 0, testutil.CollectAndCount(b.Registry(), "cfgchain_resolutions_total"))
}
