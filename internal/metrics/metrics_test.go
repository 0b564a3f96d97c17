package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func prometheusTestRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	return prometheus.NewRegistry()
}

func TestNewRegistersWithoutPanic(t *testing.T) {
	m := New()
	reg := prometheusTestRegistry(t)
	m.MustRegister(reg)
}

func TestCountersAndGaugesObserveUpdates(t *testing.T) {
	m := New()
	reg := prometheusTestRegistry(t)
	m.MustRegister(reg)

	m.DescriptionsLoaded.WithLabelValues("jig").Set(3)
	m.LiveUnits.WithLabelValues("jig").Set(2)
	m.RescanTotal.Inc()
	m.RescanTotal.Inc()
	m.Incompatible.WithLabelValues("test").Inc()
	m.ActivateFailures.Inc()

	if got := testutil.ToFloat64(m.DescriptionsLoaded.WithLabelValues("jig")); got != 3 {
		t.Errorf("DescriptionsLoaded[jig] = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.LiveUnits.WithLabelValues("jig")); got != 2 {
		t.Errorf("LiveUnits[jig] = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RescanTotal); got != 2 {
		t.Errorf("RescanTotal = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Incompatible.WithLabelValues("test")); got != 1 {
		t.Errorf("Incompatible[test] = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ActivateFailures); got != 1 {
		t.Errorf("ActivateFailures = %v, want 1", got)
	}
}

func TestMustRegisterPanicsOnDuplicateRegistration(t *testing.T) {
	m := New()
	reg := prometheusTestRegistry(t)
	m.MustRegister(reg)

	defer func() {
		if recover() == nil {
			t.Fatal("expected MustRegister to panic on a duplicate registration")
		}
	}()
	m.MustRegister(reg)
}

func TestCollectAndCountMetricFamilyNames(t *testing.T) {
	m := New()
	reg := prometheusTestRegistry(t)
	m.MustRegister(reg)

	m.RescanTotal.Inc()

	count, err := testutil.GatherAndCount(reg, "unitd_rescans_total")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if count != 1 {
		t.Errorf("GatherAndCount(unitd_rescans_total) = %d, want 1", count)
	}

	// A vector with no children is left out of Gather's output, so give
	// DescriptionsLoaded one label value first.
	m.DescriptionsLoaded.WithLabelValues("jig").Set(0)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	if !strings.Contains(joined, "unitd_descriptions_loaded") {
		t.Errorf("expected unitd_descriptions_loaded among registered families, got %v", names)
	}
}
