// Package library implements the unit library: the live registry of
// jig, interface, test, and scenario descriptions and the instances
// selected from them, and the Rescan transaction that keeps the two in
// sync.
//
// Library is deliberately not internally synchronized, mirroring the
// teacher's RefCell-based UnitManager it's grounded on
// (original_source/src/unitlibrary.rs): every exported method assumes
// it runs on the engine's single owning goroutine, one call at a time.
// cmd/unitd is the only caller, and it drives the library from one
// loop, the same way harpoon-agent's registry and containerLog actors
// each own their state behind a single goroutine rather than a mutex.
package library

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cfti/unitd/internal/broadcast"
	"github.com/cfti/unitd/internal/config"
	"github.com/cfti/unitd/internal/ifacerun"
	"github.com/cfti/unitd/internal/metrics"
	"github.com/cfti/unitd/internal/unit"
)

// Library holds every kind's descriptions, live instances, per-name
// status, and dirty set.
type Library struct {
	bus     *broadcast.Bus[unit.Event]
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	control chan ifacerun.ControlMessage

	status map[unit.Name]unit.Status

	jigDescriptions map[unit.Name]*unit.JigDescription
	jigs            map[unit.Name]*unit.Jig
	dirtyJigs       map[unit.Name]struct{}

	interfaceDescriptions map[unit.Name]*ifacerun.Description
	interfaces            map[unit.Name]*ifacerun.Interface
	dirtyInterfaces       map[unit.Name]struct{}

	testDescriptions map[unit.Name]*unit.TestDescription
	tests            map[unit.Name]*unit.Test
	dirtyTests       map[unit.Name]struct{}

	scenarioDescriptions map[unit.Name]*unit.ScenarioDescription
	scenarios            map[unit.Name]*unit.Scenario
	dirtyScenarios       map[unit.Name]struct{}
}

// New builds an empty Library. m may be nil, in which case rescan
// statistics are simply not recorded.
func New(bus *broadcast.Bus[unit.Event], cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{
		bus:     bus,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		control: make(chan ifacerun.ControlMessage, 256),

		status: map[unit.Name]unit.Status{},

		jigDescriptions: map[unit.Name]*unit.JigDescription{},
		jigs:            map[unit.Name]*unit.Jig{},
		dirtyJigs:       map[unit.Name]struct{}{},

		interfaceDescriptions: map[unit.Name]*ifacerun.Description{},
		interfaces:            map[unit.Name]*ifacerun.Interface{},
		dirtyInterfaces:       map[unit.Name]struct{}{},

		testDescriptions: map[unit.Name]*unit.TestDescription{},
		tests:            map[unit.Name]*unit.Test{},
		dirtyTests:       map[unit.Name]struct{}{},

		scenarioDescriptions: map[unit.Name]*unit.ScenarioDescription{},
		scenarios:            map[unit.Name]*unit.Scenario{},
		dirtyScenarios:       map[unit.Name]struct{}{},
	}
}

// Control returns the channel interface readers post ControlMessages
// onto (buffered to 256 messages). The library only ever writes to it
// via ifacerun.Interface; cmd/unitd does not read from it, so once the
// buffer is full, interface readers block on their next post.
func (l *Library) Control() <-chan ifacerun.ControlMessage { return l.control }

// JigLoaded reports whether a jig with this name currently has a live
// instance. It's the Library's implementation of unit.JigChecker, the
// only thing a description's compatibility check needs to know about
// the rest of the library.
func (l *Library) JigLoaded(name unit.Name) bool {
	_, ok := l.jigs[name]
	return ok
}

// JigInstance returns the live jig instance for name, if any.
func (l *Library) JigInstance(name unit.Name) (*unit.Jig, bool) {
	j, ok := l.jigs[name]
	return j, ok
}

// TestInstance returns the live test instance for name, if any.
func (l *Library) TestInstance(name unit.Name) (*unit.Test, bool) {
	t, ok := l.tests[name]
	return t, ok
}

// ScenarioInstance returns the live scenario instance for name, if any.
func (l *Library) ScenarioInstance(name unit.Name) (*unit.Scenario, bool) {
	s, ok := l.scenarios[name]
	return s, ok
}

// InterfaceInstance returns the live, activated interface for name, if
// any.
func (l *Library) InterfaceInstance(name unit.Name) (*ifacerun.Interface, bool) {
	i, ok := l.interfaces[name]
	return i, ok
}

func (l *Library) markDirty(dirty map[unit.Name]struct{}, id unit.Name) {
	dirty[id] = struct{}{}

	if st, ok := l.status[id]; ok && (st == unit.LoadStarted || st == unit.UnloadStarted) {
		return
	}
	l.status[id] = unit.UpdateStarted
}

func containsName(names []unit.Name, target unit.Name) bool {
	for _, n := range names {
		if n == target {
			return true
		}
	}
	return false
}

func (l *Library) publish(event unit.Event) {
	if l.bus != nil {
		l.bus.Publish(event)
	}
}

func (l *Library) logStatus(id unit.Name, kind unit.Kind, note string) {
	l.logger.Debug("unit status", zap.String("id", id.String()), zap.String("kind", kind.String()), zap.String("note", note))
}

func (l *Library) countMetric(kind unit.Kind) {
	if l.metrics == nil {
		return
	}
	var descCount, liveCount int
	switch kind {
	case unit.KindJig:
		descCount, liveCount = len(l.jigDescriptions), len(l.jigs)
	case unit.KindInterface:
		descCount, liveCount = len(l.interfaceDescriptions), len(l.interfaces)
	case unit.KindTest:
		descCount, liveCount = len(l.testDescriptions), len(l.tests)
	case unit.KindScenario:
		descCount, liveCount = len(l.scenarioDescriptions), len(l.scenarios)
	}
	l.metrics.DescriptionsLoaded.WithLabelValues(kind.String()).Set(float64(descCount))
	l.metrics.LiveUnits.WithLabelValues(kind.String()).Set(float64(liveCount))
}

func unexpectedStatus(kind unit.Kind, id unit.Name, st unit.Status) string {
	return fmt.Sprintf("library: unit %s (%s) has unexpected status %s going into load", id, kind, st)
}
