package library

import (
	"time"

	"go.uber.org/zap"

	"github.com/cfti/unitd/internal/unit"
)

// Rescan runs the full seven-step reconciliation transaction described
// in original_source/src/unitlibrary.rs's rescan: propagate
// dependency-driven dirtiness, unload everything whose status came in
// as UnloadStarted, then (re)load jigs, interfaces, tests, and
// scenarios in that order. It is bracketed by RescanStart/RescanFinish
// broadcasts and assumes single-threaded, non-reentrant use.
func (l *Library) Rescan() {
	start := time.Now()
	l.publish(unit.RescanStart{})

	l.propagateJigDirty()
	l.propagateTestDirty()

	l.unloadJigs()
	l.unloadTests()
	l.unloadScenarios()
	l.unloadInterfaces()

	l.loadJigs()
	l.loadInterfaces()
	l.loadTests()
	l.loadScenarios()

	// Every status entry belonged to a dirty name handled above; none
	// outlives the transaction.
	l.status = map[unit.Name]unit.Status{}

	l.publish(unit.RescanFinish{})

	if l.metrics != nil {
		l.metrics.RescanTotal.Inc()
		l.metrics.RescanDuration.Observe(time.Since(start).Seconds())
	}
	for _, k := range []unit.Kind{unit.KindJig, unit.KindInterface, unit.KindTest, unit.KindScenario} {
		l.countMetric(k)
	}
}

// propagateJigDirty promotes every test, scenario, and interface
// description that names a dirty jig, per spec.md §4.3 step 1: a jig
// going up or down can change what's compatible with it.
func (l *Library) propagateJigDirty() {
	for jigID := range l.dirtyJigs {
		for id, desc := range l.testDescriptions {
			if containsName(desc.Jigs(), jigID) {
				l.markDirty(l.dirtyTests, id)
			}
		}
		for id, desc := range l.scenarioDescriptions {
			if containsName(desc.Jigs(), jigID) {
				l.markDirty(l.dirtyScenarios, id)
			}
		}
		for id, desc := range l.interfaceDescriptions {
			if containsName(desc.Jigs(), jigID) {
				l.markDirty(l.dirtyInterfaces, id)
			}
		}
	}
}

// propagateTestDirty promotes every *live* scenario that uses a dirty
// test, per spec.md §4.3 step 2. This is deliberately asymmetric with
// propagateJigDirty: it consults live scenario instances, not scenario
// descriptions, because uses_test is a property of the selected
// Scenario (its copied Tests= set), not of the on-disk description.
func (l *Library) propagateTestDirty() {
	for testID := range l.dirtyTests {
		for id, scen := range l.scenarios {
			if scen.UsesTest(testID) {
				l.markDirty(l.dirtyScenarios, id)
			}
		}
	}
}

// unloadJigs removes every dirty jig whose status is UnloadStarted from
// live and clears its status entry, leaving the name in dirtyJigs so
// loadJigs sees it and skips it (its description is already gone).
func (l *Library) unloadJigs() {
	for id := range l.dirtyJigs {
		if l.status[id] != unit.UnloadStarted {
			continue
		}
		delete(l.jigs, id)
		delete(l.status, id)
		l.logStatus(id, unit.KindJig, "unloaded")
	}
}

func (l *Library) unloadTests() {
	for id := range l.dirtyTests {
		if l.status[id] != unit.UnloadStarted {
			continue
		}
		delete(l.tests, id)
		delete(l.status, id)
		l.logStatus(id, unit.KindTest, "unloaded")
	}
}

func (l *Library) unloadScenarios() {
	for id := range l.dirtyScenarios {
		if l.status[id] != unit.UnloadStarted {
			continue
		}
		delete(l.scenarios, id)
		delete(l.status, id)
		l.logStatus(id, unit.KindScenario, "unloaded")
	}
}

func (l *Library) unloadInterfaces() {
	for id := range l.dirtyInterfaces {
		if l.status[id] != unit.UnloadStarted {
			continue
		}
		if old, ok := l.interfaces[id]; ok {
			if err := old.Deactivate(); err != nil {
				l.publish(unit.StatusEvent{Name: id, Contents: unit.DeactivateFailureStatus{Reason: err.Error()}})
			}
		}
		delete(l.interfaces, id)
		delete(l.status, id)
		l.logStatus(id, unit.KindInterface, "unloaded")
	}
}

func (l *Library) loadJigs() {
	for id := range l.dirtyJigs {
		st, ok := l.status[id]
		if !ok {
			continue
		}
		switch st {
		case unit.LoadStarted, unit.UpdateStarted:
			l.loadJig(id)
		default:
			panic(unexpectedStatus(unit.KindJig, id, st))
		}
	}
	l.dirtyJigs = map[unit.Name]struct{}{}
}

func (l *Library) loadJig(id unit.Name) {
	desc, ok := l.jigDescriptions[id]
	if !ok {
		return
	}
	inst, err := desc.Select(l.cfg)
	if err != nil {
		if l.metrics != nil {
			l.metrics.Incompatible.WithLabelValues(unit.KindJig.String()).Inc()
		}
		l.publish(unit.NewUnitIncompatibleEvent(id, err.Error()))
		return
	}
	l.jigs[id] = inst
	l.publish(unit.NewSelectedEvent(id))
}

func (l *Library) loadTests() {
	for id := range l.dirtyTests {
		st, ok := l.status[id]
		if !ok {
			continue
		}
		switch st {
		case unit.LoadStarted, unit.UpdateStarted:
			l.loadTest(id)
		default:
			panic(unexpectedStatus(unit.KindTest, id, st))
		}
	}
	l.dirtyTests = map[unit.Name]struct{}{}
}

func (l *Library) loadTest(id unit.Name) {
	desc, ok := l.testDescriptions[id]
	if !ok {
		return
	}
	inst, err := desc.Select(l, l.cfg)
	if err != nil {
		if l.metrics != nil {
			l.metrics.Incompatible.WithLabelValues(unit.KindTest.String()).Inc()
		}
		l.publish(unit.NewUnitIncompatibleEvent(id, err.Error()))
		return
	}
	l.tests[id] = inst
	l.publish(unit.NewSelectedEvent(id))
}

func (l *Library) loadScenarios() {
	for id := range l.dirtyScenarios {
		st, ok := l.status[id]
		if !ok {
			continue
		}
		switch st {
		case unit.LoadStarted, unit.UpdateStarted:
			l.loadScenario(id)
		default:
			panic(unexpectedStatus(unit.KindScenario, id, st))
		}
	}
	l.dirtyScenarios = map[unit.Name]struct{}{}
}

func (l *Library) loadScenario(id unit.Name) {
	desc, ok := l.scenarioDescriptions[id]
	if !ok {
		return
	}
	inst, err := desc.Select(l, l.cfg)
	if err != nil {
		if l.metrics != nil {
			l.metrics.Incompatible.WithLabelValues(unit.KindScenario.String()).Inc()
		}
		l.publish(unit.NewUnitIncompatibleEvent(id, err.Error()))
		return
	}
	l.scenarios[id] = inst
	l.publish(unit.NewSelectedEvent(id))
}

func (l *Library) loadInterfaces() {
	for id := range l.dirtyInterfaces {
		st, ok := l.status[id]
		if !ok {
			continue
		}
		switch st {
		case unit.LoadStarted, unit.UpdateStarted:
			l.loadInterface(id)
		default:
			panic(unexpectedStatus(unit.KindInterface, id, st))
		}
	}
	l.dirtyInterfaces = map[unit.Name]struct{}{}
}

func (l *Library) loadInterface(id unit.Name) {
	if old, ok := l.interfaces[id]; ok {
		delete(l.interfaces, id)
		if err := old.Deactivate(); err != nil {
			l.publish(unit.StatusEvent{Name: id, Contents: unit.DeactivateFailureStatus{Reason: err.Error()}})
		} else {
			l.publish(unit.StatusEvent{Name: id, Contents: unit.DeactivateSuccessStatus{Note: "Reloading interface"}})
		}
		l.publish(unit.StatusEvent{Name: id, Contents: unit.DeselectedStatus{}})
	}

	desc, ok := l.interfaceDescriptions[id]
	if !ok {
		return
	}

	inst, err := desc.Select(l, l.cfg)
	if err != nil {
		if l.metrics != nil {
			l.metrics.Incompatible.WithLabelValues(unit.KindInterface.String()).Inc()
		}
		l.publish(unit.NewUnitIncompatibleEvent(id, err.Error()))
		return
	}
	l.publish(unit.NewSelectedEvent(id))

	if err := inst.Activate(l.cfg, l.logger.With(zap.String("interface", id.String())), l.control); err != nil {
		if l.metrics != nil {
			l.metrics.ActivateFailures.Inc()
		}
		l.publish(unit.StatusEvent{Name: id, Contents: unit.ActiveFailedStatus{Reason: err.Error()}})
		return
	}

	l.publish(unit.StatusEvent{Name: id, Contents: unit.ActiveStatus{}})
	l.interfaces[id] = inst
}
