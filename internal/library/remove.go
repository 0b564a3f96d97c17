package library

import "github.com/cfti/unitd/internal/unit"

// RemoveJig deletes a jig's description immediately and marks it dirty
// with UnloadStarted status; the live instance and status entry are
// cleared during the next Rescan's unload step. The description is
// gone right away so that a concurrent Select attempt (via a later
// propagation step in the same rescan) sees it as already absent,
// matching original_source/src/unitlibrary.rs's remove_jig.
func (l *Library) RemoveJig(id unit.Name) {
	delete(l.jigDescriptions, id)
	l.status[id] = unit.UnloadStarted
	l.dirtyJigs[id] = struct{}{}
	l.publish(unit.NewUnloadingEvent(id))
}

// RemoveInterface deletes an interface's description immediately.
func (l *Library) RemoveInterface(id unit.Name) {
	delete(l.interfaceDescriptions, id)
	l.status[id] = unit.UnloadStarted
	l.dirtyInterfaces[id] = struct{}{}
	l.publish(unit.NewUnloadingEvent(id))
}

// RemoveTest deletes a test's description immediately.
func (l *Library) RemoveTest(id unit.Name) {
	delete(l.testDescriptions, id)
	l.status[id] = unit.UnloadStarted
	l.dirtyTests[id] = struct{}{}
	l.publish(unit.NewUnloadingEvent(id))
}

// RemoveScenario deletes a scenario's description immediately.
func (l *Library) RemoveScenario(id unit.Name) {
	delete(l.scenarioDescriptions, id)
	l.status[id] = unit.UnloadStarted
	l.dirtyScenarios[id] = struct{}{}
	l.publish(unit.NewUnloadingEvent(id))
}
