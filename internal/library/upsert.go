package library

import (
	"fmt"

	"github.com/cfti/unitd/internal/ifacerun"
	"github.com/cfti/unitd/internal/unit"
)

// UpsertJig registers or updates a jig description, marking it dirty
// for the next Rescan. The CategoryEvent wording ("Number of units
// loaded") rather than "Number of jigs loaded" matches the original
// unitlibrary.rs exactly - jigs were the first unit kind it supported,
// before the others picked up their own, more specific wording.
func (l *Library) UpsertJig(d *unit.JigDescription) {
	id := d.ID()
	_, existed := l.jigDescriptions[id]
	l.jigDescriptions[id] = d
	if existed {
		l.status[id] = unit.UpdateStarted
	} else {
		l.status[id] = unit.LoadStarted
	}
	l.dirtyJigs[id] = struct{}{}

	l.publish(unit.CategoryEvent{Kind: unit.KindJig, Message: fmt.Sprintf("Number of units loaded: %d", len(l.jigDescriptions))})
}

// UpsertInterface registers or updates an interface description.
func (l *Library) UpsertInterface(d *ifacerun.Description) {
	id := d.ID()
	_, existed := l.interfaceDescriptions[id]
	l.interfaceDescriptions[id] = d
	if existed {
		l.status[id] = unit.UpdateStarted
	} else {
		l.status[id] = unit.LoadStarted
	}
	l.dirtyInterfaces[id] = struct{}{}

	l.publish(unit.CategoryEvent{Kind: unit.KindInterface, Message: fmt.Sprintf("Number of interfaces loaded: %d", len(l.interfaceDescriptions))})
}

// UpsertTest registers or updates a test description.
func (l *Library) UpsertTest(d *unit.TestDescription) {
	id := d.ID()
	_, existed := l.testDescriptions[id]
	l.testDescriptions[id] = d
	if existed {
		l.status[id] = unit.UpdateStarted
	} else {
		l.status[id] = unit.LoadStarted
	}
	l.dirtyTests[id] = struct{}{}

	l.publish(unit.CategoryEvent{Kind: unit.KindTest, Message: fmt.Sprintf("Number of tests loaded: %d", len(l.testDescriptions))})
}

// UpsertScenario registers or updates a scenario description.
func (l *Library) UpsertScenario(d *unit.ScenarioDescription) {
	id := d.ID()
	_, existed := l.scenarioDescriptions[id]
	l.scenarioDescriptions[id] = d
	if existed {
		l.status[id] = unit.UpdateStarted
	} else {
		l.status[id] = unit.LoadStarted
	}
	l.dirtyScenarios[id] = struct{}{}

	l.publish(unit.CategoryEvent{Kind: unit.KindScenario, Message: fmt.Sprintf("Number of scenarios loaded: %d", len(l.scenarioDescriptions))})
}
