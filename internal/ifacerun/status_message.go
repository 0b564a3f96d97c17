package ifacerun

import "github.com/cfti/unitd/internal/unit"

// StatusMessage is the sum of everything the engine can write out to an
// interface's stdin, per the outbound text-format grammar in
// SPEC_FULL.md §4.5 / spec.md §4.5.
type StatusMessage interface {
	isStatusMessage()
}

type (
	// JigMessage announces which jig is active: "JIG <id>".
	JigMessage struct{ ID unit.Name }
	// HelloMessage is the engine's greeting: "HELLO <id>".
	HelloMessage struct{ ID unit.Name }
	// ScenarioMessage announces the current scenario, or its absence
	// (ID.IsZero()) as a bare "SCENARIO" line.
	ScenarioMessage struct{ ID unit.Name }
	// ScenariosMessage lists every loaded scenario: "SCENARIOS <id1> <id2> ...".
	ScenariosMessage struct{ IDs []unit.Name }
	// DescribeMessage reports one field of one unit: "DESCRIBE <class> <field> <name> <value>".
	DescribeMessage struct{ Class, Field, Name, Value string }
)

func (JigMessage) isStatusMessage()       {}
func (HelloMessage) isStatusMessage()     {}
func (ScenarioMessage) isStatusMessage()  {}
func (ScenariosMessage) isStatusMessage() {}
func (DescribeMessage) isStatusMessage()  {}
