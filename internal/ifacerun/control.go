package ifacerun

import "github.com/cfti/unitd/internal/unit"

// ControlMessage is what a reader task posts onto the manager's control
// channel: the name of the interface that produced it, plus its parsed
// contents. Consumers outside this engine (the scenario engine) route
// these; the engine itself only produces and transports them.
type ControlMessage struct {
	Origin   unit.Name
	Contents ControlMessageContents
}

// ControlMessageContents is the sum of everything an interface can say
// inbound, per SPEC_FULL.md §6.3.
type ControlMessageContents interface {
	isControlMessageContents()
}

type (
	// InitialGreeting is posted once, right after activation.
	InitialGreeting struct{}
	// Scenarios is posted in response to the "scenarios" verb.
	Scenarios struct{}
	// Scenario is posted in response to a well-formed "scenario <name>" verb.
	Scenario struct{ Name unit.Name }
	// Error is posted when an inbound verb's operand fails to parse.
	Error struct{ Message string }
	// Unimplemented is posted for any verb the protocol doesn't recognize.
	Unimplemented struct{ Verb, Rest string }
)

func (InitialGreeting) isControlMessageContents() {}
func (Scenarios) isControlMessageContents()       {}
func (Scenario) isControlMessageContents()        {}
func (Error) isControlMessageContents()           {}
func (Unimplemented) isControlMessageContents()   {}
