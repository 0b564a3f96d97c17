package ifacerun

import (
	"strings"
	"testing"
	"time"

	"github.com/cfti/unitd/internal/config"
	"github.com/cfti/unitd/internal/unit"
)

func TestParseFormatIsCaseInsensitive(t *testing.T) {
	for _, s := range []string{"text", "Text", "TeXt", "TEXT"} {
		f, err := ParseFormat(s)
		if err != nil {
			t.Errorf("ParseFormat(%q) returned error: %v", s, err)
		}
		if f != FormatText {
			t.Errorf("ParseFormat(%q) = %v, want FormatText", s, f)
		}
	}

	for _, s := range []string{"json", "JSON", "jSON", "Json"} {
		f, err := ParseFormat(s)
		if err != nil {
			t.Errorf("ParseFormat(%q) returned error: %v", s, err)
		}
		if f != FormatJSON {
			t.Errorf("ParseFormat(%q) = %v, want FormatJSON", s, f)
		}
	}
}

func TestParseFormatRejectsUnknownValue(t *testing.T) {
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected an error for an unrecognized format")
	}
}

func TestDispatchVerbScenarios(t *testing.T) {
	for _, verb := range []string{"scenarios", "SCENARIOS", "Scenarios"} {
		got := dispatchVerb(verb, nil)
		if _, ok := got.(Scenarios); !ok {
			t.Errorf("dispatchVerb(%q, nil) = %#v, want Scenarios{}", verb, got)
		}
	}
}

func TestDispatchVerbScenarioValidOperand(t *testing.T) {
	got := dispatchVerb("scenario", []string{"warmup"})
	s, ok := got.(Scenario)
	if !ok {
		t.Fatalf("dispatchVerb(\"scenario\", [warmup]) = %#v, want Scenario{}", got)
	}
	want := unit.Name{Kind: unit.KindScenario, ID: "warmup"}
	if s.Name != want {
		t.Errorf("got scenario name %v, want %v", s.Name, want)
	}
}

func TestDispatchVerbScenarioCaseInsensitiveVerb(t *testing.T) {
	got := dispatchVerb("SCENARIO", []string{"Warmup"})
	s, ok := got.(Scenario)
	if !ok {
		t.Fatalf("dispatchVerb(\"SCENARIO\", [Warmup]) = %#v, want Scenario{}", got)
	}
	want := unit.Name{Kind: unit.KindScenario, ID: "warmup"}
	if s.Name != want {
		t.Errorf("got scenario name %v, want %v", s.Name, want)
	}
}

func TestDispatchVerbScenarioEmptyOperandErrors(t *testing.T) {
	got := dispatchVerb("scenario", nil)
	if _, ok := got.(Error); !ok {
		t.Fatalf("dispatchVerb(\"scenario\", nil) = %#v, want Error{}", got)
	}
}

func TestDispatchVerbUnrecognizedIsUnimplemented(t *testing.T) {
	got := dispatchVerb("frobnicate", []string{"a", "b"})
	u, ok := got.(Unimplemented)
	if !ok {
		t.Fatalf("dispatchVerb(\"frobnicate\", ...) = %#v, want Unimplemented{}", got)
	}
	if u.Verb != "frobnicate" || u.Rest != "a b" {
		t.Errorf("got %#v, want Verb=frobnicate Rest=\"a b\"", u)
	}
}

func newTextInterface(id string) *Interface {
	return &Interface{
		id:     unit.Name{Kind: unit.KindInterface, ID: id},
		format: FormatText,
	}
}

func TestOutputMessageBeforeActivateReturnsErrNoProcess(t *testing.T) {
	iface := newTextInterface("probe")
	err := iface.OutputMessage(HelloMessage{ID: unit.Name{Kind: unit.KindJig, ID: "rig"}})
	if err != ErrNoProcess {
		t.Fatalf("got %v, want ErrNoProcess", err)
	}
}

func TestOutputMessageJSONFormatIsUnsupported(t *testing.T) {
	iface := newTextInterface("probe")
	iface.format = FormatJSON
	err := iface.OutputMessage(HelloMessage{ID: unit.Name{Kind: unit.KindJig, ID: "rig"}})
	if err != ErrJSONUnsupported {
		t.Fatalf("got %v, want ErrJSONUnsupported", err)
	}
}

// echoInterface activates a real `cat` subprocess, which echoes every
// line written to its stdin back out on its stdout verbatim - enough to
// exercise a full write-then-read round trip through textWrite and
// readText without faking either side.
func echoInterface(t *testing.T) (*Interface, chan ControlMessage) {
	t.Helper()

	iface := &Interface{
		id:        unit.Name{Kind: unit.KindInterface, ID: "echo"},
		execStart: "cat",
		format:    FormatText,
	}

	control := make(chan ControlMessage, 16)
	if err := iface.Activate(&config.Config{WorkingDirectory: "."}, nil, control); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	t.Cleanup(func() {
		if err := iface.Deactivate(); err != nil {
			t.Errorf("Deactivate: %v", err)
		}
	})

	// Drain the InitialGreeting posted by Activate itself.
	select {
	case msg := <-control:
		if _, ok := msg.Contents.(InitialGreeting); !ok {
			t.Fatalf("first control message = %#v, want InitialGreeting", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for InitialGreeting")
	}

	return iface, control
}

func recvControl(t *testing.T, control chan ControlMessage) ControlMessage {
	t.Helper()
	select {
	case msg := <-control:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a control message")
		return ControlMessage{}
	}
}

func TestTextRoundTripScenariosMessage(t *testing.T) {
	iface, control := echoInterface(t)

	ids := []unit.Name{
		{Kind: unit.KindScenario, ID: "warmup"},
		{Kind: unit.KindScenario, ID: "soak"},
	}
	if err := iface.OutputMessage(ScenariosMessage{IDs: ids}); err != nil {
		t.Fatalf("OutputMessage: %v", err)
	}

	msg := recvControl(t, control)
	if msg.Origin != iface.id {
		t.Errorf("Origin = %v, want %v", msg.Origin, iface.id)
	}
	if _, ok := msg.Contents.(Scenarios); !ok {
		t.Fatalf("Contents = %#v, want Scenarios{} (echoed %q)", msg.Contents, "scenarios")
	}
}

func TestTextRoundTripScenarioMessage(t *testing.T) {
	iface, control := echoInterface(t)

	id := unit.Name{Kind: unit.KindScenario, ID: "warmup"}
	if err := iface.OutputMessage(ScenarioMessage{ID: id}); err != nil {
		t.Fatalf("OutputMessage: %v", err)
	}

	msg := recvControl(t, control)
	s, ok := msg.Contents.(Scenario)
	if !ok {
		t.Fatalf("Contents = %#v, want Scenario{}", msg.Contents)
	}
	// The wire carries id.String() (its full "id.kind" form) as a single
	// operand; dispatchVerb strips the ".scenario" suffix back off, so the
	// parsed Name is the one that was written.
	want := id
	if s.Name != want {
		t.Errorf("got scenario %v, want %v", s.Name, want)
	}
}

func TestTextRoundTripDescribeMessageEscapesFields(t *testing.T) {
	iface, control := echoInterface(t)

	if err := iface.OutputMessage(DescribeMessage{
		Class: "jig", Field: "note", Name: "rig", Value: "before\tafter",
	}); err != nil {
		t.Fatalf("OutputMessage: %v", err)
	}

	msg := recvControl(t, control)
	// DESCRIBE isn't a verb readText understands, so it comes back as
	// Unimplemented; what matters here is that the escaped value crossed
	// the pipe as a single token and was unescaped back to its literal
	// tab, rather than being split on it.
	u, ok := msg.Contents.(Unimplemented)
	if !ok {
		t.Fatalf("Contents = %#v, want Unimplemented{}", msg.Contents)
	}
	if !strings.Contains(u.Rest, "before\tafter") {
		t.Errorf("Rest = %q, want it to contain the unescaped value with its tab intact", u.Rest)
	}
}

func TestDeactivateThenOutputMessageReturnsErrNoProcess(t *testing.T) {
	iface, _ := echoInterface(t)

	if err := iface.Deactivate(); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	err := iface.OutputMessage(HelloMessage{ID: unit.Name{Kind: unit.KindJig, ID: "rig"}})
	if err != ErrNoProcess {
		t.Fatalf("got %v, want ErrNoProcess", err)
	}
}
