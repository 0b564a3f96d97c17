package descfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cfti/unitd/internal/ifacerun"
	"github.com/cfti/unitd/internal/unit"
)

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestParseJig(t *testing.T) {
	path := writeTemp(t, "bench1.jig", "[Jig]\nName=Bench 1\nDescription=the first bench\n")

	d, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if d.Kind != unit.KindJig {
		t.Fatalf("expected KindJig, got %v", d.Kind)
	}
	if d.Jig.Name != "Bench 1" || d.Jig.Description != "the first bench" {
		t.Fatalf("unexpected jig fields: %#v", d.Jig)
	}
	if d.Jig.ID().ID != "bench1" {
		t.Fatalf("unexpected id: %v", d.Jig.ID())
	}
}

func TestParseInterfaceWithFormat(t *testing.T) {
	path := writeTemp(t, "cli.interface", "[Interface]\nExecStart=/bin/cli\nFormat=json\nJigs=bench1, bench2\n")

	d, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if d.Interface.Format != ifacerun.FormatJSON {
		t.Fatalf("expected FormatJSON, got %v", d.Interface.Format)
	}
	if len(d.Interface.JigNames) != 2 {
		t.Fatalf("expected 2 jigs, got %#v", d.Interface.JigNames)
	}
}

func TestParseTestMissingExecStartErrors(t *testing.T) {
	path := writeTemp(t, "t1.test", "[Test]\nName=Some test\n")

	if _, err := ParseFile(path); err == nil {
		t.Fatalf("expected error for missing ExecStart")
	}
}

func TestParseScenarioWithTests(t *testing.T) {
	path := writeTemp(t, "s1.scenario", "[Scenario]\nTests=t1 t2,t3\n")

	d, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(d.Scenario.TestNames) != 3 {
		t.Fatalf("expected 3 tests, got %#v", d.Scenario.TestNames)
	}
}

func TestParseWrongSectionErrors(t *testing.T) {
	path := writeTemp(t, "bench1.jig", "[Interface]\nExecStart=/bin/true\n")

	if _, err := ParseFile(path); err == nil {
		t.Fatalf("expected error for section/kind mismatch")
	}
}

func TestParseInvalidFormatErrors(t *testing.T) {
	path := writeTemp(t, "cli.interface", "[Interface]\nExecStart=/bin/cli\nFormat=xml\n")

	if _, err := ParseFile(path); err == nil {
		t.Fatalf("expected error for invalid Format value")
	}
}

func TestParseDirectiveBeforeSectionErrors(t *testing.T) {
	path := writeTemp(t, "bench1.jig", "Name=no header\n[Jig]\n")

	if _, err := ParseFile(path); err == nil {
		t.Fatalf("expected error for directive before section header")
	}
}

func TestParseNoExtensionErrors(t *testing.T) {
	path := writeTemp(t, "bench1", "[Jig]\n")

	if _, err := ParseFile(path); err == nil {
		t.Fatalf("expected error for missing kind extension")
	}
}
