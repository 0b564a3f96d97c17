// Package descfile parses CFTI unit description files - the small,
// systemd-unit-flavored key=value format spec.md §6.1 defines for
// jigs, interfaces, tests, and scenarios - into the unit package's
// Description types.
//
// No third-party INI or systemd-unit-file parser turned up anywhere in
// the retrieved example pack, so this hand-rolls the grammar on
// bufio.Scanner; that's the deliberate exception, not this module's
// default way of handling structured text (descfile is the only
// package in the tree that doesn't reach for a library here).
package descfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cfti/unitd/internal/ifacerun"
	"github.com/cfti/unitd/internal/unit"
)

// Description is the sum of the four kind-specific description types a
// single parsed file can produce. Exactly one of the fields is set; the
// others are left as the zero value - callers switch on Kind to know
// which.
type Description struct {
	Kind unit.Kind

	Jig      *unit.JigDescription
	Interface *ifacerun.Description
	Test     *unit.TestDescription
	Scenario *unit.ScenarioDescription
}

// ParseFile reads path, derives its unit kind from the file extension,
// and parses its single [<Kind>] section into the matching Description
// type.
func ParseFile(path string) (*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, parseErr(path, "open: %w", err)
	}
	defer f.Close()

	name, err := unit.NameFromPath(path)
	if err != nil {
		return nil, parseErr(path, "%w", err)
	}

	fields, section, err := readSections(f)
	if err != nil {
		return nil, parseErr(path, "%w", err)
	}

	wantSection := titleCase(name.Kind.String())
	if section != wantSection {
		return nil, parseErr(path, "expected section [%s], found [%s]", wantSection, section)
	}

	switch name.Kind {
	case unit.KindJig:
		d, err := buildJig(name, fields)
		if err != nil {
			return nil, parseErr(path, "%w", err)
		}
		return &Description{Kind: unit.KindJig, Jig: d}, nil

	case unit.KindInterface:
		d, err := buildInterface(name, fields)
		if err != nil {
			return nil, parseErr(path, "%w", err)
		}
		return &Description{Kind: unit.KindInterface, Interface: d}, nil

	case unit.KindTest:
		d, err := buildTest(name, fields)
		if err != nil {
			return nil, parseErr(path, "%w", err)
		}
		return &Description{Kind: unit.KindTest, Test: d}, nil

	case unit.KindScenario:
		d, err := buildScenario(name, fields)
		if err != nil {
			return nil, parseErr(path, "%w", err)
		}
		return &Description{Kind: unit.KindScenario, Scenario: d}, nil

	default:
		return nil, parseErr(path, "unhandled kind %s", name.Kind)
	}
}

// readSections scans r for exactly one [Section] header followed by
// Key=Value directive lines, ignoring blank lines and '#'/';' comments.
// Multiple sections or directives before any header are reported as
// errors - one unit per file, same as the systemd unit files this
// format is styled on.
func readSections(r io.Reader) (map[string]string, string, error) {
	fields := map[string]string{}
	section := ""

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return nil, "", fmt.Errorf("malformed section header %q", line)
			}
			if section != "" {
				return nil, "", fmt.Errorf("multiple sections in one file (%q after [%s])", line, section)
			}
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			continue
		}

		if section == "" {
			return nil, "", fmt.Errorf("directive %q before any section header", line)
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, "", fmt.Errorf("malformed directive %q (expected Key=Value)", line)
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, "", err
	}
	if section == "" {
		return nil, "", fmt.Errorf("no section header found")
	}
	return fields, section, nil
}

func buildJig(name unit.Name, fields map[string]string) (*unit.JigDescription, error) {
	return &unit.JigDescription{
		Name_:       name,
		Name:        fields["Name"],
		Description: fields["Description"],
	}, nil
}

func buildTest(name unit.Name, fields map[string]string) (*unit.TestDescription, error) {
	execStart, ok := fields["ExecStart"]
	if !ok || execStart == "" {
		return nil, fmt.Errorf("missing required ExecStart")
	}
	jigs, err := jigsField(fields, name.Kind)
	if err != nil {
		return nil, err
	}
	return &unit.TestDescription{
		Name_:       name,
		Name:        fields["Name"],
		Description: fields["Description"],
		JigNames:    jigs,
		ExecStart:   execStart,
	}, nil
}

func buildScenario(name unit.Name, fields map[string]string) (*unit.ScenarioDescription, error) {
	jigs, err := jigsField(fields, name.Kind)
	if err != nil {
		return nil, err
	}
	var tests []unit.Name
	if raw, ok := fields["Tests"]; ok && raw != "" {
		tests, err = unit.NamesFromList(raw, unit.KindTest)
		if err != nil {
			return nil, fmt.Errorf("Tests: %w", err)
		}
	}
	return &unit.ScenarioDescription{
		Name_:       name,
		Name:        fields["Name"],
		Description: fields["Description"],
		JigNames:    jigs,
		TestNames:   tests,
	}, nil
}

func buildInterface(name unit.Name, fields map[string]string) (*ifacerun.Description, error) {
	execStart, ok := fields["ExecStart"]
	if !ok || execStart == "" {
		return nil, fmt.Errorf("missing required ExecStart")
	}
	jigs, err := jigsField(fields, name.Kind)
	if err != nil {
		return nil, err
	}

	format := ifacerun.FormatText
	if raw, ok := fields["Format"]; ok && raw != "" {
		format, err = ifacerun.ParseFormat(raw)
		if err != nil {
			return nil, err
		}
	}

	return &ifacerun.Description{
		Name_:            name,
		Name:             fields["Name"],
		Description:      fields["Description"],
		JigNames:         jigs,
		ExecStart:        execStart,
		Format:           format,
		WorkingDirectory: fields["WorkingDirectory"],
	}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func jigsField(fields map[string]string, kind unit.Kind) ([]unit.Name, error) {
	raw, ok := fields["Jigs"]
	if !ok || raw == "" {
		return nil, nil
	}
	names, err := unit.NamesFromList(raw, unit.KindJig)
	if err != nil {
		return nil, fmt.Errorf("Jigs: %w", err)
	}
	return names, nil
}
