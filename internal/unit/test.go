package unit

import "github.com/cfti/unitd/internal/config"

// TestDescription is the parsed, on-disk form of a [Test] unit. The core
// loads a test - validating its ExecStart is present and its jigs are
// compatible - but never runs it; execution belongs to the scenario
// engine, out of scope here.
type TestDescription struct {
	Name_       Name
	Name        string
	Description string
	JigNames    []Name
	ExecStart   string
}

func (d *TestDescription) ID() Name     { return d.Name_ }
func (d *TestDescription) Jigs() []Name { return d.JigNames }

// IsCompatible applies the same jig-compatibility rule as Interface and
// Scenario: empty Jigs means universal compatibility.
func (d *TestDescription) IsCompatible(checker JigChecker) error {
	return IsCompatible(d.JigNames, checker)
}

// Select produces a live Test instance once compatibility passes.
// Selection only validates; it never spawns ExecStart.
func (d *TestDescription) Select(checker JigChecker, cfg *config.Config) (*Test, error) {
	if err := d.IsCompatible(checker); err != nil {
		return nil, err
	}
	return &Test{
		id:          d.Name_,
		name:        d.Name,
		description: d.Description,
		execStart:   d.ExecStart,
	}, nil
}

// Test is the activated form of a TestDescription.
type Test struct {
	id          Name
	name        string
	description string
	execStart   string
}

func (t *Test) ID() Name          { return t.id }
func (t *Test) Name() string      { return t.name }
func (t *Test) Description() string { return t.description }
func (t *Test) ExecStart() string { return t.execStart }
