package unit

import "github.com/cfti/unitd/internal/config"

// ScenarioDescription is the parsed, on-disk form of a [Scenario] unit.
// Its compatibility predicate is jig-based, same as Interface and Test;
// its Tests directive is a separate, orthogonal set used only by the
// test-churn propagation step of Rescan (step 2 in SPEC_FULL.md §4.3).
type ScenarioDescription struct {
	Name_       Name
	Name        string
	Description string
	JigNames    []Name
	TestNames   []Name
}

func (d *ScenarioDescription) ID() Name     { return d.Name_ }
func (d *ScenarioDescription) Jigs() []Name { return d.JigNames }

func (d *ScenarioDescription) IsCompatible(checker JigChecker) error {
	return IsCompatible(d.JigNames, checker)
}

// Select produces a live Scenario, copying the declared Tests= set onto
// it so UsesTest queries don't need to go back to the description.
func (d *ScenarioDescription) Select(checker JigChecker, cfg *config.Config) (*Scenario, error) {
	if err := d.IsCompatible(checker); err != nil {
		return nil, err
	}

	uses := make(map[Name]struct{}, len(d.TestNames))
	for _, n := range d.TestNames {
		uses[n] = struct{}{}
	}

	return &Scenario{
		id:          d.Name_,
		name:        d.Name,
		description: d.Description,
		uses:        uses,
	}, nil
}

// Scenario is the activated form of a ScenarioDescription.
type Scenario struct {
	id          Name
	name        string
	description string
	uses        map[Name]struct{}
}

func (s *Scenario) ID() Name          { return s.id }
func (s *Scenario) Name() string      { return s.name }
func (s *Scenario) Description() string { return s.description }

// UsesTest reports whether this scenario's description named the given
// test. Only the library's Rescan calls this, to decide whether test
// churn should mark the scenario dirty for re-selection.
func (s *Scenario) UsesTest(name Name) bool {
	_, ok := s.uses[name]
	return ok
}
