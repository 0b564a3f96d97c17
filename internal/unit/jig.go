package unit

import "github.com/cfti/unitd/internal/config"

// JigDescription is the parsed, on-disk form of a [Jig] unit. Jigs carry
// no compatibility predicate of their own - they are always compatible -
// so the fields that matter to the core are the common ones plus nothing
// jig-specific: a jig's role is purely to exist and be named by other
// units' Jigs= directives.
type JigDescription struct {
	Name_       Name
	Name        string
	Description string
}

func (d *JigDescription) ID() Name { return d.Name_ }

// Jigs returns nil: a jig does not itself depend on any jig.
func (d *JigDescription) Jigs() []Name { return nil }

// Select always succeeds: a Jig has no compatibility predicate.
func (d *JigDescription) Select(cfg *config.Config) (*Jig, error) {
	return &Jig{id: d.Name_, name: d.Name, description: d.Description}, nil
}

// Jig is the activated form of a JigDescription. It owns no external
// resources; its only job is to be present in library.live so that
// dependent units' compatibility checks succeed.
type Jig struct {
	id          Name
	name        string
	description string
}

func (j *Jig) ID() Name          { return j.id }
func (j *Jig) Name() string      { return j.name }
func (j *Jig) Description() string { return j.description }
