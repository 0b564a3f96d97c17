package ifacerun

import (
	"fmt"
	"strings"

	"github.com/cfti/unitd/internal/config"
	"github.com/cfti/unitd/internal/unit"
)

// Format is the wire format an interface speaks. Only FormatText is
// implemented; FormatJSON is recognized by the parser (so a unit file
// that declares Format=json loads without error) but every read/write
// path on it returns ErrJSONUnsupported rather than behaving as if it
// were text.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// ParseFormat accepts "text" or "json", case-insensitively, per
// spec.md §6's Format directive. Folds case the same way the original
// Rust reference does (units/interface.rs's .to_lowercase()) before
// matching, rather than enumerating a fixed set of casings.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("invalid Format %q, must be one of [text json]", s)
	}
}

// Description is the parsed, on-disk form of an [Interface] unit.
type Description struct {
	Name_            unit.Name
	Name             string
	Description      string
	JigNames         []unit.Name
	ExecStart        string
	Format           Format
	WorkingDirectory string // empty: use the engine's config default
}

func (d *Description) ID() unit.Name     { return d.Name_ }
func (d *Description) Jigs() []unit.Name { return d.JigNames }

func (d *Description) IsCompatible(checker unit.JigChecker) error {
	return unit.IsCompatible(d.JigNames, checker)
}

// Select validates compatibility and builds an unactivated Interface.
// It never spawns a process - that's Activate's job, called separately
// by the library once Select has succeeded.
func (d *Description) Select(checker unit.JigChecker, cfg *config.Config) (*Interface, error) {
	if err := d.IsCompatible(checker); err != nil {
		return nil, err
	}

	wd := d.WorkingDirectory
	if wd == "" {
		wd = cfg.WorkingDirectory
	}

	return &Interface{
		id:               d.Name_,
		name:             d.Name,
		execStart:        d.ExecStart,
		workingDirectory: wd,
		format:           d.Format,
	}, nil
}
