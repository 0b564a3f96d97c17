// Package unit defines the shared name, status, and event vocabulary that
// every unit kind (jig, interface, test, scenario) and every library
// operation is built from.
package unit

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies which of the four unit variants a Name belongs to.
type Kind int

const (
	KindJig Kind = iota
	KindInterface
	KindTest
	KindScenario
)

func (k Kind) String() string {
	switch k {
	case KindJig:
		return "jig"
	case KindInterface:
		return "interface"
	case KindTest:
		return "test"
	case KindScenario:
		return "scenario"
	default:
		return "unknown"
	}
}

// ParseKind maps a file extension or bare kind word (case-insensitive) to a
// Kind. Anything else is reported as an error.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "jig":
		return KindJig, nil
	case "interface":
		return KindInterface, nil
	case "test":
		return KindTest, nil
	case "scenario":
		return KindScenario, nil
	default:
		return 0, fmt.Errorf("unrecognized unit kind %q", s)
	}
}

// Name is a (kind, identifier) pair. Two Names are equal iff both the kind
// and the identifier match; the kind is part of the identity, so names are
// disjoint across kinds by construction.
type Name struct {
	Kind Kind
	ID   string
}

func (n Name) String() string {
	return fmt.Sprintf("%s.%s", n.ID, n.Kind)
}

// IsZero reports whether n is the zero Name (used to represent "no
// scenario selected" on the wire, per the SCENARIO verb with no operand).
func (n Name) IsZero() bool {
	return n == Name{}
}

// NameFromPath derives a Name from a unit description file's path: the
// stem becomes the identifier, and the extension becomes the kind. Ill
// formed paths - missing extension, or an extension that isn't one of the
// four recognized kinds - fail.
func NameFromPath(path string) (Name, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return Name{}, fmt.Errorf("path %q has no kind extension", path)
	}

	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		return Name{}, fmt.Errorf("path %q has no identifier", path)
	}

	kind, err := ParseKind(strings.TrimPrefix(ext, "."))
	if err != nil {
		return Name{}, fmt.Errorf("path %q: %w", path, err)
	}

	return Name{Kind: kind, ID: stem}, nil
}

// NameFromString parses a single bare identifier against an implied kind,
// lowercasing it first (unit identifiers are case-insensitive on the wire).
func NameFromString(id string, kind Kind) (Name, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return Name{}, fmt.Errorf("empty %s identifier", kind)
	}
	return Name{Kind: kind, ID: id}, nil
}

// NamesFromList parses a comma/space-separated list of bare identifiers
// against an implied kind, as used by the Jigs=/Tests= directives.
func NamesFromList(list string, kind Kind) ([]Name, error) {
	fields := strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	names := make([]Name, 0, len(fields))
	for _, f := range fields {
		n, err := NameFromString(f, kind)
		if err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, nil
}
