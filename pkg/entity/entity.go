// Package entity defines the kinds of items flowing through the pipeline.
package entity

import (
	"fmt"
)

// Kind is a closed set of entity kinds. The zero value is invalid and
// new kinds can only be declared in this package.
type Kind struct {
	name string
}

var (
	// Block is a block of the observed chain.
	Block = Kind{name: "block"}
)

var all = []Kind{Block}

// All returns every known kind.
func All() []Kind {
	return append([]Kind(nil), all...)
}

// Parse resolves a stored or user supplied name into a Kind.
func Parse(name string) (Kind, error) {
	for _, k := range all {
		if k.name == name {
			return k, nil
		}
	}

	return Kind{}, fmt.Errorf("unknown entity kind %q", name)
}

// String returns the stored name of the kind.
func (k Kind) String() string {
	return k.name
}

// IsValid reports whether k is one of the declared kinds.
func (k Kind) IsValid() bool {
	return k.name != ""
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("cannot marshal invalid entity kind")
	}
	return []byte(k.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
