package envconfig

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// NameSet is a set of track or shell names
type NameSet map[string]struct{}

// NewNameSet returns a NameSet holding names
func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Has returns whether name is in the set
func (n NameSet) Has(name string) bool {
	_, ok := n[name]
	return ok
}

// Len returns the number of names in the set
func (n NameSet) Len() int {
	return len(n)
}

// Sorted returns the names in the set in increasing order
func (n NameSet) Sorted() []string {
	names := maps.Keys(n)
	slices.Sort(names)
	return names
}

// Clone returns a copy of the set
func (n NameSet) Clone() NameSet {
	return maps.Clone(n)
}
