package sizefs

import (
	"fmt"

	"github.com/tidwall/btree"

	"github.com/mwantia/sizefs/size"
)

// DefaultListedSizes are the files every non-root directory lists.
var DefaultListedSizes = []string{
	"1KB", "10KB", "100KB",
	"1MB", "10MB", "100MB",
	"1GB", "10GB", "100GB",
}

type listEntry struct {
	name   string
	length uint64
}

// listing keeps the listed size tokens ordered by length, then by name.
type listing struct {
	entries *btree.BTreeG[listEntry]
}

func newListing(units *size.Units, names []string) (*listing, error) {
	l := &listing{
		entries: btree.NewBTreeG(func(a, b listEntry) bool {
			if a.length != b.length {
				return a.length < b.length
			}
			return a.name < b.name
		}),
	}

	for _, name := range names {
		spec, err := units.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("invalid listed size '%s': %w", name, err)
		}
		l.entries.Set(listEntry{name: name, length: spec.Length()})
	}

	return l, nil
}

func (l *listing) Len() int {
	return l.entries.Len()
}

func (l *listing) Entries() []listEntry {
	return l.entries.Items()
}
