package descriptor

import (
	"iter"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/meigma/filepack/internal/packtype"
)

// Table is an ordered descriptor list indexed by name.
//
// The zero value is an empty table ready for use.
type Table struct {
	descs  []packtype.Descriptor
	byName map[string]int
}

// NewTable builds a table from descs, failing on repeated names.
func NewTable(descs []packtype.Descriptor) (*Table, error) {
	t := &Table{
		descs:  make([]packtype.Descriptor, 0, len(descs)),
		byName: make(map[string]int, len(descs)),
	}
	for _, d := range descs {
		if err := t.Add(d); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Add appends d. It fails with ErrDuplicateName if the name is taken.
func (t *Table) Add(d packtype.Descriptor) error {
	if t.Has(d.Name) {
		return errors.Wrapf(packtype.ErrDuplicateName, "%q", d.Name)
	}
	if t.byName == nil {
		t.byName = make(map[string]int)
	}
	t.byName[d.Name] = len(t.descs)
	t.descs = append(t.descs, d)
	return nil
}

// Has reports whether name is registered.
func (t *Table) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Lookup returns the descriptor registered under name.
func (t *Table) Lookup(name string) (packtype.Descriptor, bool) {
	i, ok := t.byName[name]
	if !ok {
		return packtype.Descriptor{}, false
	}
	return t.descs[i], true
}

// Len returns the number of descriptors.
func (t *Table) Len() int {
	return len(t.descs)
}

// Descriptors returns a copy of the descriptors in registration order.
func (t *Table) Descriptors() []packtype.Descriptor {
	return slices.Clone(t.descs)
}

// All iterates the descriptors in registration order.
func (t *Table) All() iter.Seq[packtype.Descriptor] {
	return func(yield func(packtype.Descriptor) bool) {
		for _, d := range t.descs {
			if !yield(d) {
				return
			}
		}
	}
}

// End returns the offset one past the last block, or base for an empty table.
func (t *Table) End(base uint64) uint64 {
	if len(t.descs) == 0 {
		return base
	}
	return t.descs[len(t.descs)-1].End()
}
