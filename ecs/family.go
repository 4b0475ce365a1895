package ecs

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"github.com/TheBitDrifter/mask"
	"github.com/cespare/xxhash/v2"
)

// Family is an immutable, order-independent set of component types. It is both a
// membership predicate over entities and the key under which a Registry caches
// live groups. Two Families built from the same types are equal regardless of the
// order the types were given in.
type Family struct {
	bits  mask.Mask
	types []ComponentType
	hash  uint64
}

// Define builds a Family from one or more component types.
func Define(types ...ComponentType) (Family, error) {
	if len(types) == 0 {
		return Family{}, ErrEmptyFamily
	}

	var f Family
	for _, t := range types {
		f.bits.Mark(uint32(t))
	}

	f.types = slices.Clone(types)
	slices.Sort(f.types)
	f.types = slices.Compact(f.types)

	buf := make([]byte, 4*len(f.types))
	for i, t := range f.types {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(t))
	}
	f.hash = xxhash.Sum64(buf)
	return f, nil
}

// MustDefine is like Define but panics on an empty type list.
func MustDefine(types ...ComponentType) Family {
	f, err := Define(types...)
	if err != nil {
		panic(err)
	}
	return f
}

// Extend returns a new Family holding the types of f plus types.
func Extend(f Family, types ...ComponentType) Family {
	all := make([]ComponentType, 0, len(f.types)+len(types))
	all = append(all, f.types...)
	all = append(all, types...)
	return MustDefine(all...)
}

// FamilyOf returns the Family made of every component type currently attached to e.
func FamilyOf(e *Entity) (Family, error) {
	return Define(e.types...)
}

// IsZero reports whether f is the zero Family, which matches nothing useful and
// cannot be used as a query.
func (f Family) IsZero() bool {
	return len(f.types) == 0
}

// Len returns the number of distinct types in the Family.
func (f Family) Len() int {
	return len(f.types)
}

// Types returns the component types sorted by identifier.
func (f Family) Types() []ComponentType {
	return slices.Clone(f.types)
}

// Contains reports whether t is one of the Family's types.
func (f Family) Contains(t ComponentType) bool {
	_, found := slices.BinarySearch(f.types, t)
	return found
}

// IsMember reports whether e holds every type in the Family.
func (f Family) IsMember(e *Entity) bool {
	if f.IsZero() {
		return false
	}
	entityBits := e.mask
	return entityBits.ContainsAll(f.bits)
}

// IsRelated reports whether e holds at least one type in the Family.
func (f Family) IsRelated(e *Entity) bool {
	entityBits := e.mask
	return entityBits.ContainsAny(f.bits)
}

// IsSubsetOf reports whether every type of f is also in other.
func (f Family) IsSubsetOf(other Family) bool {
	otherBits := other.bits
	return otherBits.ContainsAll(f.bits)
}

// IsSupersetOf reports whether f holds every type of other.
func (f Family) IsSupersetOf(other Family) bool {
	bits := f.bits
	return bits.ContainsAll(other.bits)
}

// IsDisjointFrom reports whether f and other share no type.
func (f Family) IsDisjointFrom(other Family) bool {
	bits := f.bits
	return bits.ContainsNone(other.bits)
}

// Equal reports whether f and other hold the same types.
func (f Family) Equal(other Family) bool {
	return f.bits == other.bits
}

// Hash returns a hash of the type set. Equal Families hash equally.
func (f Family) Hash() uint64 {
	return f.hash
}

// Compare orders Families by hash, then by their sorted type lists.
func (f Family) Compare(other Family) int {
	if c := cmp.Compare(f.hash, other.hash); c != 0 {
		return c
	}
	return slices.Compare(f.types, other.types)
}

func (f Family) String() string {
	names := make([]string, len(f.types))
	for i, t := range f.types {
		names[i] = t.String()
	}
	return fmt.Sprintf("Family[%s]", strings.Join(names, ", "))
}

func (f Family) key() mask.Mask {
	return f.bits
}
