package size

import (
	"fmt"
	"sort"
	"strings"
)

// Family groups units by their base.
type Family int

const (
	FamilyByte    Family = iota // plain bytes
	FamilyDecimal               // base 1000 (SI)
	FamilyBinary                // base 1024 (IEC and JEDEC)
)

func (f Family) String() string {
	switch f {
	case FamilyByte:
		return "byte"
	case FamilyDecimal:
		return "decimal"
	case FamilyBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Unit is a byte-multiplier suffix of a size token.
type Unit struct {
	Name       string
	Multiplier uint64
	Family     Family
}

// Units is an immutable, case-insensitive lookup table of unit tokens.
// Lookups match a whole token only; "KB" never matches a prefix of "KiB".
type Units struct {
	byName map[string]Unit
	list   []Unit
}

const (
	kilo uint64 = 1000
	kibi uint64 = 1024
)

var (
	// Byte is the unit every table carries.
	Byte = Unit{Name: "B", Multiplier: 1, Family: FamilyByte}

	// Decimal holds the SI units (KB=1000, MB=1000^2, ...).
	Decimal = []Unit{
		{Name: "KB", Multiplier: kilo, Family: FamilyDecimal},
		{Name: "MB", Multiplier: kilo * kilo, Family: FamilyDecimal},
		{Name: "GB", Multiplier: kilo * kilo * kilo, Family: FamilyDecimal},
		{Name: "TB", Multiplier: kilo * kilo * kilo * kilo, Family: FamilyDecimal},
		{Name: "PB", Multiplier: kilo * kilo * kilo * kilo * kilo, Family: FamilyDecimal},
		{Name: "EB", Multiplier: kilo * kilo * kilo * kilo * kilo * kilo, Family: FamilyDecimal},
	}

	// Binary holds the IEC units (KiB=1024, MiB=1024^2, ...).
	Binary = []Unit{
		{Name: "KiB", Multiplier: kibi, Family: FamilyBinary},
		{Name: "MiB", Multiplier: kibi * kibi, Family: FamilyBinary},
		{Name: "GiB", Multiplier: kibi * kibi * kibi, Family: FamilyBinary},
		{Name: "TiB", Multiplier: kibi * kibi * kibi * kibi, Family: FamilyBinary},
		{Name: "PiB", Multiplier: kibi * kibi * kibi * kibi * kibi, Family: FamilyBinary},
		{Name: "EiB", Multiplier: kibi * kibi * kibi * kibi * kibi * kibi, Family: FamilyBinary},
	}

	// JEDEC holds the memory-style spellings where K/KB both mean 1024.
	// This is what SizeFS filenames such as "128KB" have always meant.
	JEDEC = []Unit{
		{Name: "K", Multiplier: kibi, Family: FamilyBinary},
		{Name: "KB", Multiplier: kibi, Family: FamilyBinary},
		{Name: "M", Multiplier: kibi * kibi, Family: FamilyBinary},
		{Name: "MB", Multiplier: kibi * kibi, Family: FamilyBinary},
		{Name: "G", Multiplier: kibi * kibi * kibi, Family: FamilyBinary},
		{Name: "GB", Multiplier: kibi * kibi * kibi, Family: FamilyBinary},
		{Name: "T", Multiplier: kibi * kibi * kibi * kibi, Family: FamilyBinary},
		{Name: "TB", Multiplier: kibi * kibi * kibi * kibi, Family: FamilyBinary},
		{Name: "P", Multiplier: kibi * kibi * kibi * kibi * kibi, Family: FamilyBinary},
		{Name: "PB", Multiplier: kibi * kibi * kibi * kibi * kibi, Family: FamilyBinary},
		{Name: "E", Multiplier: kibi * kibi * kibi * kibi * kibi * kibi, Family: FamilyBinary},
		{Name: "EB", Multiplier: kibi * kibi * kibi * kibi * kibi * kibi, Family: FamilyBinary},
	}
)

var (
	// DefaultUnits is used by Parse: bytes, SI decimal and IEC binary units.
	DefaultUnits = MustUnits(concat([]Unit{Byte}, Decimal, Binary)...)

	// JEDECUnits is bytes, JEDEC and IEC binary units; every multiplier is a power of 1024.
	JEDECUnits = MustUnits(concat([]Unit{Byte}, JEDEC, Binary)...)
)

// NewUnits builds a lookup table. Names are compared case-insensitively,
// so two units whose names only differ in case are rejected.
func NewUnits(units ...Unit) (*Units, error) {
	u := &Units{
		byName: make(map[string]Unit, len(units)),
		list:   make([]Unit, 0, len(units)),
	}

	for _, unit := range units {
		if unit.Name == "" {
			return nil, fmt.Errorf("size: unit name cannot be empty")
		}
		if unit.Multiplier == 0 {
			return nil, fmt.Errorf("size: unit '%s' has a zero multiplier", unit.Name)
		}
		for _, r := range unit.Name {
			if r > 0x7f || !isLetter(byte(r)) {
				return nil, fmt.Errorf("size: unit '%s' must only contain ASCII letters", unit.Name)
			}
		}

		key := strings.ToLower(unit.Name)
		if _, exists := u.byName[key]; exists {
			return nil, fmt.Errorf("size: unit '%s' defined more than once", unit.Name)
		}

		u.byName[key] = unit
		u.list = append(u.list, unit)
	}

	return u, nil
}

// MustUnits is like NewUnits but panics on an invalid table.
func MustUnits(units ...Unit) *Units {
	u, err := NewUnits(units...)
	if err != nil {
		panic(err)
	}
	return u
}

// Lookup returns the unit registered under name, ignoring case.
func (u *Units) Lookup(name string) (Unit, bool) {
	unit, ok := u.byName[strings.ToLower(name)]
	return unit, ok
}

// List returns all units ordered by multiplier, then by name.
func (u *Units) List() []Unit {
	list := make([]Unit, len(u.list))
	copy(list, u.list)

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Multiplier != list[j].Multiplier {
			return list[i].Multiplier < list[j].Multiplier
		}
		return list[i].Name < list[j].Name
	})

	return list
}

func concat(groups ...[]Unit) []Unit {
	var out []Unit
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
