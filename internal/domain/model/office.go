// Package model contains domain models passed between layers.
package model

import "strings"

// Office is one of the fixed elected positions on the ballot.
type Office string

// The closed set of offices, in ballot order.
const (
	President     Office = "President"
	VicePresident Office = "Vice President"
	Secretary     Office = "Secretary"
	Auditor       Office = "Auditor"
	SgtAtArms     Office = "Sgt at Arms"
)

var offices = []Office{President, VicePresident, Secretary, Auditor, SgtAtArms}

// Offices returns every office in ballot order. The slice is a copy.
func Offices() []Office {
	out := make([]Office, len(offices))
	copy(out, offices)
	return out
}

// OfficeCount is the number of offices on a ballot.
func OfficeCount() int { return len(offices) }

// Valid reports whether o is a member of the closed office set.
func (o Office) Valid() bool {
	for _, known := range offices {
		if o == known {
			return true
		}
	}
	return false
}

func (o Office) String() string { return string(o) }

// ParseOffice maps a display name to an Office. Surrounding whitespace is
// ignored; matching is otherwise exact.
func ParseOffice(s string) (Office, error) {
	o := Office(strings.TrimSpace(s))
	if !o.Valid() {
		return "", ErrUnknownOffice
	}
	return o, nil
}
