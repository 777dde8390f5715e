// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package directory

// Roster is the full personnel list returned by one directory call.
type Roster []Person

// Position markers used to build the selection lists on forms.
const (
	PositionHead        = "JEFE DE "
	PositionManager     = "GERENTE "
	PositionSystemsHead = "JEFE DE SISTEMAS"

	// Project applicants.
	PositionChief            = "JEFE"
	PositionGeneralManager   = "GERENTE"
	PositionProjectExecutive = "EJECUTIVO DE PROYECTOS"
)

// WithPosition returns the people whose position contains any of needles.
func (roster Roster) WithPosition(needles ...string) Roster {
	var matched Roster
	for _, person := range roster {
		for _, needle := range needles {
			if person.HasPosition(needle) {
				matched = append(matched, person)
				break
			}
		}
	}
	return matched
}

// InArea returns the people of one department.
func (roster Roster) InArea(area string) Roster {
	var matched Roster
	for _, person := range roster {
		if person.Area == area {
			matched = append(matched, person)
		}
	}
	return matched
}

// Names maps user codes to display names.
func (roster Roster) Names() map[string]string {
	names := make(map[string]string, len(roster))
	for _, person := range roster {
		names[person.UserCode] = person.DisplayName()
	}
	return names
}
