package models

import "fmt"

// Role is the account role. Levels are strictly ordered; every authorization
// decision in the task hierarchy compares levels, never role names.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleEditor  Role = "EDITOR"
	RoleViewer  Role = "VIEWER"
	RolePartner Role = "PARTNER"
)

// AllRoles in descending privilege order.
var AllRoles = []Role{RoleAdmin, RoleEditor, RoleViewer, RolePartner}

// RoleMeta carries the display attributes the dashboard uses.
type RoleMeta struct {
	Level       int
	DisplayName string
	Color       string
}

var roleMeta = map[Role]RoleMeta{
	RoleAdmin:   {Level: 4, DisplayName: "Administrator", Color: "purple"},
	RoleEditor:  {Level: 3, DisplayName: "Editor", Color: "blue"},
	RoleViewer:  {Level: 2, DisplayName: "Viewer", Color: "green"},
	RolePartner: {Level: 1, DisplayName: "Partner", Color: "orange"},
}

func (r Role) Valid() bool {
	_, ok := roleMeta[r]
	return ok
}

// Level returns 0 for unknown roles, which sorts below every real role.
func (r Role) Level() int {
	return roleMeta[r].Level
}

func (r Role) DisplayName() string {
	return roleMeta[r].DisplayName
}

func (r Role) Color() string {
	return roleMeta[r].Color
}

// ParseRole is case-sensitive; role strings are stored uppercase.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
