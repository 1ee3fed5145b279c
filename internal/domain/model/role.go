package model

// Role is a playing-position code attached to an event.
type Role string

// Pure roles.
const (
	RoleGoalkeeper Role = "MV"
	RoleLeftWing   Role = "VF"
	RoleRightWing  Role = "HF"
	RoleLeftBack   Role = "VB"
	RoleCentreBack Role = "PL"
	RoleRightBack  Role = "HB"
	RolePivot      Role = "ST"
)

// RoleNone marks an action with no usable position.
const RoleNone Role = ""

// FieldRoles lists the pure outfield roles.
func FieldRoles() []Role {
	return []Role{RoleLeftWing, RoleRightWing, RoleLeftBack, RoleCentreBack, RoleRightBack, RolePivot}
}

// IsPure reports whether r names a concrete position. Situational codes such
// as "1:e", "2:e", "Gbr" or an empty code are not pure.
func (r Role) IsPure() bool {
	switch r {
	case RoleGoalkeeper, RoleLeftWing, RoleRightWing, RoleLeftBack, RoleCentreBack, RoleRightBack, RolePivot:
		return true
	default:
		return false
	}
}
