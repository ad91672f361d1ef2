package enums

import "fmt"

// MemberRole describes the role a user holds inside its organization.
type MemberRole string

const (
	MemberRoleAdmin    MemberRole = "admin"
	MemberRoleEducator MemberRole = "educator"
	MemberRoleParent   MemberRole = "parent"
)

var validMemberRoles = []MemberRole{
	MemberRoleAdmin,
	MemberRoleEducator,
	MemberRoleParent,
}

// IsValid reports whether the value matches the canonical member role enum.
func (m MemberRole) IsValid() bool {
	for _, candidate := range validMemberRoles {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMemberRole converts the raw string to MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	for _, candidate := range validMemberRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member role %q", value)
}
