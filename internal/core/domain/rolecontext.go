package domain

// Capability names the path through which an account's active role context
// was resolved. The resolver evaluates capabilities in a fixed precedence
// order; the first applicable one wins.
type Capability string

const (
	CapabilityPlatformAdmin Capability = "platform_admin"
	CapabilitySchoolAdmin   Capability = "school_admin"
	CapabilityStaffAdmin    Capability = "staff_admin"
	CapabilityProfessor     Capability = "professor"
	CapabilityStudent       Capability = "school_student"
)

// RoleContext is the resolved school/role binding for a request. Accounts
// without any binding (plain students, unlinked admins) resolve to no context
// at all; whether that is fatal is the caller's decision.
type RoleContext struct {
	Capability Capability
	// SchoolID is empty for platform-level admins with no school attachment.
	SchoolID string
	// BindingID is the ID of the staff/professor/student record that backed
	// the resolution, when one exists.
	BindingID string
	StaffType StaffType
}

// IsAdmin reports whether the context grants admin-level capabilities.
func (rc *RoleContext) IsAdmin() bool {
	if rc == nil {
		return false
	}
	switch rc.Capability {
	case CapabilityPlatformAdmin, CapabilitySchoolAdmin, CapabilityStaffAdmin:
		return true
	}
	return false
}

// Identity is the output of token resolution: the concrete account plus its
// active role context, if any.
type Identity struct {
	Account *Account
	Role    *RoleContext
}
