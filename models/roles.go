package models

type Role string

const (
	RoleSuperAdmin Role = "SuperAdmin"
	RoleAdmin      Role = "Admin"
	RoleLecture    Role = "Lecture"
	RoleViewer     Role = "Viewer"
)

var (
	AllRoles = []Role{
		RoleSuperAdmin,
		RoleAdmin,
		RoleLecture,
		RoleViewer,
	}

	// CourseOwners may author and manage courses.
	CourseOwners = []Role{
		RoleSuperAdmin,
		RoleAdmin,
		RoleLecture,
	}

	UserManagers = []Role{
		RoleSuperAdmin,
		RoleAdmin,
	}

	// ManagedRoles are the roles shown (and assignable) on the user management page.
	ManagedRoles = []Role{
		RoleViewer,
		RoleAdmin,
		RoleLecture,
	}
)

func (r Role) Valid() bool {
	return r.In(AllRoles)
}

func (r Role) In(roles []Role) bool {
	for _, candidate := range roles {
		if candidate == r {
			return true
		}
	}
	return false
}
