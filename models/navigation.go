package models

type NavItem struct {
	Key   string `json:"key"`
	To    string `json:"to"`
	Label string `json:"label"`
	Roles []Role `json:"-"`
}

var navigation = []NavItem{
	{Key: "home", To: "/", Label: "Home", Roles: AllRoles},
	{Key: "courses", To: "/courses", Label: "Courses", Roles: AllRoles},
	{Key: "userMgmt", To: "/profileRoleIndex", Label: "Account Upgrade", Roles: UserManagers},
	{Key: "owner", To: "/ownCourse", Label: "Course Owner", Roles: CourseOwners},
	{Key: "about", To: "/about", Label: "About Us", Roles: AllRoles},
}

// NavigationFor returns the sidebar entries visible to role, in display order.
func NavigationFor(role Role) []NavItem {
	items := make([]NavItem, 0, len(navigation))
	for _, item := range navigation {
		if role.In(item.Roles) {
			items = append(items, item)
		}
	}
	return items
}
