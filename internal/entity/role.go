package entity

// Role is the closed set of account roles. Route gates and ownership
// checks compare against these constants only, never raw form input.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleEmployee      Role = "employee"
	RoleGatehouse     Role = "gatehouse"
	RoleSecurityChief Role = "security_chief"
)

var AllRoles = []Role{RoleAdmin, RoleEmployee, RoleGatehouse, RoleSecurityChief}

func ParseRole(s string) (Role, bool) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}
