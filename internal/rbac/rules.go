package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"quiz:take",
		"quiz:view-own",
		"student:register",
		"files:own",
	},
	"admin": {
		"*", // everything
	},
}
