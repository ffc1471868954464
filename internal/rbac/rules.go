package rbac

const (
	PermExamList    = "exam:list"
	PermMatchSearch = "match:search"
	PermIntakeCheck = "match:validate"
)

// RolePermissions maps application roles (app_metadata.role on the token)
// to permission patterns. A trailing '*' matches any suffix.
var RolePermissions = map[string][]string{
	"learner": {
		PermExamList,
		PermMatchSearch,
		PermIntakeCheck,
	},
	"institution_member": {
		PermExamList,
	},
	"institution_admin": {
		PermExamList,
		PermIntakeCheck,
	},
	"platform_admin": {
		"*",
	},
}
