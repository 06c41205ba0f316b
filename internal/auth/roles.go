package auth

// Role 表示账号权限等级。
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Rank 返回角色的数值等级，数值越大权限越高。
// 未知角色返回 0，永远不会满足任何等级要求。
func (r Role) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperadmin:
		return 3
	default:
		return 0
	}
}

// Valid 判断角色是否是已知取值。
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// AtLeast 判断角色是否满足指定等级。
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.Rank() >= min.Rank()
}
