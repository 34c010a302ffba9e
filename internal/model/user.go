package model

import "time"

type Role string

const (
	RoleRegular  Role = "regular"
	RoleTeamlead Role = "teamlead"
)

// Roles lists every role in dashboard label order.
var Roles = []Role{RoleRegular, RoleTeamlead}

type User struct {
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	ID        int64     `json:"id,string"`
	Verified  bool      `json:"verified"`
	Blocked   bool      `json:"blocked"`
}
