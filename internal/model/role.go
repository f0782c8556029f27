package model

// Session roles. Admins manage bags, items and layouts; users run the
// loading/checking flow.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
