package role

const (
	Patient    = "patient"
	Doctor     = "doctor"
	Admin      = "admin"
	SuperAdmin = "superadmin"
)

func Valid(r string) bool {
	switch r {
	case Patient, Doctor, Admin, SuperAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may use the admin surface.
func IsStaff(r string) bool {
	return r == Admin || r == SuperAdmin
}
