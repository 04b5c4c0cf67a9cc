package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

type User struct {
	ID       string `db:"id"`
	Username string `db:"username"`
	Hash     string `db:"password_hash"`
	Role     Role   `db:"role"`
}

// Session is the acting identity for one sid.
type Session struct {
	ID       string `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Role     Role   `db:"role" json:"role"`
}

func (u *User) Session() *Session {
	return &Session{ID: u.ID, Username: u.Username, Role: u.Role}
}

// CanMutate reports whether s may create, edit or delete products.
// Templates use it to show affordances and the dashboard controller to enforce them.
func CanMutate(s *Session) bool {
	return s != nil && s.Role == RoleAdmin
}
