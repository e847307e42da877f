package roles

import "strings"

// Role is a canonical, ranked permission level. Raw role strings coming from
// the backend are converted with Normalize and never compared directly.
type Role string

const (
	User       Role = "user"       // Regular customer
	AdminUser  Role = "adminuser"  // Manages users and packages
	SuperAdmin Role = "superadmin" // Manages admins
)

var ranks = map[Role]int{
	User:       1,
	AdminUser:  2,
	SuperAdmin: 3,
}

// Normalize maps any raw role spelling onto a canonical Role. It is total:
// unknown, empty or missing values become User.
func Normalize(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "admin_user", "adminuser":
		return AdminUser
	case "superadmin":
		return SuperAdmin
	default:
		return User
	}
}

// RankOf returns the fixed rank of a role. Values that did not come from
// Normalize are normalized first.
func RankOf(r Role) int {
	if rank, ok := ranks[r]; ok {
		return rank
	}
	return ranks[Normalize(string(r))]
}

// Satisfies reports whether actual meets the floor expressed by expected.
// An empty list declares no restriction. Otherwise the floor is the lowest
// rank among the expected roles, so ["adminuser", "user"] admits any user.
func Satisfies(expected []string, actual Role) bool {
	if len(expected) == 0 {
		return true
	}
	minRank := RankOf(SuperAdmin)
	for _, e := range expected {
		if rank := RankOf(Normalize(e)); rank < minRank {
			minRank = rank
		}
	}
	return RankOf(actual) >= minRank
}

func (r Role) String() string {
	return string(r)
}

// IsSuperAdmin returns true for the highest rank
func (r Role) IsSuperAdmin() bool {
	return Normalize(string(r)) == SuperAdmin
}

// AtLeast reports whether r ranks at or above other
func (r Role) AtLeast(other Role) bool {
	return RankOf(r) >= RankOf(other)
}
