package storage

type demoUser struct {
	username string
	password string
	email    string
}

var demoUsers = []demoUser{
	{"demo", "demo123", "demo@bankoframa.com"},
	{"admin", "admin123", "admin@bankoframa.com"},
	{"user1", "password123", "user1@bankoframa.com"},
	{"alice", "alice123", "alice@bankoframa.com"},
	{"bob", "bob123", "bob@bankoframa.com"},
}

// SeedDemoUsers inserts the demo accounts and returns how many were created.
// Seeding is skipped entirely when the "demo" user already exists.
func (s *Store) SeedDemoUsers() (int, error) {
	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", "demo").Scan(&exists); err != nil {
		return 0, err
	}
	if exists > 0 {
		return 0, nil
	}

	created := 0
	for _, u := range demoUsers {
		if _, err := s.CreateUser(u.username, u.password, u.email); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
