package users

import "github.com/JaimeStill/redline/pkg/repository"

const columns = `id, email, name, picture, role, created_at`

const insertIfAbsent = `
INSERT INTO users (id, email, name, picture, role)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO NOTHING
RETURNING ` + columns

const selectByID = `SELECT ` + columns + ` FROM users WHERE id = $1`

func scanUser(s repository.Scanner) (User, error) {
	var u User
	err := s.Scan(&u.ID, &u.Email, &u.Name, &u.Picture, &u.Role, &u.CreatedAt)
	return u, err
}
