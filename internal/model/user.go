package model

import "time"

// User represents an account that can buy, author and comment on courses
type User struct {
	UserID       string    `db:"id" json:"user_id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	IsStaff      bool      `db:"is_staff" json:"is_staff"`
	IsSuperuser  bool      `db:"is_superuser" json:"is_superuser"`
	IsAuthor     bool      `db:"is_author" json:"is_author"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
