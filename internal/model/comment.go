package model

import "time"

type Comment struct {
	ID        int64     `db:"id"`
	CourseID  int64     `db:"course_id"`
	UserID    string    `db:"user_id"`
	UserName  string    `db:"user_name"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}
