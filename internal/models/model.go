package models

import "time"

type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

type Post struct {
	ID       int64
	AuthorID int64
	Title    string
	Body     string
	Created  time.Time
	Author   string
}
