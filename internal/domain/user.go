package domain

import "time"

// User представляет пользователя библиотеки.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID           int64     `json:"id" db:"id" gorm:"primaryKey"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
