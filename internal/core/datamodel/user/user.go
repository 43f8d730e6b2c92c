package user

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	Username     string    `gorm:"column:username;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null"`
	Email        string    `gorm:"column:email"`
	FullName     string    `gorm:"column:full_name"`
	Department   string    `gorm:"column:department"`
	Active       bool      `gorm:"column:active;not null"`
	CreatedDate  time.Time `gorm:"column:created_date"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
