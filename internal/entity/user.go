package entity

import "time"

// User is an operator or administrator. The bitzer id is the external
// personnel number; it is optional for locally created accounts.
type User struct {
	ID           int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	BitzerID     *int64     `json:"bitzer_id" gorm:"uniqueIndex"`
	Name         string     `json:"name" gorm:"not null"`
	PasswordHash *string    `json:"-"`
	Active       bool       `json:"active" gorm:"not null;default:true"`
	IsAdmin      bool       `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`

	Tasks []Task `json:"-" gorm:"foreignKey:OperatorUserID"`
}

func (User) TableName() string {
	return "users"
}
