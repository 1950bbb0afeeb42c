package model

import (
	"fmt"
	"time"
)

// Role is the authorization tier of an account.
type Role string

var (
	// RoleUser is the default tier assigned at registration
	RoleUser Role = "USER"
	// RoleAdmin can manage postings and applications
	RoleAdmin Role = "ADMIN"
)

// User is gorm model for store registered accounts in DB
type User struct {
	ID         uint   `gorm:"primaryKey;autoIncrement;->" json:"id"`
	FirstName  string `gorm:"type:varchar(50);not null" json:"first_name"`
	MiddleName string `gorm:"type:varchar(50)" json:"middle_name"`
	LastName   string `gorm:"type:varchar(50);not null" json:"last_name"`
	Username   string `gorm:"type:varchar(50);not null;uniqueIndex" json:"username"`
	Password   string `gorm:"not null" json:"-"`
	Role       Role   `gorm:"type:varchar(10);default:USER" json:"role"`

	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	Applications []Application `gorm:"foreignKey:UserID" json:"-"`
}

// DisplayName returns the "First Last" form used in tokens and read views.
func (u *User) DisplayName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// Is reports whether the user holds one of the given roles.
func (u *User) Is(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
