package models

import (
	"time"
)

// StaffRole defines allowed roles in the system
type StaffRole string

const (
	RoleManager StaffRole = "manager"
	RoleWaiter  StaffRole = "waiter"
	RoleChef    StaffRole = "chef"
	RoleCashier StaffRole = "cashier"
)

var StaffRoles = []StaffRole{RoleManager, RoleWaiter, RoleChef, RoleCashier}

type Staff struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         StaffRole `json:"role" gorm:"not null;default:'waiter'"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r StaffRole) Valid() bool {
	for _, role := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}
