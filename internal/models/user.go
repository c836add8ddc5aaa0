package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin         UserRole = "ADMIN"
	RoleChefDeMission UserRole = "CHEF_DE_MISSION"
	RoleAssistant     UserRole = "ASSISTANT"
)

// ValidRole reports whether s is one of the three known roles.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleAdmin, RoleChefDeMission, RoleAssistant:
		return true
	}
	return false
}

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	FirstName string    `json:"firstName" gorm:"not null"`
	LastName  string    `json:"lastName" gorm:"not null"`
	Role      UserRole  `json:"role" gorm:"not null;default:'ASSISTANT'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
