package models

import (
	"time"
)

type SaisonStatus string

const (
	SaisonActive   SaisonStatus = "ACTIVE"
	SaisonArchived SaisonStatus = "ARCHIVED"
)

// Saison is the evaluation period feedbacks and rapports are grouped by.
// By convention at most one saison is ACTIVE at a time; this is not
// enforced by the schema.
type Saison struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"not null"`
	StartDate time.Time    `json:"startDate" gorm:"not null"`
	EndDate   time.Time    `json:"endDate" gorm:"not null"`
	Status    SaisonStatus `json:"status" gorm:"not null;default:'ACTIVE'"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (Saison) TableName() string {
	return "saisons"
}
