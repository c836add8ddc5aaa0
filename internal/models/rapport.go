package models

import (
	"time"
)

type RapportStatus string

const (
	RapportDraft     RapportStatus = "DRAFT"
	RapportValidated RapportStatus = "VALIDATED"
)

// Rapport is the annual evaluation document for one collaborator in one
// saison. One rapport per (collaborator, saison) is a convention, not a
// constraint.
type Rapport struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	CollaboratorID uint          `json:"collaboratorId" gorm:"not null;index"`
	Collaborator   User          `json:"-" gorm:"foreignKey:CollaboratorID"`
	AuthorID       uint          `json:"authorId" gorm:"not null"`
	SaisonID       uint          `json:"saisonId" gorm:"not null;index"`
	Saison         Saison        `json:"-" gorm:"foreignKey:SaisonID"`
	Content        *string       `json:"content"`
	Status         RapportStatus `json:"status" gorm:"not null;default:'DRAFT'"`
	GeneratedAt    time.Time     `json:"generatedAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func (Rapport) TableName() string {
	return "rapports"
}
