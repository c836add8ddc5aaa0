package models

import (
	"time"
)

// Feedback is a dated note a manager writes about a collaborator during a
// saison. Only its author may edit or delete it.
type Feedback struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Content        string    `json:"content" gorm:"not null"`
	AuthorID       uint      `json:"authorId" gorm:"not null;index"`
	Author         User      `json:"author" gorm:"foreignKey:AuthorID"`
	CollaboratorID uint      `json:"collaboratorId" gorm:"not null;index"`
	Collaborator   User      `json:"-" gorm:"foreignKey:CollaboratorID"`
	SaisonID       uint      `json:"saisonId" gorm:"not null;index"`
	Mission        *string   `json:"mission"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
