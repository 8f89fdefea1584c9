package models

import "gorm.io/gorm"

// Note is a free-text remark on a deal. System notes are written by the API
// itself and have no author.
type Note struct {
	gorm.Model
	DealID   uint   `gorm:"not null;index" json:"dealId"`
	AuthorID *uint  `gorm:"index" json:"authorId"`
	Text     string `gorm:"type:text;not null" json:"text"`
	System   bool   `gorm:"default:false" json:"system"`
}
