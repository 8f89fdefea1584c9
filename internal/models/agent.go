// Package models holds the gorm models persisted by the deal intake API.
package models

import "gorm.io/gorm"

// Agent is a talent agent who can log in and own deals.
type Agent struct {
	gorm.Model
	FirstName         string `gorm:"size:100;not null" json:"firstName"`
	LastName          string `gorm:"size:100" json:"lastName"`
	Email             string `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Phone             string `gorm:"size:30" json:"phone"`
	Division          string `gorm:"size:100" json:"division"`
	Password          string `gorm:"size:255;not null" json:"-"`
	MustResetPassword bool   `json:"mustResetPassword"`
	IsAdmin           bool   `gorm:"default:false" json:"isAdmin"`
}

// DisplayName is the name used on split lines.
func (a Agent) DisplayName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

type Brand struct {
	gorm.Model
	Name     string `gorm:"size:150;uniqueIndex;not null" json:"name"`
	Industry string `gorm:"size:100" json:"industry"`
	Website  string `gorm:"size:255" json:"website"`
	Notes    string `gorm:"type:text" json:"notes"`
}
