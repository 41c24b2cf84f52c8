package models

import "gorm.io/gorm"

// Setting is a key/value store row for runtime configuration (store name,
// admin alert phones, SMS gateway overrides). Encrypted values are sealed
// with pkg/crypt before persisting.
type Setting struct {
	gorm.Model
	Key       string `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Value     string `gorm:"type:text"                     json:"value"`
	Encrypted bool   `gorm:"not null;default:false"        json:"encrypted"`
}
