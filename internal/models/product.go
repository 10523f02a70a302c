package models

import "time"

// Product represents a product in the catalog.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Price       float64   `json:"price" gorm:"not null"`
	Img         string    `json:"img" gorm:"type:varchar(512);not null"`
	Description string    `json:"description,omitempty" gorm:"type:varchar(1000)"`
	Category    string    `json:"category,omitempty" gorm:"type:varchar(100)"`
	CreatedAt   time.Time `json:"createdAt"`
}
