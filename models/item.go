package models

import (
	"time"

	"gorm.io/gorm"
)

// Item представляет предмет, хранящийся в ящике
type Item struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null;size:255;index"`
	BoxID    uint   `json:"box_id" gorm:"not null;index"`
	Quantity int    `json:"quantity" gorm:"not null;default:1;check:quantity > 0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Связи
	Box *Box `json:"box,omitempty" gorm:"foreignKey:BoxID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate хук для установки времени создания
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (i *Item) BeforeUpdate(tx *gorm.DB) error {
	i.UpdatedAt = time.Now()
	return nil
}
