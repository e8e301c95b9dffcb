package models

import "time"

// Store represents a rateable store owned by a single user.
type Store struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string    `json:"name" gorm:"type:varchar(60)" validate:"required,min=1,max=60"`
	Email     string    `json:"email" gorm:"type:varchar(255)" validate:"required,email"`
	Address   string    `json:"address" gorm:"type:varchar(400)" validate:"required,min=1,max=400"`
	OwnerID   string    `json:"ownerId" gorm:"type:varchar(36);not null;index" validate:"required"`
	Owner     *User     `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoreWithRating is the read model for store listings that carry
// aggregated rating data. AvgRating is scanned from the grouped query;
// AvgRatingDisplay is the one-decimal form clients receive ("0.0" when
// the store has no ratings).
type StoreWithRating struct {
	ID               string  `json:"id" gorm:"column:id"`
	Name             string  `json:"name" gorm:"column:name"`
	Email            string  `json:"email,omitempty" gorm:"column:email"`
	Address          string  `json:"address" gorm:"column:address"`
	AvgRating        float64 `json:"-" gorm:"column:avg_rating"`
	AvgRatingDisplay string  `json:"avgRating" gorm:"-"`
	MyRating         *int    `json:"myRating,omitempty" gorm:"column:my_rating"`
}
