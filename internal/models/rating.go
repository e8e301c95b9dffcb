package models

import "time"

// Rating is a single user's 1-5 score for a store. The composite unique
// index guarantees at most one row per (user, store) pair; re-rating is
// an upsert on that pair.
type Rating struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Rating    int       `json:"rating" gorm:"not null" validate:"required,min=1,max=5"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_ratings_user_store"`
	StoreID   string    `json:"storeId" gorm:"type:varchar(36);not null;uniqueIndex:idx_ratings_user_store"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Store     *Store    `json:"-" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingWithUser is the owner-dashboard read model: a rating joined to
// the reviewer's name and email.
type RatingWithUser struct {
	ID        string    `json:"id" gorm:"column:id"`
	Rating    int       `json:"rating" gorm:"column:rating"`
	UserName  string    `json:"userName" gorm:"column:user_name"`
	UserEmail string    `json:"userEmail" gorm:"column:user_email"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}
