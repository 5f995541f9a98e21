package models

import (
	"time"
)

// Gift statuses
const (
	GiftStatusPending   = "pending"
	GiftStatusPurchased = "purchased"

	ReturnStatusPending = "pending"
	ReturnStatusDone    = "done"
)

// GiftToGive a gift the host plans to give
type GiftToGive struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	EventID       uint      `json:"event_id" gorm:"index;not null"`
	RecipientName string    `json:"recipient_name" gorm:"size:100;not null"`
	Budget        float64   `json:"budget" gorm:"type:decimal(12,2);not null"`
	GiftItem      *string   `json:"gift_item" gorm:"size:200"`
	Status        string    `json:"status" gorm:"size:20;not null;default:pending"`
	CreatedAt     time.Time `json:"created_at"`
	Event         Event     `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name
func (GiftToGive) TableName() string {
	return "gifts_to_give"
}

// NextGiftStatus pending -> purchased, anything else -> pending
func NextGiftStatus(status string) string {
	if status == GiftStatusPending {
		return GiftStatusPurchased
	}
	return GiftStatusPending
}

// GiftReceived a gift received from a guest; ReturnStatus tracks the return gift
type GiftReceived struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	EventID      uint      `json:"event_id" gorm:"index;not null"`
	GiverName    string    `json:"giver_name" gorm:"size:100;not null"`
	GiftItem     string    `json:"gift_item" gorm:"size:200;not null"`
	GiftValue    float64   `json:"gift_value" gorm:"type:decimal(12,2);not null"`
	ReturnStatus string    `json:"return_status" gorm:"size:20;not null;default:pending"`
	CreatedAt    time.Time `json:"created_at"`
	Event        Event     `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name
func (GiftReceived) TableName() string {
	return "gifts_received"
}

// NextReturnStatus pending -> done, anything else -> pending
func NextReturnStatus(status string) string {
	if status == ReturnStatusPending {
		return ReturnStatusDone
	}
	return ReturnStatusPending
}
