package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format of event dates
const DateLayout = "2006-01-02"

// Event a planned occasion with a date and a total budget
type Event struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"index;not null"`
	EventName       string    `json:"event_name" gorm:"size:200;not null"`
	EventType       string    `json:"event_type" gorm:"size:50;not null"`
	EventDate       time.Time `json:"event_date" gorm:"type:date;not null;index"`
	BudgetTotal     float64   `json:"budget_total" gorm:"type:decimal(12,2);not null;default:0"`
	ChecklistSeeded bool      `json:"checklist_seeded" gorm:"not null;default:false"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	User            User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name
func (Event) TableName() string {
	return "events"
}

// MarshalJSON writes event_date as YYYY-MM-DD
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	return json.Marshal(struct {
		plain
		EventDate string `json:"event_date"`
	}{plain(e), e.EventDate.Format(DateLayout)})
}

// Expense a single spend recorded against an event's budget
type Expense struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"event_id" gorm:"index;not null"`
	Category  string    `json:"category" gorm:"size:100;not null"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	Amount    float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time `json:"created_at"`
	Event     Event     `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name
func (Expense) TableName() string {
	return "expenses"
}

// ChecklistItem one task of an event checklist
type ChecklistItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	EventID     uint      `json:"event_id" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	IsCompleted bool      `json:"is_completed" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	Event       Event     `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name
func (ChecklistItem) TableName() string {
	return "checklist_items"
}
