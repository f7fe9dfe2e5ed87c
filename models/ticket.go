package models

import (
	"time"
)

// Ticket is a support request filed by a user. CreatedBy is always the
// authenticated author; AssignedTo is optional and must reference an
// existing user when set.
type Ticket struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Tried       string    `json:"tried"`
	CreatedBy   uint      `gorm:"not null;index" json:"created_by"`
	AssignedTo  *uint     `gorm:"index" json:"assigned_to"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Creator  *User `gorm:"foreignKey:CreatedBy" json:"-"`
	Assignee *User `gorm:"foreignKey:AssignedTo" json:"-"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// TicketWithCreator is the list-view row: the ticket joined with its
// creator's username.
type TicketWithCreator struct {
	Ticket
	CreatorUsername string `json:"created_by_username"`
}
