package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/devdesk/backend/models"
)

// EventsSubject is the NATS subject ticket lifecycle events are published to.
const EventsSubject = "tickets.events"

// EventPublisher publishes ticket lifecycle events. *nats.Conn satisfies it;
// tests may pass nil to disable publishing.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

// TicketEvent is the wire format published on EventsSubject.
type TicketEvent struct {
	Type   string        `json:"type"` // created, updated, deleted
	Ticket models.Ticket `json:"ticket"`
}

// TicketFields are the caller-updatable ticket fields. The creator is always
// taken from the authenticated identity, never from the body.
type TicketFields struct {
	Title       string
	Description string
	Tried       string
	AssignedTo  *uint
}

// TicketService is the CRUD surface over the tickets table.
type TicketService struct {
	db     *gorm.DB
	events EventPublisher
}

// NewTicketService creates a TicketService. events may be nil.
func NewTicketService(db *gorm.DB, events EventPublisher) *TicketService {
	return &TicketService{db: db, events: events}
}

// List returns all tickets joined with their creator's username, oldest
// first. An empty table yields an empty slice, not an error.
func (s *TicketService) List(ctx context.Context) ([]models.TicketWithCreator, error) {
	return s.listWhere(ctx, nil)
}

// CreatedBy returns the tickets created by the given user.
func (s *TicketService) CreatedBy(ctx context.Context, userID uint) ([]models.TicketWithCreator, error) {
	return s.listWhere(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("tickets.created_by = ?", userID)
	})
}

// AssignedTo returns the tickets assigned to the given user.
func (s *TicketService) AssignedTo(ctx context.Context, userID uint) ([]models.TicketWithCreator, error) {
	return s.listWhere(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("tickets.assigned_to = ?", userID)
	})
}

func (s *TicketService) listWhere(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]models.TicketWithCreator, error) {
	tickets := make([]models.TicketWithCreator, 0)
	q := s.db.WithContext(ctx).Table("tickets").
		Select("tickets.*, users.username AS creator_username").
		Joins("JOIN users ON users.id = tickets.created_by")
	if scope != nil {
		q = scope(q)
	}
	if err := q.Order("tickets.id").Scan(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// Get returns a single ticket by id.
func (s *TicketService) Get(ctx context.Context, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := s.db.WithContext(ctx).First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// Create inserts a new ticket authored by authorID and returns the full
// joined list, matching the original client contract.
func (s *TicketService) Create(ctx context.Context, fields TicketFields, authorID uint) ([]models.TicketWithCreator, error) {
	if err := s.checkAssignee(ctx, fields.AssignedTo); err != nil {
		return nil, err
	}

	ticket := models.Ticket{
		Title:       fields.Title,
		Description: fields.Description,
		Tried:       fields.Tried,
		CreatedBy:   authorID,
		AssignedTo:  fields.AssignedTo,
	}
	if err := s.db.WithContext(ctx).Create(&ticket).Error; err != nil {
		return nil, err
	}

	s.publish("created", ticket)
	return s.List(ctx)
}

// Update overwrites all updatable fields of the ticket and returns the
// updated row.
func (s *TicketService) Update(ctx context.Context, id uint, fields TicketFields) (*models.Ticket, error) {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, fields.AssignedTo); err != nil {
		return nil, err
	}

	ticket.Title = fields.Title
	ticket.Description = fields.Description
	ticket.Tried = fields.Tried
	ticket.AssignedTo = fields.AssignedTo
	if err := s.db.WithContext(ctx).Save(ticket).Error; err != nil {
		return nil, err
	}

	s.publish("updated", *ticket)
	return ticket, nil
}

// Remove deletes the ticket and returns the pre-deletion row.
func (s *TicketService) Remove(ctx context.Context, id uint) (*models.Ticket, error) {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Ticket{}, id).Error; err != nil {
		return nil, err
	}

	s.publish("deleted", *ticket)
	return ticket, nil
}

// checkAssignee verifies the assignee references an existing user.
func (s *TicketService) checkAssignee(ctx context.Context, assignedTo *uint) error {
	if assignedTo == nil {
		return nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", *assignedTo).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrAssigneeNotFound
	}
	return nil
}

// publish sends a lifecycle event to the hub, best effort.
func (s *TicketService) publish(eventType string, ticket models.Ticket) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(TicketEvent{Type: eventType, Ticket: ticket})
	if err != nil {
		return
	}
	if err := s.events.Publish(EventsSubject, data); err != nil {
		log.Printf("⚠️ Failed to publish ticket event: %v", err)
	}
}
