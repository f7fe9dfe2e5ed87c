package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/devdesk/backend/models"
)

// capturePublisher records published events in place of a NATS connection.
type capturePublisher struct {
	subjects []string
	payloads [][]byte
}

func (p *capturePublisher) Publish(subject string, data []byte) error {
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	return nil
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{Username: username, PasswordHash: string(hashed)}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestTicketService_ListEmpty(t *testing.T) {
	db := newTestDB(t, "ticketslistempty")
	svc := NewTicketService(db, nil)

	tickets, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tickets)
	assert.Len(t, tickets, 0)
}

func TestTicketService_CreateRoundTrip(t *testing.T) {
	db := newTestDB(t, "ticketscreate")
	svc := NewTicketService(db, nil)
	ctx := context.Background()
	user := seedUser(t, db, "test")

	fields := TicketFields{Title: "test", Description: "test", Tried: "test"}
	list, err := svc.Create(ctx, fields, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// ids start at 1 on an empty table
	assert.Equal(t, uint(1), list[0].ID)
	assert.Equal(t, "test", list[0].CreatorUsername)

	got, err := svc.Get(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, fields.Title, got.Title)
	assert.Equal(t, fields.Description, got.Description)
	assert.Equal(t, fields.Tried, got.Tried)
	assert.Equal(t, user.ID, got.CreatedBy)
	assert.Nil(t, got.AssignedTo)
}

func TestTicketService_CreatePublishesEvent(t *testing.T) {
	db := newTestDB(t, "ticketsevents")
	events := &capturePublisher{}
	svc := NewTicketService(db, events)
	user := seedUser(t, db, "test")

	_, err := svc.Create(context.Background(), TicketFields{Title: "test"}, user.ID)
	require.NoError(t, err)

	require.Len(t, events.subjects, 1)
	assert.Equal(t, EventsSubject, events.subjects[0])

	var event TicketEvent
	require.NoError(t, json.Unmarshal(events.payloads[0], &event))
	assert.Equal(t, "created", event.Type)
	assert.Equal(t, "test", event.Ticket.Title)
}

func TestTicketService_CreateUnknownAssignee(t *testing.T) {
	db := newTestDB(t, "ticketsbadassignee")
	svc := NewTicketService(db, nil)
	user := seedUser(t, db, "test")

	missing := uint(99)
	_, err := svc.Create(context.Background(), TicketFields{Title: "test", AssignedTo: &missing}, user.ID)
	assert.ErrorIs(t, err, ErrAssigneeNotFound)
}

func TestTicketService_Update(t *testing.T) {
	db := newTestDB(t, "ticketsupdate")
	svc := NewTicketService(db, nil)
	ctx := context.Background()
	user := seedUser(t, db, "test")
	assignee := seedUser(t, db, "helper")

	list, err := svc.Create(ctx, TicketFields{Title: "test", Description: "test", Tried: "test"}, user.ID)
	require.NoError(t, err)
	id := list[0].ID

	updated, err := svc.Update(ctx, id, TicketFields{
		Title:       "updated test",
		Description: "test",
		Tried:       "test",
		AssignedTo:  &assignee.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "updated test", updated.Title)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, assignee.ID, *updated.AssignedTo)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "updated test", got.Title)
}

func TestTicketService_NotFound(t *testing.T) {
	db := newTestDB(t, "ticketsnotfound")
	svc := NewTicketService(db, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrTicketNotFound)

	_, err = svc.Update(ctx, 42, TicketFields{Title: "x"})
	assert.ErrorIs(t, err, ErrTicketNotFound)

	_, err = svc.Remove(ctx, 42)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestTicketService_RemoveReturnsRowAndIsNotIdempotent(t *testing.T) {
	db := newTestDB(t, "ticketsremove")
	svc := NewTicketService(db, nil)
	ctx := context.Background()
	user := seedUser(t, db, "test")

	list, err := svc.Create(ctx, TicketFields{Title: "test"}, user.ID)
	require.NoError(t, err)
	id := list[0].ID

	removed, err := svc.Remove(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "test", removed.Title)

	// Second delete reports not-found, never a second deletion
	_, err = svc.Remove(ctx, id)
	assert.ErrorIs(t, err, ErrTicketNotFound)

	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestTicketService_CreatedByAndAssignedTo(t *testing.T) {
	db := newTestDB(t, "ticketsfilters")
	svc := NewTicketService(db, nil)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.Create(ctx, TicketFields{Title: "alice ticket", AssignedTo: &bob.ID}, alice.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, TicketFields{Title: "bob ticket"}, bob.ID)
	require.NoError(t, err)

	created, err := svc.CreatedBy(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "alice ticket", created[0].Title)
	assert.Equal(t, "alice", created[0].CreatorUsername)

	assigned, err := svc.AssignedTo(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "alice ticket", assigned[0].Title)

	none, err := svc.AssignedTo(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, none, 0)
}
