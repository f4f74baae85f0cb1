package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserRegistered  = "user.registered"
	EventTypeUserLoggedIn    = "user.logged_in"
	EventTypeUserLoggedOut   = "user.logged_out"
	EventTypeUserDeactivated = "user.deactivated"
)

type UserRegisteredEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func NewUserRegistered(userID, email string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserRegistered,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"email":   email,
			},
		},
		UserID: userID,
		Email:  email,
	}
}

type UserLoggedInEvent struct {
	BaseEvent
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

func NewUserLoggedIn(userID, sessionID string) *UserLoggedInEvent {
	return &UserLoggedInEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserLoggedIn,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":    userID,
				"session_id": sessionID,
			},
		},
		UserID:    userID,
		SessionID: sessionID,
	}
}

type UserLoggedOutEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
}

func NewUserLoggedOut(userID string) *UserLoggedOutEvent {
	return &UserLoggedOutEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserLoggedOut,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
			},
		},
		UserID: userID,
	}
}

type UserDeactivatedEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
}

func NewUserDeactivated(userID string) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserDeactivated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
			},
		},
		UserID: userID,
	}
}
