// Package queue publishes auth domain events to the marketplace broker
// so downstream services (notifications, admin verification) can react
// to new accounts without polling the database.
package queue

import "time"

const UserRegisteredQueueName = "user.registered"

type UserRegisteredEvent struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}
