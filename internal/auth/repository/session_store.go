package repository

import (
	authdomain "jobtracker-backend/internal/auth/domain"
)

// SessionStore persists login sessions. Two implementations exist: Postgres
// (default) and Redis (used when REDIS_ADDR is configured).
type SessionStore interface {
	Save(session *authdomain.Session) error
	FindByID(id string) (*authdomain.Session, error)
	Delete(id string) error
}
