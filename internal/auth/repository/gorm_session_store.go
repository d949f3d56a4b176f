package repository

import (
	"errors"
	"time"

	authdomain "jobtracker-backend/internal/auth/domain"

	"gorm.io/gorm"
)

// gormSessionStore implements SessionStore on Postgres
type gormSessionStore struct {
	db *gorm.DB
}

func NewGormSessionStore(db *gorm.DB) SessionStore {
	return &gormSessionStore{
		db: db,
	}
}

func (r *gormSessionStore) Save(session *authdomain.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	return r.db.Save(session).Error
}

func (r *gormSessionStore) FindByID(id string) (*authdomain.Session, error) {
	var session authdomain.Session
	err := r.db.Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *gormSessionStore) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&authdomain.Session{}).Error
}

// CleanupExpired removes sessions past their TTL to prevent table bloat.
func CleanupExpired(db *gorm.DB) error {
	return db.Where("expires_at < ?", time.Now()).Delete(&authdomain.Session{}).Error
}
