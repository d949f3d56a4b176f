package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	authdomain "jobtracker-backend/internal/auth/domain"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// sessionRecord is the wire form stored in Redis. Session hides its token
// fields from JSON, so the store keeps its own encoding.
type sessionRecord struct {
	ID           string    `json:"id"`
	UserEmail    string    `json:"user_email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenExpiry  time.Time `json:"token_expiry"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// redisSessionStore implements SessionStore on Redis. The key TTL tracks the
// session expiry so logout-by-timeout needs no sweeper.
type redisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{
		client: client,
	}
}

func (r *redisSessionStore) Save(session *authdomain.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	data, err := json.Marshal(sessionRecord{
		ID:           session.ID,
		UserEmail:    session.UserEmail,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenExpiry:  session.TokenExpiry,
		CreatedAt:    session.CreatedAt,
		ExpiresAt:    session.ExpiresAt,
	})
	if err != nil {
		return err
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	return r.client.Set(context.Background(), sessionKeyPrefix+session.ID, data, ttl).Err()
}

func (r *redisSessionStore) FindByID(id string) (*authdomain.Session, error) {
	data, err := r.client.Get(context.Background(), sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var record sessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &authdomain.Session{
		ID:           record.ID,
		UserEmail:    record.UserEmail,
		AccessToken:  record.AccessToken,
		RefreshToken: record.RefreshToken,
		TokenExpiry:  record.TokenExpiry,
		CreatedAt:    record.CreatedAt,
		ExpiresAt:    record.ExpiresAt,
	}, nil
}

func (r *redisSessionStore) Delete(id string) error {
	return r.client.Del(context.Background(), sessionKeyPrefix+id).Err()
}
