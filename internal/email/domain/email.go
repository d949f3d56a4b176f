package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Category is the label assigned to an email by the keyword classifier.
type Category string

const (
	CategoryApplication   Category = "application"
	CategoryRejection     Category = "rejection"
	CategoryInterview     Category = "interview"
	CategoryOffer         Category = "offer"
	CategoryUncategorized Category = "uncategorized"
)

// Categories lists every valid label, in classifier priority order.
var Categories = []Category{
	CategoryRejection,
	CategoryInterview,
	CategoryOffer,
	CategoryApplication,
	CategoryUncategorized,
}

// Valid reports whether c is one of the fixed labels.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Email struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	Snippet    string    `json:"snippet"`
	Body       string    `json:"body,omitempty"`
	Sender     string    `json:"sender"`
	SenderName string    `json:"sender_name,omitempty"`
	Company    string    `json:"company,omitempty"`
	Date       time.Time `json:"date"`
	Category   Category  `json:"category"`
	GmailURL   string    `json:"gmail_url"`
}

// Stats aggregates per-category counts for the dashboard summary.
type Stats struct {
	Total         int `json:"total"`
	Applications  int `json:"applications"`
	Rejections    int `json:"rejections"`
	Interviews    int `json:"interviews"`
	Offers        int `json:"offers"`
	Uncategorized int `json:"uncategorized"`
}

// TokenUpdateFunc is invoked when the provider refreshes the access token,
// so the new token can be written back to the session store.
type TokenUpdateFunc func(token *oauth2.Token) error

// MailProvider abstracts the external mail service so handlers and tests can
// substitute a fake.
type MailProvider interface {
	ListMessages(ctx context.Context, accessToken, refreshToken, query string, maxResults int, onTokenRefresh TokenUpdateFunc) ([]*Email, error)
	GetMessage(ctx context.Context, accessToken, refreshToken, id string, onTokenRefresh TokenUpdateFunc) (*Email, error)
	GetProfileEmail(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) (string, error)
}

// Sentinel errors surfaced by MailProvider implementations.
var (
	ErrNotFound     = errors.New("message not found")
	ErrTokenExpired = errors.New("access token expired or revoked")
	ErrRateLimited  = errors.New("mail provider rate limit exceeded")
)

// FetchError wraps a provider-side failure that is neither an auth problem
// nor a rate limit. The API layer maps it to 502.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("mail fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
