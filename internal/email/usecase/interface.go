package usecase

import (
	"context"

	authdomain "jobtracker-backend/internal/auth/domain"
	emaildomain "jobtracker-backend/internal/email/domain"
)

// ListOptions narrows the email listing. Zero values mean no filter.
type ListOptions struct {
	Category   emaildomain.Category
	Company    string
	MaxResults int
}

// EmailUsecase composes the mail fetcher and the categorizer.
type EmailUsecase interface {
	GetEmails(ctx context.Context, session *authdomain.Session, opts ListOptions) ([]*emaildomain.Email, error)
	GetEmailByID(ctx context.Context, session *authdomain.Session, id string) (*emaildomain.Email, error)
	GetDashboardStats(ctx context.Context, session *authdomain.Session) (*emaildomain.Stats, error)
}
