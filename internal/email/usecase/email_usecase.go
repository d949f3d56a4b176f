package usecase

import (
	"context"
	"strings"

	authdomain "jobtracker-backend/internal/auth/domain"
	authrepo "jobtracker-backend/internal/auth/repository"
	"jobtracker-backend/internal/classify"
	emaildomain "jobtracker-backend/internal/email/domain"
	"jobtracker-backend/pkg/config"
	"jobtracker-backend/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// statsFetchLimit bounds how many messages feed the dashboard summary.
const statsFetchLimit = 500

// emailUsecase implements EmailUsecase
type emailUsecase struct {
	mailProvider emaildomain.MailProvider
	sessionStore authrepo.SessionStore
	config       *config.Config
	log          *zap.Logger
}

func NewEmailUsecase(mailProvider emaildomain.MailProvider, sessionStore authrepo.SessionStore, cfg *config.Config, log *zap.Logger) EmailUsecase {
	return &emailUsecase{
		mailProvider: mailProvider,
		sessionStore: sessionStore,
		config:       cfg,
		log:          log,
	}
}

// tokenRefresher persists a refreshed provider token back into the session,
// so the next request does not trigger another refresh round-trip.
func (u *emailUsecase) tokenRefresher(session *authdomain.Session) emaildomain.TokenUpdateFunc {
	return func(token *oauth2.Token) error {
		session.AccessToken = token.AccessToken
		if token.RefreshToken != "" {
			session.RefreshToken = token.RefreshToken
		}
		session.TokenExpiry = token.Expiry

		if err := u.sessionStore.Save(session); err != nil {
			u.log.Error("failed to persist refreshed token",
				zap.String("session_id", session.ID), zap.Error(err))
			return err
		}
		return nil
	}
}

func (u *emailUsecase) GetEmails(ctx context.Context, session *authdomain.Session, opts ListOptions) ([]*emaildomain.Email, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = u.config.MaxResults
	}

	emails, err := u.mailProvider.ListMessages(ctx, session.AccessToken, session.RefreshToken, "", maxResults, u.tokenRefresher(session))
	if err != nil {
		return nil, err
	}

	for _, email := range emails {
		u.annotate(email)
	}

	if opts.Category != "" || opts.Company != "" {
		emails = filterEmails(emails, opts)
	}

	return emails, nil
}

func (u *emailUsecase) GetEmailByID(ctx context.Context, session *authdomain.Session, id string) (*emaildomain.Email, error) {
	email, err := u.mailProvider.GetMessage(ctx, session.AccessToken, session.RefreshToken, id, u.tokenRefresher(session))
	if err != nil {
		return nil, err
	}

	u.annotate(email)
	return email, nil
}

func (u *emailUsecase) GetDashboardStats(ctx context.Context, session *authdomain.Session) (*emaildomain.Stats, error) {
	emails, err := u.mailProvider.ListMessages(ctx, session.AccessToken, session.RefreshToken, "", statsFetchLimit, u.tokenRefresher(session))
	if err != nil {
		return nil, err
	}

	stats := &emaildomain.Stats{Total: len(emails)}
	for _, email := range emails {
		u.annotate(email)
		switch email.Category {
		case emaildomain.CategoryApplication:
			stats.Applications++
		case emaildomain.CategoryRejection:
			stats.Rejections++
		case emaildomain.CategoryInterview:
			stats.Interviews++
		case emaildomain.CategoryOffer:
			stats.Offers++
		default:
			stats.Uncategorized++
		}
	}

	return stats, nil
}

// annotate assigns the category and company fields. The body is preferred
// over the snippet when present, matching what the detail view shows.
func (u *emailUsecase) annotate(email *emaildomain.Email) {
	text := email.Snippet
	if email.Body != "" {
		text = email.Body
	}

	email.Category = classify.Categorize(email.Subject, text)
	email.Company = classify.ExtractCompany(email.Sender, email.Subject)
	metrics.IncrementCategorized(string(email.Category))
}

func filterEmails(emails []*emaildomain.Email, opts ListOptions) []*emaildomain.Email {
	filtered := make([]*emaildomain.Email, 0, len(emails))
	for _, email := range emails {
		if opts.Category != "" && email.Category != opts.Category {
			continue
		}
		if opts.Company != "" && !strings.Contains(strings.ToLower(email.Company), strings.ToLower(opts.Company)) {
			continue
		}
		filtered = append(filtered, email)
	}
	return filtered
}
