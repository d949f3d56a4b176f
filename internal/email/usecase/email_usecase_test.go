package usecase_test

import (
	"context"
	"testing"
	"time"

	authdomain "jobtracker-backend/internal/auth/domain"
	emaildomain "jobtracker-backend/internal/email/domain"
	"jobtracker-backend/internal/email/usecase"
	"jobtracker-backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type fakeProvider struct {
	emails  []*emaildomain.Email
	listErr error
	getErr  error

	// When set, ListMessages invokes the refresh callback with this token
	// before returning, simulating a provider-side token refresh.
	refreshedToken *oauth2.Token
}

func (p *fakeProvider) ListMessages(ctx context.Context, accessToken, refreshToken, query string, maxResults int, onTokenRefresh emaildomain.TokenUpdateFunc) ([]*emaildomain.Email, error) {
	if p.refreshedToken != nil && onTokenRefresh != nil {
		if err := onTokenRefresh(p.refreshedToken); err != nil {
			return nil, err
		}
	}
	if p.listErr != nil {
		return nil, p.listErr
	}

	out := make([]*emaildomain.Email, 0, len(p.emails))
	for _, email := range p.emails {
		if maxResults > 0 && len(out) >= maxResults {
			break
		}
		clone := *email
		out = append(out, &clone)
	}
	return out, nil
}

func (p *fakeProvider) GetMessage(ctx context.Context, accessToken, refreshToken, id string, onTokenRefresh emaildomain.TokenUpdateFunc) (*emaildomain.Email, error) {
	if p.getErr != nil {
		return nil, p.getErr
	}
	for _, email := range p.emails {
		if email.ID == id {
			clone := *email
			return &clone, nil
		}
	}
	return nil, emaildomain.ErrNotFound
}

func (p *fakeProvider) GetProfileEmail(ctx context.Context, accessToken, refreshToken string, onTokenRefresh emaildomain.TokenUpdateFunc) (string, error) {
	return "user@example.com", nil
}

type fakeSessionStore struct {
	saved []*authdomain.Session
}

func (s *fakeSessionStore) Save(session *authdomain.Session) error {
	clone := *session
	s.saved = append(s.saved, &clone)
	return nil
}

func (s *fakeSessionStore) FindByID(id string) (*authdomain.Session, error) { return nil, nil }
func (s *fakeSessionStore) Delete(id string) error                          { return nil }

func testSession() *authdomain.Session {
	return &authdomain.Session{
		ID:           "session-1",
		UserEmail:    "user@example.com",
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func testEmails() []*emaildomain.Email {
	return []*emaildomain.Email{
		{ID: "1", Subject: "Interview Invitation - Stripe", Snippet: "Please share your availability.", Sender: "careers@stripe.com"},
		{ID: "2", Subject: "We received your application", Snippet: "Our team will review it.", Sender: "jobs@initech.io"},
		{ID: "3", Subject: "Update on your candidacy", Snippet: "Unfortunately we are not moving forward.", Sender: "talent@globex.com"},
		{ID: "4", Subject: "Your Offer Letter", Snippet: "We are pleased to extend an offer.", Sender: "hr@acme.dev"},
		{ID: "5", Subject: "Weekend plans", Snippet: "Want to grab lunch?", Sender: "friend@gmail.com"},
	}
}

func newUsecase(provider *fakeProvider, store *fakeSessionStore) usecase.EmailUsecase {
	cfg := &config.Config{MaxResults: 50}
	return usecase.NewEmailUsecase(provider, store, cfg, zap.NewNop())
}

func TestGetEmailsAssignsCategories(t *testing.T) {
	uc := newUsecase(&fakeProvider{emails: testEmails()}, &fakeSessionStore{})

	emails, err := uc.GetEmails(context.Background(), testSession(), usecase.ListOptions{})
	require.NoError(t, err)
	require.Len(t, emails, 5)

	byID := make(map[string]*emaildomain.Email, len(emails))
	for _, email := range emails {
		byID[email.ID] = email
	}

	assert.Equal(t, emaildomain.CategoryInterview, byID["1"].Category)
	assert.Equal(t, emaildomain.CategoryApplication, byID["2"].Category)
	assert.Equal(t, emaildomain.CategoryRejection, byID["3"].Category)
	assert.Equal(t, emaildomain.CategoryOffer, byID["4"].Category)
	assert.Equal(t, emaildomain.CategoryUncategorized, byID["5"].Category)

	assert.Equal(t, "Stripe", byID["1"].Company)
	assert.Equal(t, "", byID["5"].Company)
}

func TestGetEmailsFiltersByCategory(t *testing.T) {
	uc := newUsecase(&fakeProvider{emails: testEmails()}, &fakeSessionStore{})

	emails, err := uc.GetEmails(context.Background(), testSession(), usecase.ListOptions{
		Category: emaildomain.CategoryRejection,
	})
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "3", emails[0].ID)
}

func TestGetEmailsFiltersByCompany(t *testing.T) {
	uc := newUsecase(&fakeProvider{emails: testEmails()}, &fakeSessionStore{})

	emails, err := uc.GetEmails(context.Background(), testSession(), usecase.ListOptions{
		Company: "stripe",
	})
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "1", emails[0].ID)
}

func TestGetEmailsPropagatesRateLimit(t *testing.T) {
	uc := newUsecase(&fakeProvider{listErr: emaildomain.ErrRateLimited}, &fakeSessionStore{})

	_, err := uc.GetEmails(context.Background(), testSession(), usecase.ListOptions{})
	assert.ErrorIs(t, err, emaildomain.ErrRateLimited)
}

func TestGetEmailByIDUsesBodyForClassification(t *testing.T) {
	provider := &fakeProvider{emails: []*emaildomain.Email{
		{
			ID:      "42",
			Subject: "Thanks for your time",
			Snippet: "Thanks for speaking with us...",
			Body:    "We regret to inform you that we will not be moving forward with other candidates in mind.",
			Sender:  "talent@acme.dev",
		},
	}}
	uc := newUsecase(provider, &fakeSessionStore{})

	email, err := uc.GetEmailByID(context.Background(), testSession(), "42")
	require.NoError(t, err)
	assert.Equal(t, emaildomain.CategoryRejection, email.Category)
	assert.Equal(t, "Acme", email.Company)
}

func TestGetEmailByIDNotFound(t *testing.T) {
	uc := newUsecase(&fakeProvider{emails: testEmails()}, &fakeSessionStore{})

	_, err := uc.GetEmailByID(context.Background(), testSession(), "missing")
	assert.ErrorIs(t, err, emaildomain.ErrNotFound)
}

func TestDashboardStatsMatchListCounts(t *testing.T) {
	provider := &fakeProvider{emails: testEmails()}
	uc := newUsecase(provider, &fakeSessionStore{})

	emails, err := uc.GetEmails(context.Background(), testSession(), usecase.ListOptions{})
	require.NoError(t, err)

	stats, err := uc.GetDashboardStats(context.Background(), testSession())
	require.NoError(t, err)

	counts := map[emaildomain.Category]int{}
	for _, email := range emails {
		counts[email.Category]++
	}

	assert.Equal(t, len(emails), stats.Total)
	assert.Equal(t, counts[emaildomain.CategoryApplication], stats.Applications)
	assert.Equal(t, counts[emaildomain.CategoryRejection], stats.Rejections)
	assert.Equal(t, counts[emaildomain.CategoryInterview], stats.Interviews)
	assert.Equal(t, counts[emaildomain.CategoryOffer], stats.Offers)
	assert.Equal(t, counts[emaildomain.CategoryUncategorized], stats.Uncategorized)
}

func TestTokenRefreshIsPersisted(t *testing.T) {
	store := &fakeSessionStore{}
	provider := &fakeProvider{
		emails: testEmails(),
		refreshedToken: &oauth2.Token{
			AccessToken: "new-access",
			Expiry:      time.Now().Add(time.Hour),
		},
	}
	uc := newUsecase(provider, store)

	session := testSession()
	_, err := uc.GetEmails(context.Background(), session, usecase.ListOptions{})
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	assert.Equal(t, "new-access", store.saved[0].AccessToken)
	// Refresh token survives when the provider does not rotate it.
	assert.Equal(t, "refresh", store.saved[0].RefreshToken)
}
