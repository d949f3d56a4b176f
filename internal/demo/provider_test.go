package demo_test

import (
	"context"
	"testing"

	"jobtracker-backend/internal/classify"
	"jobtracker-backend/internal/demo"
	emaildomain "jobtracker-backend/internal/email/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderIsDeterministicPerSeed(t *testing.T) {
	a := demo.NewProvider(30, 7)
	b := demo.NewProvider(30, 7)

	emailsA, err := a.ListMessages(context.Background(), "", "", "", 0, nil)
	require.NoError(t, err)
	emailsB, err := b.ListMessages(context.Background(), "", "", "", 0, nil)
	require.NoError(t, err)

	require.Len(t, emailsA, 30)
	for i := range emailsA {
		assert.Equal(t, emailsA[i].ID, emailsB[i].ID)
		assert.Equal(t, emailsA[i].Subject, emailsB[i].Subject)
	}
}

func TestListMessagesNewestFirst(t *testing.T) {
	p := demo.NewProvider(50, 1)

	emails, err := p.ListMessages(context.Background(), "", "", "", 0, nil)
	require.NoError(t, err)
	for i := 1; i < len(emails); i++ {
		assert.False(t, emails[i-1].Date.Before(emails[i].Date))
	}
}

func TestListMessagesRespectsMaxResults(t *testing.T) {
	p := demo.NewProvider(50, 1)

	emails, err := p.ListMessages(context.Background(), "", "", "", 10, nil)
	require.NoError(t, err)
	assert.Len(t, emails, 10)
}

func TestGetMessageIncludesBody(t *testing.T) {
	p := demo.NewProvider(10, 1)

	emails, err := p.ListMessages(context.Background(), "", "", "", 1, nil)
	require.NoError(t, err)
	require.NotEmpty(t, emails)
	assert.Empty(t, emails[0].Body)

	email, err := p.GetMessage(context.Background(), "", "", emails[0].ID, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, email.Body)
}

func TestGetMessageUnknownID(t *testing.T) {
	p := demo.NewProvider(10, 1)

	_, err := p.GetMessage(context.Background(), "", "", "nope", nil)
	assert.ErrorIs(t, err, emaildomain.ErrNotFound)
}

// Every generated email should classify into a real category, not
// uncategorized: the templates exist to exercise the dashboard. The snippet
// and the full body must also agree, or the list would show a different
// category than the detail view of the same email.
func TestGeneratedEmailsAreJobRelated(t *testing.T) {
	p := demo.NewProvider(100, 3)

	emails, err := p.ListMessages(context.Background(), "", "", "", 0, nil)
	require.NoError(t, err)

	for _, email := range emails {
		listCategory := classify.Categorize(email.Subject, email.Snippet)
		assert.NotEqual(t, emaildomain.CategoryUncategorized, listCategory, "subject: %s", email.Subject)

		detail, err := p.GetMessage(context.Background(), "", "", email.ID, nil)
		require.NoError(t, err)
		detailCategory := classify.Categorize(detail.Subject, detail.Body)
		assert.Equal(t, listCategory, detailCategory,
			"subject: %s snippet: %s", email.Subject, email.Snippet)
	}
}
