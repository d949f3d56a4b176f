package gmail

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	emaildomain "jobtracker-backend/internal/email/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
)

func TestWrapErrorMapsStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "401 maps to token expired",
			err:  &googleapi.Error{Code: http.StatusUnauthorized},
			want: emaildomain.ErrTokenExpired,
		},
		{
			name: "404 maps to not found",
			err:  &googleapi.Error{Code: http.StatusNotFound},
			want: emaildomain.ErrNotFound,
		},
		{
			name: "429 maps to rate limited",
			err:  &googleapi.Error{Code: http.StatusTooManyRequests},
			want: emaildomain.ErrRateLimited,
		},
		{
			name: "403 with quota reason maps to rate limited",
			err: &googleapi.Error{
				Code:   http.StatusForbidden,
				Errors: []googleapi.ErrorItem{{Reason: "userRateLimitExceeded"}},
			},
			want: emaildomain.ErrRateLimited,
		},
		{
			name: "wrapped api error still maps",
			err:  fmt.Errorf("outer: %w", &googleapi.Error{Code: http.StatusTooManyRequests}),
			want: emaildomain.ErrRateLimited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, wrapError("list messages", tt.err), tt.want)
		})
	}
}

func TestPartialFetchErr(t *testing.T) {
	some := []*emaildomain.Email{{ID: "a"}, {ID: "b"}}
	rateLimited := wrapError("get message", &googleapi.Error{Code: http.StatusTooManyRequests})
	expired := wrapError("get message", &googleapi.Error{Code: http.StatusUnauthorized})
	transient := wrapError("get message", errors.New("connection reset"))

	t.Run("no error passes through", func(t *testing.T) {
		assert.NoError(t, partialFetchErr(some, nil))
	})

	t.Run("rate limit surfaces despite partial results", func(t *testing.T) {
		assert.ErrorIs(t, partialFetchErr(some, rateLimited), emaildomain.ErrRateLimited)
	})

	t.Run("expired token surfaces despite partial results", func(t *testing.T) {
		assert.ErrorIs(t, partialFetchErr(some, expired), emaildomain.ErrTokenExpired)
	})

	t.Run("transient failure tolerated when some messages fetched", func(t *testing.T) {
		assert.NoError(t, partialFetchErr(some, transient))
	})

	t.Run("any failure surfaces when nothing fetched", func(t *testing.T) {
		assert.Error(t, partialFetchErr(nil, transient))
	})
}

func TestWrapErrorGenericBecomesFetchError(t *testing.T) {
	err := wrapError("list messages", errors.New("connection reset"))

	var fetchErr *emaildomain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "list messages", fetchErr.Op)
	assert.NotErrorIs(t, err, emaildomain.ErrRateLimited)
}

func TestAuthCodeURLRequestsOfflineAccess(t *testing.T) {
	svc := NewService("client-id", "client-secret", "http://localhost:8080/auth/callback", "scope")

	u := svc.AuthCodeURL("some-state")
	assert.Contains(t, u, "state=some-state")
	assert.Contains(t, u, "access_type=offline")
	assert.Contains(t, u, "prompt=consent")
	assert.Contains(t, u, "client_id=client-id")
}

func encodeBody(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestConvertMessageMetadata(t *testing.T) {
	msg := &gmail.Message{
		Id:           "abc123",
		Snippet:      "We received your application",
		InternalDate: 1700000000000,
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Application Received"},
				{Name: "From", Value: "Acme Careers <careers@acme.com>"},
			},
		},
	}

	email := convertMessage(msg, false)
	assert.Equal(t, "abc123", email.ID)
	assert.Equal(t, "Application Received", email.Subject)
	assert.Equal(t, "Acme Careers <careers@acme.com>", email.Sender)
	assert.Equal(t, "Acme Careers", email.SenderName)
	assert.Equal(t, "We received your application", email.Snippet)
	assert.Equal(t, "https://mail.google.com/mail/u/0/#inbox/abc123", email.GmailURL)
	assert.Empty(t, email.Body)
}

func TestConvertMessagePrefersPlainTextBody(t *testing.T) {
	msg := &gmail.Message{
		Id: "abc123",
		Payload: &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Hello"},
				{Name: "From", Value: "a@b.com"},
			},
			Parts: []*gmail.MessagePart{
				{
					MimeType: "text/html",
					Body:     &gmail.MessagePartBody{Data: encodeBody("<p>html body</p>")},
				},
				{
					MimeType: "text/plain",
					Body:     &gmail.MessagePartBody{Data: encodeBody("plain body")},
				},
			},
		},
	}

	email := convertMessage(msg, true)
	assert.Equal(t, "plain body", email.Body)
}

func TestConvertMessageStripsHTMLWhenNoPlainPart(t *testing.T) {
	msg := &gmail.Message{
		Id: "abc123",
		Payload: &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Hello"},
				{Name: "From", Value: "a@b.com"},
			},
			Parts: []*gmail.MessagePart{
				{
					MimeType: "text/html",
					Body:     &gmail.MessagePartBody{Data: encodeBody("<div>Dear&nbsp;applicant,<br>thanks</div>")},
				},
			},
		},
	}

	email := convertMessage(msg, true)
	assert.Equal(t, "Dear applicant, thanks", email.Body)
}

func TestConvertMessageNestedParts(t *testing.T) {
	msg := &gmail.Message{
		Id: "abc123",
		Payload: &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Hello"},
				{Name: "From", Value: "a@b.com"},
			},
			Parts: []*gmail.MessagePart{
				{
					MimeType: "multipart/alternative",
					Parts: []*gmail.MessagePart{
						{
							MimeType: "text/plain",
							Body:     &gmail.MessagePartBody{Data: encodeBody("nested plain body")},
						},
					},
				},
			},
		},
	}

	email := convertMessage(msg, true)
	assert.Equal(t, "nested plain body", email.Body)
}

func TestSnippetFromBodyTruncates(t *testing.T) {
	long := strings.Repeat("word ", 100)
	snippet := snippetFromBody(long)
	assert.LessOrEqual(t, len(snippet), 203)
	assert.True(t, strings.HasSuffix(snippet, "..."))
}
