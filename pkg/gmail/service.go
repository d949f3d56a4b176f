package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	emaildomain "jobtracker-backend/internal/email/domain"
	"jobtracker-backend/pkg/metrics"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is a callback that persists refreshed tokens.
type TokenUpdateFunc = emaildomain.TokenUpdateFunc

// DefaultQuery narrows the inbox to messages that plausibly belong to a job
// application thread.
const DefaultQuery = "subject:(application OR interview OR offer OR rejection OR job OR position OR hiring OR career OR resume OR cv) OR from:(noreply OR careers OR jobs OR hiring OR recruit OR talent OR hr)"

const maxResultsCap = 500 // Gmail API maximum per list call

type Service struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scope        string
}

func NewService(clientID, clientSecret, redirectURI, scope string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		scope:        scope,
	}
}

// notifyTokenSource wraps an oauth2.TokenSource to detect refreshes so the
// new access token can be written back to the session store.
type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			return nil, fmt.Errorf("persist refreshed token: %w", err)
		}
	}
	return t, nil
}

func (s *Service) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		RedirectURL:  s.redirectURI,
		Scopes:       []string{s.scope},
		Endpoint:     google.Endpoint,
	}
}

// AuthCodeURL builds the consent-screen URL for the authorization-code flow.
// Offline access plus forced consent so Google returns a refresh token.
func (s *Service) AuthCodeURL(state string) string {
	return s.oauthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades an authorization code for access and refresh tokens.
func (s *Service) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauthConfig().Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}
	return token, nil
}

// gmailService creates a Gmail client backed by the user's tokens.
func (s *Service) gmailService(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if refreshToken != "" {
		token.Expiry = time.Now()
	}

	tokenSource := s.oauthConfig().TokenSource(ctx, token)
	wrappedSource := &notifyTokenSource{
		src:      tokenSource,
		current:  token,
		callback: onTokenRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	return srv, nil
}

// ListMessages retrieves categorizable message summaries, newest first.
func (s *Service) ListMessages(ctx context.Context, accessToken, refreshToken, query string, maxResults int, onTokenRefresh TokenUpdateFunc) ([]*emaildomain.Email, error) {
	srv, err := s.gmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	if query == "" {
		query = DefaultQuery
	}
	if maxResults <= 0 {
		maxResults = 50
	}
	if maxResults > maxResultsCap {
		maxResults = maxResultsCap
	}

	start := time.Now()
	listResp, err := srv.Users.Messages.List("me").Q(query).MaxResults(int64(maxResults)).Do()
	if err != nil {
		metrics.RecordGmailCall("messages.list", "error", time.Since(start))
		return nil, wrapError("list messages", err)
	}
	metrics.RecordGmailCall("messages.list", "ok", time.Since(start))

	type messageResult struct {
		email *emaildomain.Email
		err   error
	}

	resultChan := make(chan messageResult, len(listResp.Messages))

	// Fetch message metadata in parallel with a bounded number of in-flight
	// requests.
	semaphore := make(chan struct{}, 10)

	for _, msg := range listResp.Messages {
		go func(msgID string) {
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fetchStart := time.Now()
			fullMsg, err := srv.Users.Messages.Get("me", msgID).
				Format("metadata").
				MetadataHeaders("Subject", "From", "Date").
				Do()
			if err != nil {
				metrics.RecordGmailCall("messages.get", "error", time.Since(fetchStart))
				resultChan <- messageResult{nil, wrapError("get message", err)}
				return
			}
			metrics.RecordGmailCall("messages.get", "ok", time.Since(fetchStart))

			resultChan <- messageResult{convertMessage(fullMsg, false), nil}
		}(msg.Id)
	}

	emails := make([]*emaildomain.Email, 0, len(listResp.Messages))
	var fetchErr error
	for range listResp.Messages {
		result := <-resultChan
		if result.err != nil {
			fetchErr = result.err
			continue
		}
		emails = append(emails, result.email)
	}

	if err := partialFetchErr(emails, fetchErr); err != nil {
		return nil, err
	}

	// Parallel fetching returns messages in arbitrary order.
	sort.Slice(emails, func(i, j int) bool {
		return emails[i].Date.After(emails[j].Date)
	})

	return emails, nil
}

// GetMessage retrieves one full message including its decoded body.
func (s *Service) GetMessage(ctx context.Context, accessToken, refreshToken, id string, onTokenRefresh TokenUpdateFunc) (*emaildomain.Email, error) {
	srv, err := s.gmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	msg, err := srv.Users.Messages.Get("me", id).Format("full").Do()
	if err != nil {
		metrics.RecordGmailCall("messages.get", "error", time.Since(start))
		return nil, wrapError("get message", err)
	}
	metrics.RecordGmailCall("messages.get", "ok", time.Since(start))

	return convertMessage(msg, true), nil
}

// GetProfileEmail returns the authenticated user's address.
func (s *Service) GetProfileEmail(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) (string, error) {
	srv, err := s.gmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return "", err
	}

	start := time.Now()
	profile, err := srv.Users.GetProfile("me").Do()
	if err != nil {
		metrics.RecordGmailCall("getProfile", "error", time.Since(start))
		return "", wrapError("get profile", err)
	}
	metrics.RecordGmailCall("getProfile", "ok", time.Since(start))

	return profile.EmailAddress, nil
}

// partialFetchErr decides whether per-message failures invalidate the whole
// listing. A rate limit or auth failure does even when other messages came
// back: returning a silently truncated list would misstate the inbox. Other
// per-message errors only matter when nothing was fetched at all.
func partialFetchErr(emails []*emaildomain.Email, fetchErr error) error {
	if fetchErr == nil {
		return nil
	}
	if len(emails) == 0 {
		return fetchErr
	}
	if errors.Is(fetchErr, emaildomain.ErrRateLimited) || errors.Is(fetchErr, emaildomain.ErrTokenExpired) {
		return fetchErr
	}
	return nil
}

// wrapError maps Gmail API failures onto the domain's error kinds.
func wrapError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", op, emaildomain.ErrTokenExpired)
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, emaildomain.ErrNotFound)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w", op, emaildomain.ErrRateLimited)
		case http.StatusForbidden:
			// Gmail signals per-user quota exhaustion with 403 + reason.
			for _, item := range apiErr.Errors {
				if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
					return fmt.Errorf("%s: %w", op, emaildomain.ErrRateLimited)
				}
			}
		}
	}
	return &emaildomain.FetchError{Op: op, Err: err}
}

// Helper functions

func convertMessage(msg *gmail.Message, includeBody bool) *emaildomain.Email {
	sender := getHeader(msg.Payload.Headers, "From")
	senderName := sender
	// Extract name from "Name <email@example.com>" format
	if idx := strings.Index(sender, "<"); idx > 0 {
		senderName = strings.TrimSpace(sender[:idx])
	}

	email := &emaildomain.Email{
		ID:         msg.Id,
		Subject:    getHeader(msg.Payload.Headers, "Subject"),
		Snippet:    msg.Snippet,
		Sender:     sender,
		SenderName: senderName,
		Date:       time.Unix(msg.InternalDate/1000, 0),
		GmailURL:   fmt.Sprintf("https://mail.google.com/mail/u/0/#inbox/%s", msg.Id),
	}

	if includeBody {
		body, isHTML := getEmailBody(msg.Payload)
		if isHTML {
			body = stripHTML(body)
		}
		email.Body = body
		if email.Snippet == "" {
			email.Snippet = snippetFromBody(body)
		}
	}

	return email
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

func getEmailBody(payload *gmail.MessagePart) (string, bool) {
	// If the payload itself is the body
	if payload.Body != nil && payload.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(payload.Body.Data)
		if err == nil {
			return string(data), payload.MimeType == "text/html"
		}
	}

	var htmlBody string
	var plainBody string

	var findBody func(parts []*gmail.MessagePart)
	findBody = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.MimeType == "text/plain" {
				if part.Body != nil && part.Body.Data != "" {
					data, err := base64.URLEncoding.DecodeString(part.Body.Data)
					if err == nil {
						plainBody = string(data)
					}
				}
			} else if part.MimeType == "text/html" {
				if part.Body != nil && part.Body.Data != "" {
					data, err := base64.URLEncoding.DecodeString(part.Body.Data)
					if err == nil {
						htmlBody = string(data)
					}
				}
			}

			if len(part.Parts) > 0 {
				findBody(part.Parts)
			}
		}
	}

	findBody(payload.Parts)

	if plainBody != "" {
		return plainBody, false
	}
	return htmlBody, true
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&quot;", "\"")
	return strings.Join(strings.Fields(s), " ")
}

func snippetFromBody(body string) string {
	snippet := strings.Join(strings.Fields(body), " ")
	if len(snippet) > 200 {
		snippet = snippet[:200] + "..."
	}
	return snippet
}
