package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	authdomain "jobtracker-backend/internal/auth/domain"
	authdto "jobtracker-backend/internal/auth/dto"
	"jobtracker-backend/internal/auth/repository"
	emaildomain "jobtracker-backend/internal/email/domain"
	"jobtracker-backend/pkg/config"
	"jobtracker-backend/pkg/metrics"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const stateTTL = 10 * time.Minute

// OAuthClient is the slice of the mail provider the auth flow needs.
type OAuthClient interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	GetProfileEmail(ctx context.Context, accessToken, refreshToken string, onTokenRefresh emaildomain.TokenUpdateFunc) (string, error)
}

// AuthUsecase drives the OAuth2 login flow and session lifecycle.
type AuthUsecase interface {
	BeginLogin(ctx context.Context) (*authdto.LoginResponse, error)
	CompleteLogin(ctx context.Context, code, state string) (redirectURL string, err error)
	ValidateToken(token string) (*authdomain.Session, error)
	Logout(token string) error
}

// authUsecase implements AuthUsecase
type authUsecase struct {
	sessionStore repository.SessionStore
	oauthClient  OAuthClient
	config       *config.Config
	log          *zap.Logger

	// Pending CSRF states, single-use, expired entries dropped lazily.
	statesMu sync.Mutex
	states   map[string]time.Time
}

func NewAuthUsecase(sessionStore repository.SessionStore, oauthClient OAuthClient, cfg *config.Config, log *zap.Logger) AuthUsecase {
	return &authUsecase{
		sessionStore: sessionStore,
		oauthClient:  oauthClient,
		config:       cfg,
		log:          log,
		states:       make(map[string]time.Time),
	}
}

func (u *authUsecase) BeginLogin(ctx context.Context) (*authdto.LoginResponse, error) {
	// Demo mode skips the consent screen entirely: issue a session up front
	// and point the browser straight at the dashboard.
	if u.config.DemoMode {
		token, err := u.createSession("demo@example.com", "", "", time.Time{})
		if err != nil {
			return nil, err
		}
		return &authdto.LoginResponse{
			AuthorizationURL: fmt.Sprintf("%s/dashboard?token=%s", u.config.FrontendURL, token),
		}, nil
	}

	state := uuid.New().String()
	u.statesMu.Lock()
	u.states[state] = time.Now().Add(stateTTL)
	u.statesMu.Unlock()

	return &authdto.LoginResponse{
		AuthorizationURL: u.oauthClient.AuthCodeURL(state),
	}, nil
}

func (u *authUsecase) CompleteLogin(ctx context.Context, code, state string) (string, error) {
	if !u.consumeState(state) {
		return "", authdomain.ErrInvalidState
	}

	token, err := u.oauthClient.Exchange(ctx, code)
	if err != nil {
		u.log.Warn("oauth code exchange failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", authdomain.ErrExchangeFailed, err)
	}

	userEmail, err := u.oauthClient.GetProfileEmail(ctx, token.AccessToken, token.RefreshToken, nil)
	if err != nil {
		u.log.Warn("profile lookup failed after exchange", zap.Error(err))
		return "", fmt.Errorf("%w: %v", authdomain.ErrExchangeFailed, err)
	}

	sessionToken, err := u.createSession(userEmail, token.AccessToken, token.RefreshToken, token.Expiry)
	if err != nil {
		return "", err
	}

	u.log.Info("login completed", zap.String("user_email", userEmail))
	return fmt.Sprintf("%s/dashboard?token=%s", u.config.FrontendURL, sessionToken), nil
}

// consumeState validates a CSRF state and removes it so it cannot be replayed.
func (u *authUsecase) consumeState(state string) bool {
	u.statesMu.Lock()
	defer u.statesMu.Unlock()

	expiry, ok := u.states[state]
	if !ok {
		return false
	}
	delete(u.states, state)

	// Drop any other stale entries while we hold the lock.
	now := time.Now()
	for s, exp := range u.states {
		if now.After(exp) {
			delete(u.states, s)
		}
	}

	return now.Before(expiry)
}

func (u *authUsecase) createSession(userEmail, accessToken, refreshToken string, tokenExpiry time.Time) (string, error) {
	session := &authdomain.Session{
		ID:           uuid.New().String(),
		UserEmail:    userEmail,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenExpiry:  tokenExpiry,
		CreatedAt:    time.Now(),
		ExpiresAt:    time.Now().Add(u.config.SessionTTL),
	}

	if err := u.sessionStore.Save(session); err != nil {
		return "", err
	}

	metrics.SessionsCreated.Inc()
	return u.generateSessionToken(session)
}

func (u *authUsecase) generateSessionToken(session *authdomain.Session) (string, error) {
	claims := jwt.MapClaims{
		"session_id": session.ID,
		"email":      session.UserEmail,
		"exp":        session.ExpiresAt.Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, authdomain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, authdomain.ErrInvalidToken
	}

	sessionID, ok := claims["session_id"].(string)
	if !ok {
		return nil, authdomain.ErrInvalidToken
	}

	session, err := u.sessionStore.FindByID(sessionID)
	if err != nil {
		return nil, err
	}

	if session == nil || session.Expired() {
		return nil, authdomain.ErrSessionNotFound
	}

	return session, nil
}

func (u *authUsecase) Logout(tokenString string) error {
	session, err := u.ValidateToken(tokenString)
	if err != nil {
		return err
	}
	return u.sessionStore.Delete(session.ID)
}
