package delivery

import (
	"errors"
	"net/http"

	authdomain "jobtracker-backend/internal/auth/domain"
	authdto "jobtracker-backend/internal/auth/dto"
	"jobtracker-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// Login returns the provider consent URL the SPA should open.
func (h *AuthHandler) Login(c *gin.Context) {
	resp, err := h.authUsecase.BeginLogin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Callback completes the authorization-code flow and sends the browser back
// to the dashboard with a session token.
func (h *AuthHandler) Callback(c *gin.Context) {
	var query authdto.CallbackQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code or state parameter"})
		return
	}

	redirectURL, err := h.authUsecase.CompleteLogin(c.Request.Context(), query.Code, query.State)
	if err != nil {
		switch {
		case errors.Is(err, authdomain.ErrInvalidState):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired oauth state"})
		case errors.Is(err, authdomain.ErrExchangeFailed):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Redirect(http.StatusFound, redirectURL)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(ContextSessionToken)
	if err := h.authUsecase.Logout(token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	session := c.MustGet(ContextSession).(*authdomain.Session)
	c.JSON(http.StatusOK, authdto.MeResponse{
		UserEmail: session.UserEmail,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
}
