package delivery

import (
	"errors"
	"net/http"

	authdelivery "jobtracker-backend/internal/auth/delivery"
	authdomain "jobtracker-backend/internal/auth/domain"
	emaildomain "jobtracker-backend/internal/email/domain"
	emaildto "jobtracker-backend/internal/email/dto"
	"jobtracker-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	emailUsecase usecase.EmailUsecase
}

func NewEmailHandler(emailUsecase usecase.EmailUsecase) *EmailHandler {
	return &EmailHandler{
		emailUsecase: emailUsecase,
	}
}

func (h *EmailHandler) GetEmails(c *gin.Context) {
	session := c.MustGet(authdelivery.ContextSession).(*authdomain.Session)

	var query emaildto.ListEmailsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	category := emaildomain.Category(query.Category)
	if query.Category != "" && !category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category: " + query.Category})
		return
	}

	emails, err := h.emailUsecase.GetEmails(c.Request.Context(), session, usecase.ListOptions{
		Category:   category,
		Company:    query.Company,
		MaxResults: query.MaxResults,
	})
	if err != nil {
		respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, emaildto.EmailsResponse{
		Emails: emails,
		Total:  len(emails),
	})
}

func (h *EmailHandler) GetEmailByID(c *gin.Context) {
	session := c.MustGet(authdelivery.ContextSession).(*authdomain.Session)

	email, err := h.emailUsecase.GetEmailByID(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, email)
}

func (h *EmailHandler) GetDashboardStats(c *gin.Context) {
	session := c.MustGet(authdelivery.ContextSession).(*authdomain.Session)

	stats, err := h.emailUsecase.GetDashboardStats(c.Request.Context(), session)
	if err != nil {
		respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// respondFetchError maps provider failures onto HTTP statuses: expired tokens
// ask the user to re-authenticate, rate limits pass through as 429, and
// anything else provider-side is a bad gateway.
func respondFetchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, emaildomain.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "mail provider token expired, please sign in again"})
	case errors.Is(err, emaildomain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
	case errors.Is(err, emaildomain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "mail provider rate limit exceeded, try again later"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch emails from mail provider"})
	}
}
