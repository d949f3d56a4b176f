package dto

import (
	emaildomain "jobtracker-backend/internal/email/domain"
)

type ListEmailsQuery struct {
	Category   string `form:"category"`
	Company    string `form:"company"`
	MaxResults int    `form:"max_results"`
}

type EmailsResponse struct {
	Emails []*emaildomain.Email `json:"emails"`
	Total  int                  `json:"total"`
}
