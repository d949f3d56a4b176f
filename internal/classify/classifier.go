package classify

import (
	"strings"

	emaildomain "jobtracker-backend/internal/email/domain"
)

// rule is an ordered keyword-containment check. The first rule whose keyword
// list matches the email text wins.
type rule struct {
	category emaildomain.Category
	keywords []string
}

// Priority order: a rejection phrase beats an interview phrase, which beats
// an offer phrase. Application is the fallback for anything that still looks
// job-related.
var rules = []rule{
	{
		category: emaildomain.CategoryRejection,
		keywords: []string{
			"unfortunately", "regret to inform", "not moving forward",
			"not selected", "other candidates", "position filled",
			"rejection", "decline", "reject",
		},
	},
	{
		category: emaildomain.CategoryInterview,
		keywords: []string{
			"interview invitation", "interview request", "interview",
			"schedule", "next steps", "let's schedule a call",
		},
	},
	{
		category: emaildomain.CategoryOffer,
		keywords: []string{
			"job offer", "employment offer", "offer letter",
			"we're excited to offer", "congratulations", "offer",
		},
	},
	{
		category: emaildomain.CategoryApplication,
		keywords: []string{
			"application submitted", "application received",
			"thank you for applying", "application confirmation",
			"we received your application", "application status",
			"application", "job", "position", "hiring", "career",
			"resume", "recruit",
		},
	},
}

// Categorize assigns exactly one category to an email based on its subject
// and body text. It is a pure function: the same input always yields the
// same label.
func Categorize(subject, body string) emaildomain.Category {
	content := strings.ToLower(subject + " " + body)

	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(content, keyword) {
				return r.category
			}
		}
	}

	return emaildomain.CategoryUncategorized
}

// Domains of personal mail providers that never identify an employer.
var freemailDomains = map[string]bool{
	"gmail.com":      true,
	"googlemail.com": true,
	"yahoo.com":      true,
	"hotmail.com":    true,
	"outlook.com":    true,
}

// ExtractCompany guesses the employer name from the sender address or the
// subject line. Returns "" when no reasonable guess exists.
func ExtractCompany(sender, subject string) string {
	// Sender may be "Name <addr@domain>"; keep only the address part.
	addr := sender
	if start := strings.Index(addr, "<"); start >= 0 {
		addr = addr[start+1:]
		if end := strings.Index(addr, ">"); end >= 0 {
			addr = addr[:end]
		}
	}

	if at := strings.LastIndex(addr, "@"); at >= 0 {
		domain := strings.ToLower(addr[at+1:])
		if domain != "" && !freemailDomains[domain] {
			name := strings.SplitN(domain, ".", 2)[0]
			if name != "" {
				return strings.ToUpper(name[:1]) + name[1:]
			}
		}
	}

	// Subjects like "Acme - Software Engineer" lead with the company.
	if parts := strings.SplitN(subject, " - ", 2); len(parts) == 2 {
		if company := strings.TrimSpace(parts[0]); company != "" {
			return company
		}
	}

	return ""
}
