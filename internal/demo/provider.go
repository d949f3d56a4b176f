// Package demo provides a fake mail provider with generated job-application
// emails, so the dashboard can be exercised without Google credentials.
package demo

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	emaildomain "jobtracker-backend/internal/email/domain"
)

var companies = []string{
	"Google", "Microsoft", "Apple", "Amazon", "Meta", "Netflix",
	"LinkedIn", "Uber", "Airbnb", "Stripe", "Shopify", "Slack", "Zoom",
	"Salesforce", "Adobe", "Oracle", "IBM", "Intel", "NVIDIA",
	"Spotify", "Pinterest", "Discord", "GitHub", "Atlassian",
	"MongoDB", "Databricks", "Snowflake",
}

var jobTitles = []string{
	"Software Engineer", "Frontend Developer", "Backend Developer",
	"Full Stack Developer", "DevOps Engineer", "Data Scientist",
	"Machine Learning Engineer", "Product Manager", "QA Engineer",
	"Site Reliability Engineer", "Cloud Engineer", "Security Engineer",
}

type templateSet struct {
	subjects []string
	snippets []string
	body     string
}

// Templates use %[1]s for the company and %[2]s for the job title.
var templates = map[emaildomain.Category]templateSet{
	emaildomain.CategoryApplication: {
		subjects: []string{
			"Application Received - %[2]s Position",
			"Thank you for your application - %[1]s",
			"We received your application for %[2]s",
			"Your application has been submitted - %[2]s",
		},
		snippets: []string{
			"Thank you for your interest in the %[2]s position at %[1]s. We have received your application and our team will review it carefully.",
			"We confirm that your application for the %[2]s role has been successfully submitted.",
		},
		body: "Dear Applicant,\n\nThank you for your interest in the %[2]s position at %[1]s. We have successfully received your application and it has been added to our review queue.\n\nYou can expect to hear from us within 5-7 business days with an update on the status of your application.\n\nBest regards,\nThe %[1]s Hiring Team",
	},
	emaildomain.CategoryRejection: {
		subjects: []string{
			"Application Update - %[1]s",
			"Thank you for your interest in %[1]s",
			"Application Decision - %[1]s",
		},
		snippets: []string{
			"After careful consideration, we have decided to move forward with other candidates.",
			"Unfortunately, we have decided not to move forward with your application for the %[2]s position.",
			"We regret to inform you that we will not be moving forward.",
		},
		body: "Dear Applicant,\n\nThank you for your interest in the %[2]s position at %[1]s. After careful consideration of your qualifications and experience, we have decided to move forward with other candidates.\n\nWe encourage you to apply for future opportunities at %[1]s that match your skills and interests.\n\nBest regards,\nThe %[1]s Hiring Team",
	},
	emaildomain.CategoryInterview: {
		subjects: []string{
			"Interview Invitation - %[1]s",
			"Schedule your interview - %[2]s",
			"Interview Request - %[1]s",
			"Next Steps - Interview Request",
		},
		snippets: []string{
			"We would like to invite you for an interview for the %[2]s position. Please let us know your availability.",
			"Let's schedule an interview to discuss your background and the %[2]s role.",
		},
		body: "Dear Applicant,\n\nWe are excited to move forward with your application for the %[2]s position at %[1]s! We would like to schedule an interview to learn more about your experience.\n\nThe interview will be conducted via video call and will last approximately 45-60 minutes. Please reply with your availability for the coming week.\n\nBest regards,\nThe %[1]s Hiring Team",
	},
	emaildomain.CategoryOffer: {
		subjects: []string{
			"Congratulations! Job Offer - %[1]s",
			"Offer Letter - %[2]s Position",
			"We're excited to offer you - %[1]s",
		},
		snippets: []string{
			"Congratulations! We are excited to offer you the %[2]s position at %[1]s.",
			"We are pleased to extend you an offer for the %[2]s position.",
		},
		body: "Dear Applicant,\n\nCongratulations! We are thrilled to offer you the %[2]s position at %[1]s. We are confident that your skills and experience align perfectly with our team.\n\nPlease review the attached offer letter for complete details.\n\nBest regards,\nThe %[1]s Hiring Team",
	},
}

// Weighted category mix, roughly matching a real application funnel.
var categoryWeights = []struct {
	category emaildomain.Category
	weight   float64
}{
	{emaildomain.CategoryApplication, 0.4},
	{emaildomain.CategoryRejection, 0.3},
	{emaildomain.CategoryInterview, 0.2},
	{emaildomain.CategoryOffer, 0.1},
}

// Provider serves a fixed set of generated emails. The set is built once at
// construction so repeated fetches are stable.
type Provider struct {
	emails []*emaildomain.Email
	bodies map[string]string
}

func NewProvider(count int, seed int64) *Provider {
	r := rand.New(rand.NewSource(seed))

	p := &Provider{
		bodies: make(map[string]string, count),
	}

	now := time.Now()
	for i := 0; i < count; i++ {
		category := pickCategory(r)
		company := companies[r.Intn(len(companies))]
		title := jobTitles[r.Intn(len(jobTitles))]
		set := templates[category]

		id := fmt.Sprintf("demo_email_%04d", i)
		subject := fmt.Sprintf(set.subjects[r.Intn(len(set.subjects))], company, title)
		snippet := fmt.Sprintf(set.snippets[r.Intn(len(set.snippets))], company, title)
		sender := fmt.Sprintf("careers@%s.com", strings.ToLower(strings.ReplaceAll(company, " ", "")))
		date := now.AddDate(0, 0, -r.Intn(180))

		p.emails = append(p.emails, &emaildomain.Email{
			ID:         id,
			Subject:    subject,
			Snippet:    snippet,
			Sender:     sender,
			SenderName: company + " Careers",
			Date:       date,
			GmailURL:   fmt.Sprintf("https://mail.google.com/mail/u/0/#inbox/%s", id),
		})
		p.bodies[id] = fmt.Sprintf(set.body, company, title)
	}

	sort.Slice(p.emails, func(i, j int) bool {
		return p.emails[i].Date.After(p.emails[j].Date)
	})

	return p
}

func pickCategory(r *rand.Rand) emaildomain.Category {
	roll := r.Float64()
	acc := 0.0
	for _, cw := range categoryWeights {
		acc += cw.weight
		if roll < acc {
			return cw.category
		}
	}
	return emaildomain.CategoryApplication
}

// ListMessages returns copies of the generated summaries, newest first. The
// query is ignored; every demo email is job-related.
func (p *Provider) ListMessages(ctx context.Context, accessToken, refreshToken, query string, maxResults int, onTokenRefresh emaildomain.TokenUpdateFunc) ([]*emaildomain.Email, error) {
	if maxResults <= 0 || maxResults > len(p.emails) {
		maxResults = len(p.emails)
	}

	out := make([]*emaildomain.Email, 0, maxResults)
	for _, email := range p.emails[:maxResults] {
		clone := *email
		out = append(out, &clone)
	}
	return out, nil
}

func (p *Provider) GetMessage(ctx context.Context, accessToken, refreshToken, id string, onTokenRefresh emaildomain.TokenUpdateFunc) (*emaildomain.Email, error) {
	for _, email := range p.emails {
		if email.ID == id {
			clone := *email
			clone.Body = p.bodies[id]
			return &clone, nil
		}
	}
	return nil, emaildomain.ErrNotFound
}

func (p *Provider) GetProfileEmail(ctx context.Context, accessToken, refreshToken string, onTokenRefresh emaildomain.TokenUpdateFunc) (string, error) {
	return "demo@example.com", nil
}
