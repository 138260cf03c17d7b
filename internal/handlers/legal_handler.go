package handlers

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

const legalLayout = `<!DOCTYPE html>
<html><head><title>{{.Title}} - MentorConnect</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>
</head><body>
<h1>{{.Title}}</h1>
<p>Last updated: October 2026</p>
{{range .Sections}}<h2>{{.Heading}}</h2>
<p>{{.Body}}</p>
{{end}}<h2>Contact</h2>
<p>For questions, contact us at {{.Contact}}</p>
</body></html>`

type legalSection struct {
	Heading string
	Body    string
}

type legalPage struct {
	Title    string
	Sections []legalSection
	Contact  string
}

var privacySections = []legalSection{
	{"Information We Collect", "Your email address, the profile you fill in during onboarding (personal details, education, employment, skills, biography or organisation details), the files you upload, your chat messages and the sessions you schedule."},
	{"How We Use Your Information", "Profiles are shown to the mentors, mentees and organisations you are matched with. Profile text is sent to an AI service to suggest skills and to rank mentors and opportunities for you. Session details are shared with the video meeting provider and emailed to participants."},
	{"Data Storage", "Your data is stored on encrypted servers. We do not sell your personal information to third parties."},
	{"Account Deletion", "You can delete your account at any time. This removes your profile, matches, applications, sessions and messages."},
}

var termsSections = []legalSection{
	{"Acceptance", "By using MentorConnect, you agree to these terms."},
	{"Mentoring Conduct", "Treat mentors, mentees and organisations with respect. Messages containing abusive language or spam are rejected, and reported content is reviewed by moderators."},
	{"Opportunities", "Organisations are responsible for the accuracy of the opportunities they post. Applying does not guarantee a placement."},
	{"Termination", "We may suspend or terminate accounts that violate these terms."},
}

var legalTemplate = template.Must(template.New("legal").Parse(legalLayout))

type LegalHandler struct {
	privacy []byte
	terms   []byte
}

// NewLegalHandler renders both pages once; they only change on deploy.
func NewLegalHandler(contact string) (*LegalHandler, error) {
	privacy, err := renderLegal(legalPage{Title: "Privacy Policy", Sections: privacySections, Contact: contact})
	if err != nil {
		return nil, err
	}
	terms, err := renderLegal(legalPage{Title: "Terms of Service", Sections: termsSections, Contact: contact})
	if err != nil {
		return nil, err
	}
	return &LegalHandler{privacy: privacy, terms: terms}, nil
}

func renderLegal(p legalPage) ([]byte, error) {
	var buf bytes.Buffer
	if err := legalTemplate.Execute(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return c.Type("html").Send(h.privacy)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return c.Type("html").Send(h.terms)
}
