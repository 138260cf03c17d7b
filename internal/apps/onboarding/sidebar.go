package onboarding

import "github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"

type NavItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Sidebar returns the navigation entries shown to role.
func Sidebar(role models.Role) ([]NavItem, error) {
	switch role {
	case models.RoleMentee:
		return []NavItem{
			{"Home", "/mentee"},
			{"Find a Mentor", "/mentee/mentors"},
			{"Sessions", "/mentee/sessions"},
			{"Messages", "/mentee/messages"},
			{"Opportunities", "/mentee/jobs"},
			{"Resources", "/mentee/resources"},
		}, nil
	case models.RoleMentor:
		return []NavItem{
			{"Home", "/"},
			{"Sessions", "/mentor/sessions"},
			{"My Mentees", "/mentor/my-mentees"},
			{"Messages", "/mentor/messages"},
			{"Resources", "/mentor/resources"},
		}, nil
	case models.RoleOrg:
		return []NavItem{
			{"Home", "/"},
			{"Jobs", "/org/opportunities/jobs"},
			{"Internships", "/org/opportunities/internships"},
			{"Attachments", "/org/opportunities/attachments"},
		}, nil
	case models.RoleAdmin:
		return []NavItem{
			{"Home", "/"},
			{"User Management", "/users"},
			{"Messages", "/messages"},
			{"Settings", "/settings"},
		}, nil
	case models.RoleGuest:
		return []NavItem{
			{"Home", "/"},
			{"Resources", "/resources"},
		}, nil
	default:
		return nil, models.ErrUnknownRole
	}
}
