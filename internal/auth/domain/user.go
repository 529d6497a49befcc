package domain

import "time"

// User is an institute account. Permissions are a snapshot taken from the
// role table at creation time; the record, not the table, is authoritative
// for the user afterwards.
type User struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions"`
	Profile     Profile      `json:"profile"`
	KPIs        KPI          `json:"kpis"`
	CreatedAt   time.Time    `json:"createdAt"`
	LastLogin   time.Time    `json:"lastLogin"`
	IsActive    bool         `json:"isActive"`
}

// Can reports whether the user's permission snapshot contains the given
// resource/action pair. Exact string match, no wildcard semantics.
func (u User) Can(resource, action string) bool {
	for _, p := range u.Permissions {
		if p.Resource != resource {
			continue
		}
		for _, a := range p.Actions {
			if a == action {
				return true
			}
		}
	}
	return false
}

// Profile holds optional member metadata. Opaque to the auth core.
type Profile struct {
	Avatar            string        `json:"avatar,omitempty"`
	Bio               string        `json:"bio,omitempty"`
	Institution       string        `json:"institution,omitempty"`
	Department        string        `json:"department,omitempty"`
	ResearchInterests []string      `json:"researchInterests"`
	Publications      []Publication `json:"publications"`
	SocialLinks       []SocialLink  `json:"socialLinks"`
}

type Publication struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Journal string `json:"journal"`
	Year    int    `json:"year"`
	DOI     string `json:"doi,omitempty"`
	URL     string `json:"url,omitempty"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// KPI carries publication metrics. Opaque to the auth core, zero-initialized
// on account creation.
type KPI struct {
	ArticlesPublished  int       `json:"articlesPublished"`
	ArticlesReviewed   int       `json:"articlesReviewed"`
	ReviewScore        float64   `json:"reviewScore"`
	ResponseTime       float64   `json:"responseTime"`
	CollaborationScore float64   `json:"collaborationScore"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

// NewUser builds a fresh account for the given role. The permission snapshot
// is copied from the role table so later table edits do not retroactively
// change issued users.
func NewUser(id, email, name string, role Role, now time.Time) User {
	return User{
		ID:          id,
		Email:       email,
		Name:        name,
		Role:        role,
		Permissions: DefaultPermissions(role),
		Profile: Profile{
			ResearchInterests: []string{},
			Publications:      []Publication{},
			SocialLinks:       []SocialLink{},
		},
		KPIs:      KPI{LastUpdated: now},
		CreatedAt: now,
		LastLogin: now,
		IsActive:  true,
	}
}
