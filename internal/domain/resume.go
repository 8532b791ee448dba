package domain

import "time"

// Resume is the aggregate root: a structured resume document owned by a
// user, with education, experience and skill child rows.
// Does not depend on Gin, Postgres or Redis.
type Resume struct {
	ID           int64
	UserID       int64
	Title        string
	PersonalInfo string
	Summary      string
	TemplateName string
	IsPublic     bool
	PublicURL    string

	Educations  []Education
	Experiences []Experience
	Skills      []Skill

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Education is one education entry on a resume. Dates are free-form
// strings ("2019", "2019-09") as entered by the user.
type Education struct {
	ID           int64
	ResumeID     int64
	Institution  string
	Degree       string
	FieldOfStudy string
	StartDate    string
	EndDate      string
	Description  string
}

// Experience is one work experience entry on a resume.
type Experience struct {
	ID          int64
	ResumeID    int64
	Company     string
	Position    string
	Location    string
	StartDate   string
	EndDate     string
	IsCurrent   bool
	Description string
}

// Skill is one skill entry on a resume.
type Skill struct {
	ID               int64
	ResumeID         int64
	Name             string
	ProficiencyLevel string
}
