package dto

import "time"

// EducationDto mirrors one education entry in requests and responses.
type EducationDto struct {
	ID           int64  `json:"id,omitempty"`
	Institution  string `json:"institution" binding:"required,max=200"`
	Degree       string `json:"degree" binding:"max=200"`
	FieldOfStudy string `json:"fieldOfStudy" binding:"max=200"`
	StartDate    string `json:"startDate" binding:"max=30"`
	EndDate      string `json:"endDate" binding:"max=30"`
	Description  string `json:"description" binding:"max=2000"`
}

// ExperienceDto mirrors one experience entry in requests and responses.
type ExperienceDto struct {
	ID          int64  `json:"id,omitempty"`
	Company     string `json:"company" binding:"required,max=200"`
	Position    string `json:"position" binding:"max=200"`
	Location    string `json:"location" binding:"max=200"`
	StartDate   string `json:"startDate" binding:"max=30"`
	EndDate     string `json:"endDate" binding:"max=30"`
	IsCurrent   bool   `json:"isCurrent"`
	Description string `json:"description" binding:"max=2000"`
}

// SkillDto mirrors one skill entry in requests and responses.
type SkillDto struct {
	ID               int64  `json:"id,omitempty"`
	Name             string `json:"name" binding:"required,max=100"`
	ProficiencyLevel string `json:"proficiencyLevel" binding:"max=50"`
}

// CreateResumeRequest is the JSON body for POST /resumes.
type CreateResumeRequest struct {
	Title        string          `json:"title" binding:"required,min=1,max=200"`
	PersonalInfo string          `json:"personalInfo" binding:"max=4000"`
	Summary      string          `json:"summary" binding:"max=4000"`
	TemplateName string          `json:"templateName" binding:"max=50"`
	Educations   []EducationDto  `json:"educations" binding:"dive"`
	Experiences  []ExperienceDto `json:"experiences" binding:"dive"`
	Skills       []SkillDto      `json:"skills" binding:"dive"`
}

// UpdateResumeRequest is the JSON body for PUT /resumes/{id}. Child
// collections replace the stored ones wholesale.
type UpdateResumeRequest = CreateResumeRequest

// ResumeResponse is the full resume representation.
type ResumeResponse struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"userId"`
	Title        string          `json:"title"`
	PersonalInfo string          `json:"personalInfo"`
	Summary      string          `json:"summary"`
	TemplateName string          `json:"templateName"`
	IsPublic     bool            `json:"isPublic"`
	PublicURL    string          `json:"publicUrl,omitempty"`
	Educations   []EducationDto  `json:"educations"`
	Experiences  []ExperienceDto `json:"experiences"`
	Skills       []SkillDto      `json:"skills"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ListResumesResponse wraps a resume listing.
type ListResumesResponse struct {
	Items []ResumeResponse `json:"items"`
}
