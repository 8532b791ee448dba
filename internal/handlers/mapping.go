package handlers

import (
	dom "github.com/serh11pashkov/resumebuilder/internal/domain"
	"github.com/serh11pashkov/resumebuilder/internal/dto"
)

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, Roles: u.Roles}
}

func resumeFromRequest(req dto.CreateResumeRequest) dom.Resume {
	r := dom.Resume{
		Title:        req.Title,
		PersonalInfo: req.PersonalInfo,
		Summary:      req.Summary,
		TemplateName: req.TemplateName,
	}
	for _, e := range req.Educations {
		r.Educations = append(r.Educations, dom.Education{
			Institution:  e.Institution,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			Description:  e.Description,
		})
	}
	for _, e := range req.Experiences {
		r.Experiences = append(r.Experiences, dom.Experience{
			Company:     e.Company,
			Position:    e.Position,
			Location:    e.Location,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			IsCurrent:   e.IsCurrent,
			Description: e.Description,
		})
	}
	for _, s := range req.Skills {
		r.Skills = append(r.Skills, dom.Skill{Name: s.Name, ProficiencyLevel: s.ProficiencyLevel})
	}
	return r
}

func resumeToResponse(r dom.Resume) dto.ResumeResponse {
	resp := dto.ResumeResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		Title:        r.Title,
		PersonalInfo: r.PersonalInfo,
		Summary:      r.Summary,
		TemplateName: r.TemplateName,
		IsPublic:     r.IsPublic,
		PublicURL:    r.PublicURL,
		Educations:   []dto.EducationDto{},
		Experiences:  []dto.ExperienceDto{},
		Skills:       []dto.SkillDto{},
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	for _, e := range r.Educations {
		resp.Educations = append(resp.Educations, dto.EducationDto{
			ID:           e.ID,
			Institution:  e.Institution,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			Description:  e.Description,
		})
	}
	for _, e := range r.Experiences {
		resp.Experiences = append(resp.Experiences, dto.ExperienceDto{
			ID:          e.ID,
			Company:     e.Company,
			Position:    e.Position,
			Location:    e.Location,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			IsCurrent:   e.IsCurrent,
			Description: e.Description,
		})
	}
	for _, s := range r.Skills {
		resp.Skills = append(resp.Skills, dto.SkillDto{
			ID:               s.ID,
			Name:             s.Name,
			ProficiencyLevel: s.ProficiencyLevel,
		})
	}
	return resp
}

func resumesToResponses(list []dom.Resume) []dto.ResumeResponse {
	out := make([]dto.ResumeResponse, 0, len(list))
	for _, r := range list {
		out = append(out, resumeToResponse(r))
	}
	return out
}
