package service

import (
	"context"
	"errors"

	"github.com/serh11pashkov/resumebuilder/internal/cache"
	dom "github.com/serh11pashkov/resumebuilder/internal/domain"
	"github.com/serh11pashkov/resumebuilder/internal/pdf"
	"github.com/serh11pashkov/resumebuilder/internal/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrResumeNotFound = errors.New("resume not found")
var ErrForbidden = errors.New("not allowed to access this resume")

// Actor identifies who is performing a resume operation. Admins may act on
// any resume; everyone else only on their own.
type Actor struct {
	UserID int64
	Admin  bool
}

// ResumeService handles resume CRUD, publishing and export.
type ResumeService struct {
	repo    repo.ResumeRepo
	gallery *cache.GalleryCache
}

// NewResumeService returns a new ResumeService.
func NewResumeService(repo repo.ResumeRepo, gallery *cache.GalleryCache) *ResumeService {
	return &ResumeService{repo: repo, gallery: gallery}
}

// ListAll returns every resume. The admin-only restriction is enforced by
// the route middleware, not here.
func (s *ResumeService) ListAll(ctx context.Context) ([]dom.Resume, error) {
	return s.repo.ListAll(ctx)
}

// ListByUser returns the resumes owned by userID; only the owner or an
// admin may ask.
func (s *ResumeService) ListByUser(ctx context.Context, actor Actor, userID int64) ([]dom.Resume, error) {
	if !actor.Admin && actor.UserID != userID {
		return nil, ErrForbidden
	}
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one resume; only the owner or an admin may see it.
func (s *ResumeService) Get(ctx context.Context, actor Actor, id int64) (dom.Resume, error) {
	r, err := s.get(ctx, id)
	if err != nil {
		return dom.Resume{}, err
	}
	if !actor.Admin && actor.UserID != r.UserID {
		return dom.Resume{}, ErrForbidden
	}
	return r, nil
}

// Create stores a new resume owned by the actor.
func (s *ResumeService) Create(ctx context.Context, actor Actor, r dom.Resume) (dom.Resume, error) {
	r.UserID = actor.UserID
	if r.TemplateName == "" {
		r.TemplateName = "classic"
	}
	created, err := s.repo.Create(ctx, r)
	if err != nil {
		return dom.Resume{}, err
	}
	s.invalidateGallery(ctx)
	return created, nil
}

// Update replaces the resume content and all child rows.
func (s *ResumeService) Update(ctx context.Context, actor Actor, id int64, r dom.Resume) (dom.Resume, error) {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return dom.Resume{}, err
	}
	r.ID = existing.ID
	r.UserID = existing.UserID
	if r.TemplateName == "" {
		r.TemplateName = existing.TemplateName
	}
	updated, err := s.repo.Update(ctx, r)
	if err != nil {
		return dom.Resume{}, err
	}
	s.invalidateGallery(ctx)
	return updated, nil
}

// Delete removes the resume.
func (s *ResumeService) Delete(ctx context.Context, actor Actor, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrResumeNotFound
		}
		return err
	}
	s.invalidateGallery(ctx)
	return nil
}

// Publish marks the resume public under a fresh URL slug. Re-publishing an
// already public resume keeps its existing slug.
func (s *ResumeService) Publish(ctx context.Context, actor Actor, id int64) (dom.Resume, error) {
	r, err := s.Get(ctx, actor, id)
	if err != nil {
		return dom.Resume{}, err
	}
	if r.IsPublic && r.PublicURL != "" {
		return r, nil
	}
	slug := uuid.NewString()
	if err := s.repo.SetPublic(ctx, id, true, slug); err != nil {
		return dom.Resume{}, err
	}
	s.invalidateGallery(ctx)
	r.IsPublic = true
	r.PublicURL = slug
	return r, nil
}

// Unpublish hides the resume and clears its URL slug.
func (s *ResumeService) Unpublish(ctx context.Context, actor Actor, id int64) (dom.Resume, error) {
	r, err := s.Get(ctx, actor, id)
	if err != nil {
		return dom.Resume{}, err
	}
	if err := s.repo.SetPublic(ctx, id, false, ""); err != nil {
		return dom.Resume{}, err
	}
	s.invalidateGallery(ctx)
	r.IsPublic = false
	r.PublicURL = ""
	return r, nil
}

// PublicGallery returns all published resumes, served from cache when warm.
func (s *ResumeService) PublicGallery(ctx context.Context) ([]dom.Resume, error) {
	if cached, ok, err := s.gallery.Get(ctx); err == nil && ok {
		return cached, nil
	}
	list, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.gallery.Set(ctx, list)
	return list, nil
}

// GetPublic returns the published resume with the given URL slug.
func (s *ResumeService) GetPublic(ctx context.Context, url string) (dom.Resume, error) {
	r, err := s.repo.GetByPublicURL(ctx, url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Resume{}, ErrResumeNotFound
		}
		return dom.Resume{}, err
	}
	return r, nil
}

// ExportPDF renders the resume as a PDF document for the owner or an admin.
func (s *ResumeService) ExportPDF(ctx context.Context, actor Actor, id int64) ([]byte, error) {
	r, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return pdf.Render(r), nil
}

// ExportPublicPDF renders a published resume as a PDF document.
func (s *ResumeService) ExportPublicPDF(ctx context.Context, url string) ([]byte, error) {
	r, err := s.GetPublic(ctx, url)
	if err != nil {
		return nil, err
	}
	return pdf.Render(r), nil
}

func (s *ResumeService) get(ctx context.Context, id int64) (dom.Resume, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Resume{}, ErrResumeNotFound
		}
		return dom.Resume{}, err
	}
	return r, nil
}

func (s *ResumeService) invalidateGallery(ctx context.Context) {
	_ = s.gallery.Invalidate(ctx)
}
