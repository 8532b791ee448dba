package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/serh11pashkov/resumebuilder/internal/cache"
	dom "github.com/serh11pashkov/resumebuilder/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeResumeRepo struct {
	resumes         map[int64]dom.Resume
	nextID          int64
	listPublicCalls int
}

func newFakeResumeRepo() *fakeResumeRepo {
	return &fakeResumeRepo{resumes: map[int64]dom.Resume{}, nextID: 1}
}

func (f *fakeResumeRepo) GetByID(_ context.Context, id int64) (dom.Resume, error) {
	r, ok := f.resumes[id]
	if !ok {
		return dom.Resume{}, pgx.ErrNoRows
	}
	return r, nil
}

func (f *fakeResumeRepo) GetByPublicURL(_ context.Context, url string) (dom.Resume, error) {
	for _, r := range f.resumes {
		if r.IsPublic && r.PublicURL == url {
			return r, nil
		}
	}
	return dom.Resume{}, pgx.ErrNoRows
}

func (f *fakeResumeRepo) ListByUser(_ context.Context, userID int64) ([]dom.Resume, error) {
	var out []dom.Resume
	for _, r := range f.resumes {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sortResumes(out)
	return out, nil
}

func (f *fakeResumeRepo) ListAll(_ context.Context) ([]dom.Resume, error) {
	var out []dom.Resume
	for _, r := range f.resumes {
		out = append(out, r)
	}
	sortResumes(out)
	return out, nil
}

func (f *fakeResumeRepo) ListPublic(_ context.Context) ([]dom.Resume, error) {
	f.listPublicCalls++
	var out []dom.Resume
	for _, r := range f.resumes {
		if r.IsPublic {
			out = append(out, r)
		}
	}
	sortResumes(out)
	return out, nil
}

func (f *fakeResumeRepo) Create(_ context.Context, r dom.Resume) (dom.Resume, error) {
	r.ID = f.nextID
	f.nextID++
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	f.resumes[r.ID] = r
	return r, nil
}

func (f *fakeResumeRepo) Update(_ context.Context, r dom.Resume) (dom.Resume, error) {
	if _, ok := f.resumes[r.ID]; !ok {
		return dom.Resume{}, pgx.ErrNoRows
	}
	r.UpdatedAt = time.Now()
	f.resumes[r.ID] = r
	return r, nil
}

func (f *fakeResumeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.resumes[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.resumes, id)
	return nil
}

func (f *fakeResumeRepo) SetPublic(_ context.Context, id int64, public bool, publicURL string) error {
	r, ok := f.resumes[id]
	if !ok {
		return pgx.ErrNoRows
	}
	r.IsPublic = public
	r.PublicURL = publicURL
	f.resumes[id] = r
	return nil
}

func sortResumes(list []dom.Resume) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}

func newResumeService(t *testing.T) (*ResumeService, *fakeResumeRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	repo := newFakeResumeRepo()
	return NewResumeService(repo, cache.NewGalleryCache(rdb, 5*time.Minute)), repo, mr
}

var (
	owner = Actor{UserID: 1}
	other = Actor{UserID: 2}
	admin = Actor{UserID: 3, Admin: true}
)

func TestCreateDefaultsTemplate(t *testing.T) {
	svc, _, _ := newResumeService(t)

	r, err := svc.Create(t.Context(), owner, dom.Resume{Title: "My Resume"})
	require.NoError(t, err)
	require.Equal(t, int64(1), r.UserID)
	require.Equal(t, "classic", r.TemplateName)

	r, err = svc.Create(t.Context(), owner, dom.Resume{Title: "Other", TemplateName: "modern"})
	require.NoError(t, err)
	require.Equal(t, "modern", r.TemplateName)
}

func TestGetOwnership(t *testing.T) {
	svc, _, _ := newResumeService(t)

	created, err := svc.Create(t.Context(), owner, dom.Resume{Title: "Mine"})
	require.NoError(t, err)

	_, err = svc.Get(t.Context(), owner, created.ID)
	require.NoError(t, err)

	_, err = svc.Get(t.Context(), other, created.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(t.Context(), admin, created.ID)
	require.NoError(t, err)

	_, err = svc.Get(t.Context(), owner, 999)
	require.ErrorIs(t, err, ErrResumeNotFound)
}

func TestListByUserOwnership(t *testing.T) {
	svc, _, _ := newResumeService(t)

	_, err := svc.Create(t.Context(), owner, dom.Resume{Title: "Mine"})
	require.NoError(t, err)

	list, err := svc.ListByUser(t.Context(), owner, owner.UserID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.ListByUser(t.Context(), other, owner.UserID)
	require.ErrorIs(t, err, ErrForbidden)

	list, err = svc.ListByUser(t.Context(), admin, owner.UserID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestUpdateKeepsOwnerAndID(t *testing.T) {
	svc, repo, _ := newResumeService(t)

	created, err := svc.Create(t.Context(), owner, dom.Resume{Title: "Before"})
	require.NoError(t, err)

	updated, err := svc.Update(t.Context(), owner, created.ID, dom.Resume{
		Title:  "After",
		UserID: 999, // ignored, ownership is never transferable
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, owner.UserID, updated.UserID)
	require.Equal(t, "After", updated.Title)
	require.Equal(t, "classic", updated.TemplateName)

	_, err = svc.Update(t.Context(), other, created.ID, dom.Resume{Title: "Nope"})
	require.ErrorIs(t, err, ErrForbidden)
	require.Equal(t, "After", repo.resumes[created.ID].Title)
}

func TestDelete(t *testing.T) {
	svc, _, _ := newResumeService(t)

	created, err := svc.Create(t.Context(), owner, dom.Resume{Title: "Mine"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(t.Context(), other, created.ID), ErrForbidden)
	require.NoError(t, svc.Delete(t.Context(), owner, created.ID))
	require.ErrorIs(t, svc.Delete(t.Context(), owner, created.ID), ErrResumeNotFound)
}

func TestPublishLifecycle(t *testing.T) {
	svc, _, _ := newResumeService(t)

	created, err := svc.Create(t.Context(), owner, dom.Resume{Title: "Mine"})
	require.NoError(t, err)

	published, err := svc.Publish(t.Context(), owner, created.ID)
	require.NoError(t, err)
	require.True(t, published.IsPublic)
	require.NotEmpty(t, published.PublicURL)

	// re-publishing keeps the slug stable
	again, err := svc.Publish(t.Context(), owner, created.ID)
	require.NoError(t, err)
	require.Equal(t, published.PublicURL, again.PublicURL)

	got, err := svc.GetPublic(t.Context(), published.PublicURL)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	hidden, err := svc.Unpublish(t.Context(), owner, created.ID)
	require.NoError(t, err)
	require.False(t, hidden.IsPublic)
	require.Empty(t, hidden.PublicURL)

	_, err = svc.GetPublic(t.Context(), published.PublicURL)
	require.ErrorIs(t, err, ErrResumeNotFound)
}

func TestPublishOwnership(t *testing.T) {
	svc, _, _ := newResumeService(t)

	created, err := svc.Create(t.Context(), owner, dom.Resume{Title: "Mine"})
	require.NoError(t, err)

	_, err = svc.Publish(t.Context(), other, created.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Publish(t.Context(), admin, created.ID)
	require.NoError(t, err)
}

func TestPublicGalleryCaching(t *testing.T) {
	svc, repo, mr := newResumeService(t)

	created, err := svc.Create(t.Context(), owner, dom.Resume{Title: "Mine"})
	require.NoError(t, err)
	_, err = svc.Publish(t.Context(), owner, created.ID)
	require.NoError(t, err)

	list, err := svc.PublicGallery(t.Context())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, mr.Exists("resume:gallery"))

	// warm cache: the second read never reaches the repo
	_, err = svc.PublicGallery(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, repo.listPublicCalls)

	// a write invalidates the cached listing
	_, err = svc.Unpublish(t.Context(), owner, created.ID)
	require.NoError(t, err)
	require.False(t, mr.Exists("resume:gallery"))

	list, err = svc.PublicGallery(t.Context())
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestPublicGalleryCachesEmptyListing(t *testing.T) {
	svc, repo, _ := newResumeService(t)

	list, err := svc.PublicGallery(t.Context())
	require.NoError(t, err)
	require.Empty(t, list)

	// the empty listing counts as a hit, not a perpetual miss
	list, err = svc.PublicGallery(t.Context())
	require.NoError(t, err)
	require.Empty(t, list)
	require.Equal(t, 1, repo.listPublicCalls)
}

func TestExportPDF(t *testing.T) {
	svc, _, _ := newResumeService(t)

	created, err := svc.Create(t.Context(), owner, dom.Resume{Title: "Mine"})
	require.NoError(t, err)

	data, err := svc.ExportPDF(t.Context(), owner, created.ID)
	require.NoError(t, err)
	require.True(t, len(data) > 0)
	require.Equal(t, "%PDF-", string(data[:5]))

	_, err = svc.ExportPDF(t.Context(), other, created.ID)
	require.ErrorIs(t, err, ErrForbidden)

	published, err := svc.Publish(t.Context(), owner, created.ID)
	require.NoError(t, err)

	data, err = svc.ExportPublicPDF(t.Context(), published.PublicURL)
	require.NoError(t, err)
	require.Equal(t, "%PDF-", string(data[:5]))

	_, err = svc.ExportPublicPDF(t.Context(), "missing")
	require.ErrorIs(t, err, ErrResumeNotFound)
}
