package repo

import (
	"context"

	dom "github.com/serh11pashkov/resumebuilder/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResumeRepo provides resume persistence, child rows included.
type ResumeRepo interface {
	GetByID(ctx context.Context, id int64) (dom.Resume, error)
	GetByPublicURL(ctx context.Context, url string) (dom.Resume, error)
	ListByUser(ctx context.Context, userID int64) ([]dom.Resume, error)
	ListAll(ctx context.Context) ([]dom.Resume, error)
	ListPublic(ctx context.Context) ([]dom.Resume, error)
	Create(ctx context.Context, r dom.Resume) (dom.Resume, error)
	Update(ctx context.Context, r dom.Resume) (dom.Resume, error)
	Delete(ctx context.Context, id int64) error
	SetPublic(ctx context.Context, id int64, public bool, publicURL string) error
}

// PGResumeRepo implements ResumeRepo with Postgres.
type PGResumeRepo struct {
	db *pgxpool.Pool
}

// NewPGResumeRepo returns a new PGResumeRepo.
func NewPGResumeRepo(db *pgxpool.Pool) *PGResumeRepo {
	return &PGResumeRepo{db: db}
}

const resumeColumns = `id, user_id, title, personal_info, summary, template_name, is_public, COALESCE(public_url, ''), created_at, updated_at`

func scanResume(row pgx.Row) (dom.Resume, error) {
	var r dom.Resume
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.PersonalInfo, &r.Summary,
		&r.TemplateName, &r.IsPublic, &r.PublicURL, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// GetByID returns the resume with all child rows.
func (p *PGResumeRepo) GetByID(ctx context.Context, id int64) (dom.Resume, error) {
	r, err := scanResume(p.db.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
	if err != nil {
		return dom.Resume{}, err
	}
	if err := p.loadChildren(ctx, &r); err != nil {
		return dom.Resume{}, err
	}
	return r, nil
}

// GetByPublicURL returns the published resume with the given URL slug.
func (p *PGResumeRepo) GetByPublicURL(ctx context.Context, url string) (dom.Resume, error) {
	r, err := scanResume(p.db.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE public_url = $1 AND is_public`, url))
	if err != nil {
		return dom.Resume{}, err
	}
	if err := p.loadChildren(ctx, &r); err != nil {
		return dom.Resume{}, err
	}
	return r, nil
}

// ListByUser returns all resumes owned by the user, newest first.
func (p *PGResumeRepo) ListByUser(ctx context.Context, userID int64) ([]dom.Resume, error) {
	return p.list(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// ListAll returns every resume, newest first.
func (p *PGResumeRepo) ListAll(ctx context.Context) ([]dom.Resume, error) {
	return p.list(ctx,
		`SELECT `+resumeColumns+` FROM resumes ORDER BY created_at DESC`)
}

// ListPublic returns all published resumes, newest first.
func (p *PGResumeRepo) ListPublic(ctx context.Context) ([]dom.Resume, error) {
	return p.list(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE is_public ORDER BY created_at DESC`)
}

func (p *PGResumeRepo) list(ctx context.Context, query string, args ...any) ([]dom.Resume, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resumes []dom.Resume
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range resumes {
		if err := p.loadChildren(ctx, &resumes[i]); err != nil {
			return nil, err
		}
	}
	return resumes, nil
}

// Create inserts the resume and its child rows in one transaction.
func (p *PGResumeRepo) Create(ctx context.Context, r dom.Resume) (dom.Resume, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return dom.Resume{}, err
	}
	defer tx.Rollback(ctx)

	created, err := scanResume(tx.QueryRow(ctx, `
		INSERT INTO resumes (user_id, title, personal_info, summary, template_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+resumeColumns,
		r.UserID, r.Title, r.PersonalInfo, r.Summary, r.TemplateName))
	if err != nil {
		return dom.Resume{}, err
	}
	if err := insertChildren(ctx, tx, created.ID, r); err != nil {
		return dom.Resume{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return dom.Resume{}, err
	}
	return p.GetByID(ctx, created.ID)
}

// Update rewrites the resume row and replaces all child rows.
func (p *PGResumeRepo) Update(ctx context.Context, r dom.Resume) (dom.Resume, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return dom.Resume{}, err
	}
	defer tx.Rollback(ctx)

	_, err = scanResume(tx.QueryRow(ctx, `
		UPDATE resumes
		SET title = $2, personal_info = $3, summary = $4, template_name = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+resumeColumns,
		r.ID, r.Title, r.PersonalInfo, r.Summary, r.TemplateName))
	if err != nil {
		return dom.Resume{}, err
	}

	for _, table := range []string{"educations", "experiences", "skills"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE resume_id = $1`, r.ID); err != nil {
			return dom.Resume{}, err
		}
	}
	if err := insertChildren(ctx, tx, r.ID, r); err != nil {
		return dom.Resume{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return dom.Resume{}, err
	}
	return p.GetByID(ctx, r.ID)
}

// Delete removes the resume; child rows go with it via ON DELETE CASCADE.
func (p *PGResumeRepo) Delete(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetPublic flips the published flag and stores (or clears) the URL slug.
func (p *PGResumeRepo) SetPublic(ctx context.Context, id int64, public bool, publicURL string) error {
	tag, err := p.db.Exec(ctx, `
		UPDATE resumes SET is_public = $2, public_url = NULLIF($3, ''), updated_at = now()
		WHERE id = $1`,
		id, public, publicURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func insertChildren(ctx context.Context, tx pgx.Tx, resumeID int64, r dom.Resume) error {
	for _, e := range r.Educations {
		if _, err := tx.Exec(ctx, `
			INSERT INTO educations (resume_id, institution, degree, field_of_study, start_date, end_date, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			resumeID, e.Institution, e.Degree, e.FieldOfStudy, e.StartDate, e.EndDate, e.Description); err != nil {
			return err
		}
	}
	for _, e := range r.Experiences {
		if _, err := tx.Exec(ctx, `
			INSERT INTO experiences (resume_id, company, position, location, start_date, end_date, is_current, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			resumeID, e.Company, e.Position, e.Location, e.StartDate, e.EndDate, e.IsCurrent, e.Description); err != nil {
			return err
		}
	}
	for _, s := range r.Skills {
		if _, err := tx.Exec(ctx, `
			INSERT INTO skills (resume_id, name, proficiency_level)
			VALUES ($1, $2, $3)`,
			resumeID, s.Name, s.ProficiencyLevel); err != nil {
			return err
		}
	}
	return nil
}

func (p *PGResumeRepo) loadChildren(ctx context.Context, r *dom.Resume) error {
	rows, err := p.db.Query(ctx, `
		SELECT id, resume_id, institution, degree, field_of_study, start_date, end_date, description
		FROM educations WHERE resume_id = $1 ORDER BY id`, r.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var e dom.Education
		if err := rows.Scan(&e.ID, &e.ResumeID, &e.Institution, &e.Degree, &e.FieldOfStudy,
			&e.StartDate, &e.EndDate, &e.Description); err != nil {
			rows.Close()
			return err
		}
		r.Educations = append(r.Educations, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = p.db.Query(ctx, `
		SELECT id, resume_id, company, position, location, start_date, end_date, is_current, description
		FROM experiences WHERE resume_id = $1 ORDER BY id`, r.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var e dom.Experience
		if err := rows.Scan(&e.ID, &e.ResumeID, &e.Company, &e.Position, &e.Location,
			&e.StartDate, &e.EndDate, &e.IsCurrent, &e.Description); err != nil {
			rows.Close()
			return err
		}
		r.Experiences = append(r.Experiences, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = p.db.Query(ctx, `
		SELECT id, resume_id, name, proficiency_level
		FROM skills WHERE resume_id = $1 ORDER BY id`, r.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var s dom.Skill
		if err := rows.Scan(&s.ID, &s.ResumeID, &s.Name, &s.ProficiencyLevel); err != nil {
			rows.Close()
			return err
		}
		r.Skills = append(r.Skills, s)
	}
	rows.Close()
	return rows.Err()
}
