package repo

import (
	"context"

	dom "github.com/serh11pashkov/resumebuilder/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	List(ctx context.Context) ([]dom.User, error)
	Create(ctx context.Context, username, email, passwordHash string, roles []string) (dom.User, error)
	UpdateEmail(ctx context.Context, id int64, email string) (dom.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByUsername returns the user by username, roles included.
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return dom.User{}, err
	}
	u.Roles, err = r.loadRoles(ctx, u.ID)
	return u, err
}

// GetByID returns the user by ID, roles included.
func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return dom.User{}, err
	}
	u.Roles, err = r.loadRoles(ctx, u.ID)
	return u, err
}

// List returns all users ordered by ID.
func (r *PGUserRepo) List(ctx context.Context) ([]dom.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []dom.User
	for rows.Next() {
		var u dom.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Roles, err = r.loadRoles(ctx, users[i].ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// Create inserts a new user with the given canonical roles and returns it.
func (r *PGUserRepo) Create(ctx context.Context, username, email, passwordHash string, roles []string) (dom.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.User{}, err
	}
	defer tx.Rollback(ctx)

	var u dom.User
	err = tx.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, created_at`,
		username, email, passwordHash,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return dom.User{}, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = ANY($2)`,
		u.ID, roles,
	); err != nil {
		return dom.User{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return dom.User{}, err
	}
	u.Roles = append([]string(nil), roles...)
	return u, nil
}

// UpdateEmail changes the user's email and returns the updated user.
func (r *PGUserRepo) UpdateEmail(ctx context.Context, id int64, email string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx, `
		UPDATE users SET email = $2 WHERE id = $1
		RETURNING id, username, email, password_hash, created_at`,
		id, email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return dom.User{}, err
	}
	u.Roles, err = r.loadRoles(ctx, u.ID)
	return u, err
}

// UpdatePassword replaces the user's password hash.
func (r *PGUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGUserRepo) loadRoles(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}
