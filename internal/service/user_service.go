package service

import (
	"context"
	"errors"
	"strings"

	dom "github.com/serh11pashkov/resumebuilder/internal/domain"
	"github.com/serh11pashkov/resumebuilder/internal/repo"
	"github.com/serh11pashkov/resumebuilder/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrUsernameTaken = errors.New("username already taken")
var ErrUserNotFound = errors.New("user not found")
var ErrWrongPassword = errors.New("current password is incorrect")

// UserService handles user accounts and credential checks.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// ValidateCredentials checks username and password; returns user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register creates a new user with hashed password. roleHints are the
// informal labels from the signup form ("admin", "mod", "user"); anything
// unrecognized falls back to ROLE_USER, and ROLE_USER is always granted.
func (s *UserService) Register(ctx context.Context, username, email, password string, roleHints []string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, strings.TrimSpace(email), string(hash), MapRoleHints(roleHints))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// Get returns the user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]dom.User, error) {
	return s.repo.List(ctx)
}

// UpdateEmail changes the user's email address.
func (s *UserService) UpdateEmail(ctx context.Context, id int64, email string) (dom.User, error) {
	u, err := s.repo.UpdateEmail(ctx, id, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// ChangePassword stores a new password hash after verifying the current
// password against the stored one.
func (s *UserService) ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return ErrWrongPassword
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, id, string(hash)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// MapRoleHints converts informal signup role hints to canonical role
// labels. ROLE_USER is always included; duplicates are dropped.
func MapRoleHints(hints []string) []string {
	roles := []string{dom.RoleUser}
	seen := map[string]bool{dom.RoleUser: true}
	for _, h := range hints {
		var role string
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "admin":
			role = dom.RoleAdmin
		case "mod", "moderator":
			role = dom.RoleModerator
		default:
			role = dom.RoleUser
		}
		if !seen[role] {
			seen[role] = true
			roles = append(roles, role)
		}
	}
	return roles
}
