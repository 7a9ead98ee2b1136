package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/courtamos/tinyapp/internal/pkg/errors"
	"github.com/courtamos/tinyapp/internal/pkg/validator"
	"github.com/courtamos/tinyapp/internal/platform/auth"
	"github.com/courtamos/tinyapp/internal/platform/models"
	"github.com/courtamos/tinyapp/internal/platform/repositories"
)

// Repository is the user store. Lookups return (nil, nil) when nothing
// matches; Create returns repositories.ErrDuplicateEmail for a taken email.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

type Service struct {
	repo       Repository
	bcryptCost int
	newID      func() string
	now        func() time.Time
}

func NewService(repo Repository, bcryptCost int) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		newID:      func() string { return "usr_" + uuid.NewString() },
		now:        time.Now,
	}
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// Lookup returns the user with the given id, or nil if there is none.
func (s *Service) Lookup(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, nil
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.Validation("Email and password fields can not be empty")
	}
	if err := validator.Email(email); err != nil {
		return nil, apperrors.Validation("Email address is not valid")
	}

	existing, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("Email is already registered")
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperrors.Validation("Password must be at most 72 bytes")
		}
		return nil, apperrors.Internal(err)
	}

	user := &models.User{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().Unix(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		return nil, apperrors.Internal(err)
	}

	return user, nil
}

// VerifyPassword reports whether candidate matches the user's password. An
// error means the stored hash could not be evaluated, not a mismatch.
func (s *Service) VerifyPassword(user *models.User, candidate string) (bool, error) {
	ok, err := auth.CheckPassword(user.PasswordHash, candidate)
	if err != nil {
		return false, apperrors.Internal(err)
	}
	return ok, nil
}

// Authenticate checks login credentials. Unknown email and wrong password
// produce the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.Authentication("Invalid email or password")
	}

	ok, err := s.VerifyPassword(user, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Authentication("Invalid email or password")
	}

	return user, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
