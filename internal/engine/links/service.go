package links

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/courtamos/tinyapp/internal/pkg/errors"
)

// createAttempts bounds retries when a generated code is claimed between the
// availability check and the insert.
const createAttempts = 3

type Service struct {
	store Store
	codes *CodeGenerator
	now   func() time.Time
}

func NewService(store Store, codes *CodeGenerator) *Service {
	return &Service{store: store, codes: codes, now: time.Now}
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]*Link, error) {
	links, err := s.store.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return links, nil
}

func (s *Service) Get(ctx context.Context, shortCode string) (*Link, error) {
	link, err := s.store.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if link == nil {
		return nil, apperrors.NotFound("Short URL not found")
	}
	return link, nil
}

// GetOwned fetches a link on behalf of userID.
func (s *Service) GetOwned(ctx context.Context, shortCode, userID string) (*Link, error) {
	link, err := s.Get(ctx, shortCode)
	if err != nil {
		return nil, err
	}
	if link.OwnerID != userID {
		return nil, apperrors.Forbidden("You do not own this URL")
	}
	return link, nil
}

func (s *Service) Create(ctx context.Context, longURL, ownerID string) (*Link, error) {
	if ownerID == "" {
		return nil, apperrors.Unauthorized("You must be logged in to shorten URLs")
	}
	if err := ValidateLongURL(longURL); err != nil {
		return nil, err
	}

	for i := 0; i < createAttempts; i++ {
		code, err := s.codes.Generate(ctx, s.store)
		if err != nil {
			return nil, apperrors.Internal(err)
		}

		now := s.now().Unix()
		link := &Link{
			ShortCode: code,
			LongURL:   longURL,
			OwnerID:   ownerID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err = s.store.Create(ctx, link)
		if errors.Is(err, ErrShortCodeTaken) {
			continue
		}
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		return link, nil
	}

	return nil, apperrors.Internal(ErrCodeSpaceExhausted)
}

func (s *Service) Update(ctx context.Context, shortCode, newLongURL, userID string) (*Link, error) {
	link, err := s.GetOwned(ctx, shortCode, userID)
	if err != nil {
		return nil, err
	}
	if err := ValidateLongURL(newLongURL); err != nil {
		return nil, err
	}

	updatedAt := s.now().Unix()
	if err := s.store.UpdateLongURL(ctx, shortCode, newLongURL, updatedAt); err != nil {
		return nil, storeError(err)
	}

	link.LongURL = newLongURL
	link.UpdatedAt = updatedAt
	return link, nil
}

func (s *Service) Delete(ctx context.Context, shortCode, userID string) error {
	if _, err := s.GetOwned(ctx, shortCode, userID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, shortCode); err != nil {
		return storeError(err)
	}
	return nil
}

// QRCode renders shortURL as a PNG for the owner of shortCode.
func (s *Service) QRCode(ctx context.Context, shortCode, userID, shortURL string, size int) ([]byte, error) {
	if _, err := s.GetOwned(ctx, shortCode, userID); err != nil {
		return nil, err
	}
	png, err := GenerateQRCode(shortURL, size)
	if err != nil {
		if errors.Is(err, ErrInvalidQRSize) {
			return nil, apperrors.Validation(err.Error())
		}
		return nil, apperrors.Internal(err)
	}
	return png, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// storeError maps a store failure after the ownership check. The link can
// vanish in between when a concurrent delete wins.
func storeError(err error) error {
	if errors.Is(err, ErrLinkNotFound) {
		return apperrors.NotFound("Short URL not found")
	}
	return apperrors.Internal(err)
}
