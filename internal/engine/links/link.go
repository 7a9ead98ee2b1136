package links

import (
	"context"
	"errors"
)

// Link maps a short code to a long URL. OwnerID is the only user allowed to
// change or delete it.
type Link struct {
	ShortCode string `json:"short_code"`
	LongURL   string `json:"long_url"`
	OwnerID   string `json:"owner_id"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

var (
	ErrLinkNotFound   = errors.New("link not found")
	ErrShortCodeTaken = errors.New("short code already taken")
)

// Store is the link store. GetByShortCode returns (nil, nil) when absent;
// UpdateLongURL and Delete return ErrLinkNotFound; Create returns
// ErrShortCodeTaken if the code exists.
type Store interface {
	Create(ctx context.Context, link *Link) error
	GetByShortCode(ctx context.Context, shortCode string) (*Link, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Link, error)
	UpdateLongURL(ctx context.Context, shortCode, longURL string, updatedAt int64) error
	Delete(ctx context.Context, shortCode string) error
	ExistsByShortCode(ctx context.Context, shortCode string) (bool, error)
	Count(ctx context.Context) (int, error)
}
