package links

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, link *Link) error {
	query := `
		INSERT INTO links (short_code, long_url, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		link.ShortCode,
		link.LongURL,
		link.OwnerID,
		link.CreatedAt,
		link.UpdatedAt,
	)

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
		return ErrShortCodeTaken
	}
	return err
}

func (r *Repository) GetByShortCode(ctx context.Context, shortCode string) (*Link, error) {
	query := `
		SELECT short_code, long_url, owner_id, created_at, updated_at
		FROM links WHERE short_code = ?
	`
	link, err := scanLink(r.db.QueryRowContext(ctx, query, shortCode))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return link, err
}

func (r *Repository) ExistsByShortCode(ctx context.Context, shortCode string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM links WHERE short_code = ?)"
	err := r.db.QueryRowContext(ctx, query, shortCode).Scan(&exists)
	return exists, err
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]*Link, error) {
	query := `
		SELECT short_code, long_url, owner_id, created_at, updated_at
		FROM links
		WHERE owner_id = ?
		ORDER BY created_at DESC, rowid DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *Repository) UpdateLongURL(ctx context.Context, shortCode, longURL string, updatedAt int64) error {
	query := `UPDATE links SET long_url = ?, updated_at = ? WHERE short_code = ?`
	res, err := r.db.ExecContext(ctx, query, longURL, updatedAt, shortCode)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *Repository) Delete(ctx context.Context, shortCode string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM links WHERE short_code = ?", shortCode)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM links").Scan(&n)
	return n, err
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLinkNotFound
	}
	return nil
}

func scanLink(s interface {
	Scan(dest ...interface{}) error
}) (*Link, error) {
	var link Link
	err := s.Scan(
		&link.ShortCode,
		&link.LongURL,
		&link.OwnerID,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &link, nil
}
