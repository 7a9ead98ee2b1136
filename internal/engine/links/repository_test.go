package links

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/courtamos/tinyapp/internal/platform/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := database.OpenMemory(context.Background())
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for _, id := range []string{"user1", "user2"} {
		_, err := db.Exec(
			"INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, 'hash', 0)",
			id, id+"@example.com",
		)
		if err != nil {
			t.Fatalf("Failed to seed user: %v", err)
		}
	}
	return db
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": NewRepository(setupTestDB(t)),
	}
}

func TestStores_CreateAndGet(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			link := &Link{ShortCode: "b2xVn2", LongURL: "http://www.lighthouselabs.ca", OwnerID: "user1", CreatedAt: 100, UpdatedAt: 100}
			if err := store.Create(ctx, link); err != nil {
				t.Fatalf("Create() error = %v", err)
			}

			got, err := store.GetByShortCode(ctx, "b2xVn2")
			if err != nil || got == nil {
				t.Fatalf("GetByShortCode() = %v, %v", got, err)
			}
			if got.LongURL != link.LongURL || got.OwnerID != "user1" {
				t.Errorf("Unexpected link %+v", got)
			}

			exists, err := store.ExistsByShortCode(ctx, "b2xVn2")
			if err != nil || !exists {
				t.Errorf("ExistsByShortCode() = %v, %v; want true", exists, err)
			}

			if err := store.Create(ctx, link); !errors.Is(err, ErrShortCodeTaken) {
				t.Errorf("Expected ErrShortCodeTaken, got %v", err)
			}
		})
	}
}

func TestStores_Missing(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.GetByShortCode(ctx, "nope")
			if err != nil || got != nil {
				t.Errorf("GetByShortCode() = %v, %v; want nil, nil", got, err)
			}
			exists, err := store.ExistsByShortCode(ctx, "nope")
			if err != nil || exists {
				t.Errorf("ExistsByShortCode() = %v, %v; want false", exists, err)
			}
			if err := store.UpdateLongURL(ctx, "nope", "https://example.com", 1); !errors.Is(err, ErrLinkNotFound) {
				t.Errorf("UpdateLongURL() error = %v, want ErrLinkNotFound", err)
			}
			if err := store.Delete(ctx, "nope"); !errors.Is(err, ErrLinkNotFound) {
				t.Errorf("Delete() error = %v, want ErrLinkNotFound", err)
			}
		})
	}
}

func TestStores_ListByOwner(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			seed := []*Link{
				{ShortCode: "aaaaaa", LongURL: "https://a.example", OwnerID: "user1", CreatedAt: 100, UpdatedAt: 100},
				{ShortCode: "bbbbbb", LongURL: "https://b.example", OwnerID: "user2", CreatedAt: 100, UpdatedAt: 100},
				{ShortCode: "cccccc", LongURL: "https://c.example", OwnerID: "user1", CreatedAt: 100, UpdatedAt: 100},
			}
			for _, l := range seed {
				if err := store.Create(ctx, l); err != nil {
					t.Fatalf("Create() error = %v", err)
				}
			}

			got, err := store.ListByOwner(ctx, "user1")
			if err != nil {
				t.Fatalf("ListByOwner() error = %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("Expected 2 links, got %d", len(got))
			}
			if got[0].ShortCode != "cccccc" || got[1].ShortCode != "aaaaaa" {
				t.Errorf("Expected newest first, got %s, %s", got[0].ShortCode, got[1].ShortCode)
			}

			none, err := store.ListByOwner(ctx, "user3")
			if err != nil || len(none) != 0 {
				t.Errorf("ListByOwner(user3) = %v, %v; want empty", none, err)
			}

			n, err := store.Count(ctx)
			if err != nil || n != 3 {
				t.Errorf("Count() = %d, %v; want 3", n, err)
			}
		})
	}
}

func TestStores_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			link := &Link{ShortCode: "9sm5xK", LongURL: "http://www.google.com", OwnerID: "user1", CreatedAt: 100, UpdatedAt: 100}
			if err := store.Create(ctx, link); err != nil {
				t.Fatalf("Create() error = %v", err)
			}

			if err := store.UpdateLongURL(ctx, "9sm5xK", "https://www.example.org", 200); err != nil {
				t.Fatalf("UpdateLongURL() error = %v", err)
			}
			got, _ := store.GetByShortCode(ctx, "9sm5xK")
			if got.LongURL != "https://www.example.org" || got.UpdatedAt != 200 || got.CreatedAt != 100 {
				t.Errorf("Unexpected link after update %+v", got)
			}

			if err := store.Delete(ctx, "9sm5xK"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			got, _ = store.GetByShortCode(ctx, "9sm5xK")
			if got != nil {
				t.Errorf("Expected link to be gone, got %+v", got)
			}
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	link := &Link{ShortCode: "abc123", LongURL: "https://example.com", OwnerID: "user1"}
	_ = store.Create(ctx, link)
	link.LongURL = "https://mutated.example"

	got, _ := store.GetByShortCode(ctx, "abc123")
	if got.LongURL != "https://example.com" {
		t.Errorf("Store shares state with caller: %s", got.LongURL)
	}
}

func TestRepository_CreateUnknownOwner(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	err := repo.Create(context.Background(), &Link{ShortCode: "orphan", LongURL: "https://example.com", OwnerID: "ghost"})
	if err == nil {
		t.Error("Expected foreign key error, got nil")
	}
	if errors.Is(err, ErrShortCodeTaken) {
		t.Error("Foreign key failure reported as ErrShortCodeTaken")
	}
}

func TestRepository_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT short_code, long_url").
		WithArgs("user1").
		WillReturnError(errors.New("connection reset"))

	repo := NewRepository(db)
	if _, err := repo.ListByOwner(context.Background(), "user1"); err == nil {
		t.Error("Expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRepository_RowsAffectedError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM links").
		WithArgs("abc123").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver gone")))

	repo := NewRepository(db)
	err = repo.Delete(context.Background(), "abc123")
	if err == nil || errors.Is(err, ErrLinkNotFound) {
		t.Errorf("Expected driver error, got %v", err)
	}
}
