package links

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/courtamos/tinyapp/internal/pkg/errors"
)

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	codes, err := NewCodeGenerator(6)
	if err != nil {
		t.Fatalf("NewCodeGenerator() error = %v", err)
	}
	store := NewMemoryStore()
	return NewService(store, codes), store
}

// takenOnceStore claims every code on the first insert, the way a concurrent
// writer would between the availability check and the insert.
type takenOnceStore struct {
	*MemoryStore
	failed bool
}

func (s *takenOnceStore) Create(ctx context.Context, link *Link) error {
	if !s.failed {
		s.failed = true
		return ErrShortCodeTaken
	}
	return s.MemoryStore.Create(ctx, link)
}

type brokenStore struct {
	*MemoryStore
}

func (brokenStore) ListByOwner(context.Context, string) ([]*Link, error) {
	return nil, errors.New("db down")
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	link, err := svc.Create(ctx, "https://www.example.com", "user1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(link.ShortCode) != 6 {
		t.Errorf("Expected 6 character code, got %q", link.ShortCode)
	}
	if link.OwnerID != "user1" || link.CreatedAt != 1700000000 || link.UpdatedAt != 1700000000 {
		t.Errorf("Unexpected link %+v", link)
	}

	stored, _ := store.GetByShortCode(ctx, link.ShortCode)
	if stored == nil || stored.LongURL != "https://www.example.com" {
		t.Errorf("Link not persisted: %+v", stored)
	}
}

func TestService_CreateRejects(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	tests := []struct {
		name   string
		url    string
		owner  string
		kind   apperrors.Kind
		status int
	}{
		{name: "anonymous", url: "https://example.com", owner: "", kind: apperrors.KindAuthorization, status: 401},
		{name: "missing scheme", url: "example.com", owner: "user1", kind: apperrors.KindValidation, status: 400},
		{name: "empty", url: "", owner: "user1", kind: apperrors.KindValidation, status: 400},
		{name: "scheme only", url: "https://", owner: "user1", kind: apperrors.KindValidation, status: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.url, tt.owner)
			if !apperrors.Is(err, tt.kind) {
				t.Fatalf("Create() error = %v, want kind %s", err, tt.kind)
			}
			if got := apperrors.As(err).Status; got != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, got)
			}
		})
	}

	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("Expected no links stored, got %d", n)
	}
}

func TestService_CreateRetriesTakenCode(t *testing.T) {
	codes, _ := NewCodeGenerator(6)
	store := &takenOnceStore{MemoryStore: NewMemoryStore()}
	svc := NewService(store, codes)

	link, err := svc.Create(context.Background(), "https://example.com", "user1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !store.failed || link.ShortCode == "" {
		t.Errorf("Expected a retried insert, got %+v", link)
	}
}

func TestService_ListForUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, _ := svc.Create(ctx, "https://one.example", "user1")
	second, _ := svc.Create(ctx, "https://two.example", "user1")
	_, _ = svc.Create(ctx, "https://other.example", "user2")

	links, err := svc.ListForUser(ctx, "user1")
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(links))
	}
	if links[0].ShortCode != second.ShortCode || links[1].ShortCode != first.ShortCode {
		t.Error("Expected newest link first")
	}

	failing := NewService(brokenStore{NewMemoryStore()}, svc.codes)
	if _, err := failing.ListForUser(ctx, "user1"); !apperrors.Is(err, apperrors.KindInternal) {
		t.Errorf("Expected internal error, got %v", err)
	}
}

func TestService_Ownership(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	link, _ := svc.Create(ctx, "https://www.example.com", "owner")

	if _, err := svc.Get(ctx, link.ShortCode); err != nil {
		t.Errorf("Get() error = %v", err)
	}
	if _, err := svc.Get(ctx, "nosuch"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("Get(nosuch) error = %v, want not found", err)
	}
	if _, err := svc.GetOwned(ctx, link.ShortCode, "owner"); err != nil {
		t.Errorf("GetOwned(owner) error = %v", err)
	}
	if _, err := svc.GetOwned(ctx, link.ShortCode, "intruder"); !apperrors.Is(err, apperrors.KindAuthorization) {
		t.Errorf("GetOwned(intruder) error = %v, want authorization", err)
	}

	_, err := svc.Update(ctx, link.ShortCode, "https://evil.example", "intruder")
	if !apperrors.Is(err, apperrors.KindAuthorization) {
		t.Errorf("Update(intruder) error = %v, want authorization", err)
	}
	if err := svc.Delete(ctx, link.ShortCode, "intruder"); !apperrors.Is(err, apperrors.KindAuthorization) {
		t.Errorf("Delete(intruder) error = %v, want authorization", err)
	}

	got, _ := svc.Get(ctx, link.ShortCode)
	if got.LongURL != "https://www.example.com" {
		t.Errorf("Non-owner changed the link: %s", got.LongURL)
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	svc.now = func() time.Time { return time.Unix(100, 0) }

	link, _ := svc.Create(ctx, "https://www.example.com", "owner")

	svc.now = func() time.Time { return time.Unix(200, 0) }
	updated, err := svc.Update(ctx, link.ShortCode, "https://www.example.org", "owner")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.LongURL != "https://www.example.org" || updated.UpdatedAt != 200 || updated.CreatedAt != 100 {
		t.Errorf("Unexpected link after update %+v", updated)
	}

	if _, err := svc.Update(ctx, link.ShortCode, "ftp://example.org", "owner"); !apperrors.Is(err, apperrors.KindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if _, err := svc.Update(ctx, "nosuch", "https://example.org", "owner"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	link, _ := svc.Create(ctx, "https://www.example.com", "owner")

	if err := svc.Delete(ctx, link.ShortCode, "owner"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, link.ShortCode); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("Expected deleted link to be gone, got %v", err)
	}
	if err := svc.Delete(ctx, link.ShortCode, "owner"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("Second Delete() error = %v, want not found", err)
	}
}

func TestService_QRCode(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	link, _ := svc.Create(ctx, "https://www.example.com", "owner")
	shortURL := "http://localhost:8080/u/" + link.ShortCode

	png, err := svc.QRCode(ctx, link.ShortCode, "owner", shortURL, 0)
	if err != nil {
		t.Fatalf("QRCode() error = %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("QRCode() did not return a PNG")
	}

	if _, err := svc.QRCode(ctx, link.ShortCode, "intruder", shortURL, 0); !apperrors.Is(err, apperrors.KindAuthorization) {
		t.Errorf("Expected authorization error, got %v", err)
	}
	if _, err := svc.QRCode(ctx, link.ShortCode, "owner", shortURL, 10); !apperrors.Is(err, apperrors.KindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}
