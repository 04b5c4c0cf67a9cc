package repos_test

import (
	"context"
	"errors"
	"testing"

	"invdash/internal/domain"
	"invdash/internal/repos"
)

func TestDBSessionStore_BindLookupUnbind(t *testing.T) {
	ctx := context.Background()
	db := memdb(t)
	store := repos.NewDBSessionStore(db)

	if _, err := store.Lookup(ctx, "sid-1"); !errors.Is(err, repos.ErrNoSession) {
		t.Fatalf("want ErrNoSession, got %v", err)
	}

	admin, err := repos.NewUserRepo(db).ByUsername(ctx, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Bind(ctx, "sid-1", admin.Session()); err != nil {
		t.Fatal(err)
	}
	s, err := store.Lookup(ctx, "sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if s.Username != "admin" || s.Role != domain.RoleAdmin {
		t.Fatalf("unexpected session %+v", s)
	}

	if err := store.Unbind(ctx, "sid-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Lookup(ctx, "sid-1"); !errors.Is(err, repos.ErrNoSession) {
		t.Fatalf("want ErrNoSession after unbind, got %v", err)
	}
}
