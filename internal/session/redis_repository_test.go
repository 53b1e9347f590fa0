package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wandermate/wandermate/internal/matching"
	"github.com/wandermate/wandermate/internal/session"
)

func newTestRedisRepo(t *testing.T) (*session.RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewRedisRepository(client, zerolog.Nop()), mr
}

func testSession(userID string) *matching.TravelSession {
	return &matching.TravelSession{
		UserID:      userID,
		Destination: &matching.Destination{Name: "Mumbai", Lat: 19.0760, Lon: 72.8777},
		Budget:      20000,
		StartDate:   "2026-08-15",
		EndDate:     "2026-08-19",
		Mode:        matching.ModeSolo,
		Interests:   []string{"food", "beaches"},
		StaticAttributes: matching.StaticAttributes{
			Age:         25,
			Personality: matching.PersonalityAmbivert,
			Religion:    "hindu",
		},
	}
}

func TestRedisRepository_PutGet(t *testing.T) {
	repo, _ := newTestRedisRepo(t)
	ctx := context.Background()

	want := testSession("user-1")
	if err := repo.Put(ctx, want, time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UserID != want.UserID {
		t.Errorf("userID = %q, want %q", got.UserID, want.UserID)
	}
	if got.Destination == nil || got.Destination.Name != "Mumbai" {
		t.Errorf("destination = %+v, want Mumbai", got.Destination)
	}
	if got.Budget != want.Budget {
		t.Errorf("budget = %v, want %v", got.Budget, want.Budget)
	}
	if len(got.Interests) != 2 {
		t.Errorf("interests = %v, want 2 tags", got.Interests)
	}
}

func TestRedisRepository_GetMissing(t *testing.T) {
	repo, _ := newTestRedisRepo(t)

	_, err := repo.Get(context.Background(), "nobody")
	if err != session.ErrSessionNotFound {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestRedisRepository_PutOverwrites(t *testing.T) {
	repo, _ := newTestRedisRepo(t)
	ctx := context.Background()

	first := testSession("user-1")
	if err := repo.Put(ctx, first, time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	second := testSession("user-1")
	second.Destination = &matching.Destination{Name: "Goa", Lat: 15.2993, Lon: 74.1240}
	if err := repo.Put(ctx, second, time.Hour); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Destination.Name != "Goa" {
		t.Errorf("destination = %q, want Goa (new search overwrites)", got.Destination.Name)
	}
}

func TestRedisRepository_TTLExpiry(t *testing.T) {
	repo, mr := newTestRedisRepo(t)
	ctx := context.Background()

	if err := repo.Put(ctx, testSession("user-1"), time.Minute); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := repo.Get(ctx, "user-1"); err != session.ErrSessionNotFound {
		t.Errorf("err after expiry = %v, want ErrSessionNotFound", err)
	}
}

func TestRedisRepository_Expire(t *testing.T) {
	repo, mr := newTestRedisRepo(t)
	ctx := context.Background()

	if err := repo.Put(ctx, testSession("user-1"), 24*time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := repo.Expire(ctx, "user-1", time.Second); err != nil {
		t.Fatalf("Expire failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	if _, err := repo.Get(ctx, "user-1"); err != session.ErrSessionNotFound {
		t.Errorf("err after forced expiry = %v, want ErrSessionNotFound", err)
	}
}

func TestRedisRepository_ExpireMissing(t *testing.T) {
	repo, _ := newTestRedisRepo(t)

	err := repo.Expire(context.Background(), "nobody", time.Second)
	if err != session.ErrSessionNotFound {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestRedisRepository_Delete(t *testing.T) {
	repo, _ := newTestRedisRepo(t)
	ctx := context.Background()

	if err := repo.Put(ctx, testSession("user-1"), time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := repo.Delete(ctx, "user-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, "user-1"); err != session.ErrSessionNotFound {
		t.Errorf("err after delete = %v, want ErrSessionNotFound", err)
	}
}

func TestRedisRepository_ListActive(t *testing.T) {
	repo, mr := newTestRedisRepo(t)
	ctx := context.Background()

	for _, id := range []string{"user-1", "user-2", "user-3"} {
		if err := repo.Put(ctx, testSession(id), time.Hour); err != nil {
			t.Fatalf("Put %s failed: %v", id, err)
		}
	}

	// A corrupt record must be skipped, not fail the listing.
	mr.Set("session:user:corrupt", "{not json")

	got, err := repo.ListActive(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d sessions, want 2", len(got))
	}
	for _, s := range got {
		if s.UserID == "user-1" {
			t.Errorf("ListActive included the excluded user")
		}
	}
}
