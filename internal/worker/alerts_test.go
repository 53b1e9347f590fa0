package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wandermate/wandermate/internal/matching"
	"github.com/wandermate/wandermate/internal/notify"
	"github.com/wandermate/wandermate/internal/profile"
	"github.com/wandermate/wandermate/internal/session"
	"github.com/wandermate/wandermate/internal/worker"
)

type staticGeocoder struct{}

func (staticGeocoder) Lookup(_ context.Context, name string) (*matching.Coordinate, error) {
	coords := map[string]*matching.Coordinate{
		"Mumbai": {Lat: 19.0760, Lon: 72.8777},
		"Goa":    {Lat: 15.2993, Lon: 74.1240},
	}
	return coords[name], nil
}

type profileAttributes struct {
	profiles *profile.Service
}

func (a profileAttributes) Snapshot(ctx context.Context, userID string) (matching.StaticAttributes, []string, error) {
	return a.profiles.Snapshot(ctx, userID)
}

type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (s *recordingSender) Send(_ context.Context, n notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

type alertFixture struct {
	repo     *session.InMemoryRepository
	sessions *session.Service
	profiles *profile.Service
	sender   *recordingSender
	job      *worker.AlertJob
}

func newAlertFixture(t *testing.T, cfg worker.AlertConfig) *alertFixture {
	t.Helper()

	repo := session.NewInMemoryRepository()
	profiles := profile.NewService(profile.NewInMemoryRepository())
	sessions := session.NewService(session.ServiceConfig{
		Repository: repo,
		Geocoder:   staticGeocoder{},
		Attributes: profileAttributes{profiles: profiles},
		Logger:     zerolog.Nop(),
		TTL:        time.Hour,
	})
	sender := &recordingSender{}

	job := worker.NewAlertJob(worker.AlertJobConfig{
		Config:   cfg,
		Sessions: sessions,
		Profiles: profiles,
		Sender:   sender,
		Logger:   zerolog.Nop(),
	})
	return &alertFixture{repo: repo, sessions: sessions, profiles: profiles, sender: sender, job: job}
}

func (f *alertFixture) addUser(t *testing.T, userID, destination, start, end string) {
	t.Helper()
	ctx := context.Background()

	_, err := f.profiles.Upsert(ctx, &profile.Profile{
		UserID:      userID,
		Email:       userID + "@example.com",
		Age:         25,
		Personality: matching.PersonalityAmbivert,
		Interests:   []string{"food", "beaches"},
	})
	if err != nil {
		t.Fatalf("Upsert profile %s: %v", userID, err)
	}

	_, err = f.sessions.Create(ctx, session.CreateInput{
		UserID:          userID,
		DestinationName: destination,
		Budget:          20000,
		StartDate:       start,
		EndDate:         end,
	})
	if err != nil {
		t.Fatalf("Create session %s: %v", userID, err)
	}
}

func TestAlertJob_NotifiesMatchingSearchers(t *testing.T) {
	f := newAlertFixture(t, worker.DefaultAlertConfig())

	f.addUser(t, "searcher", "Mumbai", "2026-08-15", "2026-08-19")
	f.addUser(t, "newcomer", "Mumbai", "2026-08-15", "2026-08-19")

	result, err := f.job.Run(context.Background(), "newcomer")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Sent != 1 {
		t.Fatalf("sent = %d, want 1", result.Sent)
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("delivered %d notifications, want 1", len(f.sender.sent))
	}
	n := f.sender.sent[0]
	if n.UserID != "searcher" || n.Email != "searcher@example.com" {
		t.Errorf("recipient = %s/%s, want the existing searcher", n.UserID, n.Email)
	}
}

func TestAlertJob_SkipsNonOverlappingDates(t *testing.T) {
	f := newAlertFixture(t, worker.DefaultAlertConfig())

	f.addUser(t, "searcher", "Mumbai", "2026-01-01", "2026-01-05")
	f.addUser(t, "newcomer", "Mumbai", "2026-08-15", "2026-08-19")

	result, err := f.job.Run(context.Background(), "newcomer")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Sent != 0 {
		t.Errorf("sent = %d, want 0 for disjoint trips", result.Sent)
	}
}

func TestAlertJob_HonorsScoreThreshold(t *testing.T) {
	cfg := worker.DefaultAlertConfig()
	cfg.ScoreThreshold = 0.99

	f := newAlertFixture(t, cfg)

	// Different destination and budget keep the score below the bar.
	f.addUser(t, "searcher", "Goa", "2026-08-15", "2026-08-19")
	f.addUser(t, "newcomer", "Mumbai", "2026-08-15", "2026-08-19")

	result, err := f.job.Run(context.Background(), "newcomer")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Sent != 0 {
		t.Errorf("sent = %d, want 0 below threshold", result.Sent)
	}
}

func TestAlertJob_SkipsSearchersWithoutDestination(t *testing.T) {
	f := newAlertFixture(t, worker.DefaultAlertConfig())

	f.addUser(t, "newcomer", "Mumbai", "2026-08-15", "2026-08-19")

	// Stored searches may carry a null destination; they must not crash the
	// run or receive an alert.
	err := f.repo.Put(context.Background(), &matching.TravelSession{
		UserID:    "searcher",
		Budget:    20000,
		StartDate: "2026-08-15",
		EndDate:   "2026-08-19",
		Mode:      matching.ModeSolo,
	}, time.Hour)
	if err != nil {
		t.Fatalf("Put session: %v", err)
	}

	result, err := f.job.Run(context.Background(), "newcomer")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Sent != 0 || result.Failed != 0 {
		t.Errorf("result = %+v, want no deliveries", result)
	}
	if len(f.sender.sent) != 0 {
		t.Errorf("delivered %d notifications, want 0", len(f.sender.sent))
	}
}

func TestAlertJob_SessionGoneIsNotAnError(t *testing.T) {
	f := newAlertFixture(t, worker.DefaultAlertConfig())

	result, err := f.job.Run(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Scored != 0 || result.Sent != 0 {
		t.Errorf("result = %+v, want empty run", result)
	}
}

func TestAlertJob_CountsDeliveryFailures(t *testing.T) {
	f := newAlertFixture(t, worker.DefaultAlertConfig())
	f.sender.err = errors.New("smtp down")

	f.addUser(t, "searcher", "Mumbai", "2026-08-15", "2026-08-19")
	f.addUser(t, "newcomer", "Mumbai", "2026-08-15", "2026-08-19")

	result, err := f.job.Run(context.Background(), "newcomer")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Failed != 1 || result.Sent != 0 {
		t.Errorf("result = %+v, want one failed delivery", result)
	}

	metrics := f.job.Metrics().Snapshot()
	if metrics.AlertsFailed != 1 {
		t.Errorf("metrics failed = %d, want 1", metrics.AlertsFailed)
	}
}
