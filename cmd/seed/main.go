// Package main provides a seeding tool that fills the local environment with
// test profiles and travel sessions so the matching endpoints have data to
// work with.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/wandermate/wandermate/internal/database"
	"github.com/wandermate/wandermate/internal/matching"
	"github.com/wandermate/wandermate/internal/profile"
	"github.com/wandermate/wandermate/internal/redisstore"
	"github.com/wandermate/wandermate/internal/session"
)

// destinations are assigned round-robin so seeded users overlap.
var destinations = []matching.Destination{
	{Name: "Goa", Lat: 15.2993, Lon: 74.1240},
	{Name: "Mumbai", Lat: 19.0760, Lon: 72.8777},
	{Name: "Delhi", Lat: 28.7041, Lon: 77.1025},
	{Name: "Manali", Lat: 32.2432, Lon: 77.1892},
	{Name: "Rishikesh", Lat: 30.0869, Lon: 78.2676},
}

type persona struct {
	slug        string
	age         int
	gender      string
	personality string
	budget      float64
	tripStart   int // days from now
	tripEnd     int
	interests   []string
}

var personas = []persona{
	{
		slug: "budget-traveler", age: 24, gender: "female",
		personality: matching.PersonalityAmbivert, budget: 15000,
		tripStart: 10, tripEnd: 17,
		interests: []string{"backpacking", "street_food", "local_experiences"},
	},
	{
		slug: "luxury-traveler", age: 35, gender: "male",
		personality: matching.PersonalityExtrovert, budget: 60000,
		tripStart: 10, tripEnd: 17,
		interests: []string{"fine_dining", "resorts", "nightlife"},
	},
	{
		slug: "solo-introvert", age: 28, gender: "female",
		personality: matching.PersonalityIntrovert, budget: 28000,
		tripStart: 10, tripEnd: 17,
		interests: []string{"cultural_sites", "quiet_places", "nature"},
	},
	{
		slug: "extrovert-group", age: 26, gender: "male",
		personality: matching.PersonalityExtrovert, budget: 30000,
		tripStart: 10, tripEnd: 17,
		interests: []string{"nightlife", "adventure", "social_activities"},
	},
	{
		slug: "short-trip", age: 31, gender: "other",
		personality: matching.PersonalityAmbivert, budget: 25000,
		tripStart: 7, tripEnd: 10,
		interests: []string{"weekend_getaways", "hiking"},
	},
	{
		slug: "long-trip", age: 29, gender: "female",
		personality: matching.PersonalityAmbivert, budget: 40000,
		tripStart: 14, tripEnd: 28,
		interests: []string{"slow_travel", "nature", "photography"},
	},
}

// staticGeocoder resolves the fixed seed destinations without hitting the
// geocoding provider.
type staticGeocoder struct{}

func (staticGeocoder) Lookup(_ context.Context, name string) (*matching.Coordinate, error) {
	for _, d := range destinations {
		if d.Name == name {
			return &matching.Coordinate{Lat: d.Lat, Lon: d.Lon}, nil
		}
	}
	return nil, nil
}

func futureDate(daysFromNow int) string {
	return time.Now().AddDate(0, 0, daysFromNow).Format("2006-01-02")
}

func main() {
	count := flag.Int("count", len(personas), "number of users to seed")
	ttl := flag.Duration("ttl", session.DefaultTTL, "session lifetime")
	flag.Parse()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", "wandermate-seed").
		Logger()

	ctx := context.Background()

	pool, err := database.Connect(ctx, database.ConfigFromEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	redisClient, err := redisstore.Connect(ctx, redisstore.ConfigFromEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	profileService := profile.NewService(profile.NewPostgresRepository(pool))
	sessionService := session.NewService(session.ServiceConfig{
		Repository: session.NewRedisRepository(redisClient, log),
		Geocoder:   staticGeocoder{},
		Attributes: profileService,
		Logger:     log,
		TTL:        *ttl,
	})

	seeded := 0
	for i := 0; i < *count; i++ {
		p := personas[i%len(personas)]
		userID := fmt.Sprintf("seed-%s-%d", p.slug, i/len(personas)+1)

		if _, err := profileService.Upsert(ctx, &profile.Profile{
			UserID:      userID,
			Email:       userID + "@example.com",
			Age:         p.age,
			Gender:      p.gender,
			Personality: p.personality,
			Interests:   p.interests,
		}); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("failed to seed profile")
			continue
		}

		dest := destinations[i%len(destinations)]
		if _, err := sessionService.Create(ctx, session.CreateInput{
			UserID:          userID,
			DestinationName: dest.Name,
			Budget:          p.budget + float64(i)*1000,
			StartDate:       futureDate(p.tripStart),
			EndDate:         futureDate(p.tripEnd),
		}); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("failed to seed session")
			continue
		}

		seeded++
		log.Info().
			Str("user_id", userID).
			Str("destination", dest.Name).
			Msg("seeded user")
	}

	log.Info().Int("seeded", seeded).Msg("done")
}
