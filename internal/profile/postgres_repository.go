package profile

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL profile repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a profile by user ID.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Profile, error) {
	query := `
		SELECT
			user_id, email, age, gender, personality,
			home_city, home_lat, home_lon,
			smoking, drinking, religion, nationality, languages, profession,
			interests, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	var (
		id          string
		email       string
		age         int
		gender      string
		personality string
		homeCity    string
		homeLat     *float64
		homeLon     *float64
		smoking     string
		drinking    string
		religion    string
		nationality string
		languages   []string
		profession  string
		interests   []string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&id,
		&email,
		&age,
		&gender,
		&personality,
		&homeCity,
		&homeLat,
		&homeLon,
		&smoking,
		&drinking,
		&religion,
		&nationality,
		&languages,
		&profession,
		&interests,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &Profile{
		UserID:      id,
		Email:       email,
		Age:         age,
		Gender:      gender,
		Personality: personality,
		HomeCity:    homeCity,
		HomeLat:     homeLat,
		HomeLon:     homeLon,
		Smoking:     smoking,
		Drinking:    drinking,
		Religion:    religion,
		Nationality: nationality,
		Languages:   languages,
		Profession:  profession,
		Interests:   interests,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Upsert creates or replaces a profile.
func (r *PostgresRepository) Upsert(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO user_profiles (
			user_id, email, age, gender, personality,
			home_city, home_lat, home_lon,
			smoking, drinking, religion, nationality, languages, profession,
			interests, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			personality = EXCLUDED.personality,
			home_city = EXCLUDED.home_city,
			home_lat = EXCLUDED.home_lat,
			home_lon = EXCLUDED.home_lon,
			smoking = EXCLUDED.smoking,
			drinking = EXCLUDED.drinking,
			religion = EXCLUDED.religion,
			nationality = EXCLUDED.nationality,
			languages = EXCLUDED.languages,
			profession = EXCLUDED.profession,
			interests = EXCLUDED.interests,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		p.UserID,
		p.Email,
		p.Age,
		p.Gender,
		p.Personality,
		p.HomeCity,
		p.HomeLat,
		p.HomeLon,
		p.Smoking,
		p.Drinking,
		p.Religion,
		p.Nationality,
		p.Languages,
		p.Profession,
		p.Interests,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

// Delete removes a profile.
func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_profiles WHERE user_id = $1`, userID)
	return err
}
