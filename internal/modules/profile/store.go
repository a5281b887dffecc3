// README: Profile store backed by PostgreSQL.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("profile not found")
	ErrBadAccessKey = errors.New("access key mismatch")
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT email, access_key, firstname, origin, destination, created_at
		FROM profiles
		WHERE email = $1`, email,
	)

	var p Profile
	var firstname, origin, destination sql.NullString
	err := row.Scan(&p.Email, &p.AccessKey, &firstname, &origin, &destination, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Firstname = firstname.String
	p.Origin = origin.String
	p.Destination = destination.String
	return &p, nil
}

// Create inserts a fresh profile row with a generated access key. There is
// no idempotency guard here: callers check the "found" branch first.
func (s *Store) Create(ctx context.Context, email string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO profiles (email, access_key, created_at)
		VALUES ($1, $2, $3)`,
		email, uuid.NewString(), time.Now(),
	)
	return err
}

// Patch applies the non-nil fields to the row matching email AND access key.
// Last writer wins; there is no cross-turn lock or version check.
func (s *Store) Patch(ctx context.Context, email, accessKey string, fields PatchFields) (*Profile, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE profiles SET
			firstname   = COALESCE($3, firstname),
			origin      = COALESCE($4, origin),
			destination = COALESCE($5, destination)
		WHERE email = $1 AND access_key = $2
		RETURNING email, access_key, firstname, origin, destination, created_at`,
		email, accessKey, fields.Firstname, fields.Origin, fields.Destination,
	)

	var p Profile
	var firstname, origin, destination sql.NullString
	err := row.Scan(&p.Email, &p.AccessKey, &firstname, &origin, &destination, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBadAccessKey
	}
	if err != nil {
		return nil, err
	}
	p.Firstname = firstname.String
	p.Origin = origin.String
	p.Destination = destination.String
	return &p, nil
}
