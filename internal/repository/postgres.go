package repository

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/UnknownOlympus/geotag/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewDatabase opens a connection pool to PostgreSQL using the individual connection
// parameters and verifies it with a ping.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     name,
		RawQuery: "sslmode=disable",
	}

	return NewDatabaseFromURL(ctx, dsn.String())
}

// NewDatabaseFromURL opens a connection pool from a PostgreSQL connection string.
func NewDatabaseFromURL(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the photo_locations table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS photo_locations (
			path         TEXT PRIMARY KEY,
			latitude     DOUBLE PRECISION,
			longitude    DOUBLE PRECISION,
			status       TEXT NOT NULL,
			extracted_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create photo_locations table: %w", err)
	}

	return nil
}

// SaveLocation inserts or refreshes the extracted location of a photo identified by its path.
// Missing coordinates are stored as NULL.
func (r *Repository) SaveLocation(ctx context.Context, photo models.Photo) error {
	query := `
		INSERT INTO photo_locations (path, latitude, longitude, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (path) DO UPDATE
		SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			status = EXCLUDED.status,
			extracted_at = now();
	`

	_, err := r.db.Exec(ctx, query, photo.Path, photo.Latitude, photo.Longitude, photo.Status)
	if err != nil {
		return fmt.Errorf("failed to save photo location: %w", err)
	}

	r.log.DebugContext(ctx, "Photo location saved", "path", photo.Path, "status", photo.Status)

	return nil
}

// FetchLocations retrieves the most recently extracted photo locations.
//
// Parameters:
// - ctx: The context for the operation, allowing for cancellation and timeout.
// - limit: The maximum number of photos to retrieve.
//
// Returns:
// - A slice of models.Photo ordered from newest to oldest extraction.
// - An error if the query fails or if there is an issue scanning the results.
func (r *Repository) FetchLocations(ctx context.Context, limit int) ([]models.Photo, error) {
	var photos []models.Photo
	query := `
		SELECT path, latitude, longitude, status
		FROM photo_locations
		ORDER BY extracted_at DESC, path ASC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query photo locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var photo models.Photo
		if errScan := rows.Scan(&photo.Path, &photo.Latitude, &photo.Longitude, &photo.Status); errScan != nil {
			return nil, fmt.Errorf("failed to scan photo location: %w", errScan)
		}
		photos = append(photos, photo)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return photos, nil
}
