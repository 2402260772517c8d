package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mparsa/cinema-ticket-booking/internal/model"
)

// ErrMovieNotFound is returned when a movie lookup yields no rows.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo provides methods to work with the movie catalog.  Movies
// are managed by admins and read by public browse endpoints; the
// booking engine only references them through shows.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Create inserts a movie record.  On success the movie's ID and
// DB-default timestamps are populated.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, description, duration_min, release_date) VALUES (?, ?, ?, ?)`
	var release interface{}
	if m.ReleaseDate != nil {
		release = m.ReleaseDate.UTC().Format("2006-01-02")
	}
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.DurationMin, release)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM movies WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, m.ID).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// GetByID retrieves a movie by its id.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, title, description, duration_min, release_date, created_at, updated_at
	           FROM movies WHERE id = ?`
	var m model.Movie
	var release sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.Title, &m.Description, &m.DurationMin, &release, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	if release.Valid {
		t := release.Time
		m.ReleaseDate = &t
	}
	return &m, nil
}

// ListAll returns every movie ordered by title.
func (r *MovieRepo) ListAll(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT id, title, description, duration_min, release_date, created_at, updated_at
	           FROM movies ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		var release sql.NullTime
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.DurationMin, &release, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if release.Valid {
			t := release.Time
			m.ReleaseDate = &t
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
