package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/crucial707/travel-journal/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const storyColumns = `id, title, story, visited_location, image_url, visited_date, is_favourite, user_id, created_on`

// Favourites first; the secondary order is not part of the contract.
const storyOrder = `ORDER BY is_favourite DESC, created_on DESC`

// ========================
// REPOSITORY STRUCT
// ========================

// StoryRepo stores travel stories. Every read and write is filtered by the
// owning user id as well as the story id.
type StoryRepo struct {
	DB *sql.DB
	// PlaceholderImageURL replaces an empty image on update.
	PlaceholderImageURL string
}

func NewStoryRepo(db *sql.DB, placeholderImageURL string) *StoryRepo {
	return &StoryRepo{DB: db, PlaceholderImageURL: placeholderImageURL}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStory(row rowScanner) (*models.Story, error) {
	s := &models.Story{}
	var locations pq.StringArray
	err := row.Scan(&s.ID, &s.Title, &s.Story, &locations, &s.ImageURL,
		&s.VisitedDate, &s.IsFavourite, &s.UserID, &s.CreatedOn)
	if err != nil {
		return nil, err
	}
	s.VisitedLocation = []string(locations)
	if s.VisitedLocation == nil {
		s.VisitedLocation = []string{}
	}
	return s, nil
}

func scanOne(row *sql.Row) (*models.Story, error) {
	s, err := scanStory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func (r *StoryRepo) queryList(ctx context.Context, query string, args ...interface{}) ([]models.Story, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stories := []models.Story{}
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, *s)
	}
	return stories, rows.Err()
}

func normalizeLocations(locations []string) []string {
	if locations == nil {
		return []string{}
	}
	return locations
}

// ========================
// CREATE STORY
// ========================

// Create inserts a story owned by userID. New stories are never favourites.
func (r *StoryRepo) Create(ctx context.Context, userID uuid.UUID, f models.StoryFields) (*models.Story, error) {
	query := `
		INSERT INTO travel_stories (title, story, visited_location, image_url, visited_date, is_favourite, user_id)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)
		RETURNING ` + storyColumns
	row := r.DB.QueryRowContext(ctx, query,
		f.Title, f.Story, pq.Array(normalizeLocations(f.VisitedLocation)), f.ImageURL, f.VisitedDate, userID)
	return scanStory(row)
}

// ========================
// LIST STORIES
// ========================
func (r *StoryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Story, error) {
	return r.queryList(ctx,
		`SELECT `+storyColumns+` FROM travel_stories WHERE user_id = $1 `+storyOrder,
		userID)
}

// ========================
// GET OWNED STORY
// ========================
func (r *StoryRepo) GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.Story, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+storyColumns+` FROM travel_stories WHERE id = $1 AND user_id = $2`,
		id, userID)
	return scanOne(row)
}

// ========================
// UPDATE STORY
// ========================

// Update replaces the editable fields in one conditional statement. No matching
// (id, userID) row yields ErrNotFound.
func (r *StoryRepo) Update(ctx context.Context, id, userID uuid.UUID, f models.StoryFields) (*models.Story, error) {
	imageURL := f.ImageURL
	if imageURL == "" {
		imageURL = r.PlaceholderImageURL
	}
	query := `
		UPDATE travel_stories
		SET title = $1, story = $2, visited_location = $3, image_url = $4, visited_date = $5
		WHERE id = $6 AND user_id = $7
		RETURNING ` + storyColumns
	row := r.DB.QueryRowContext(ctx, query,
		f.Title, f.Story, pq.Array(normalizeLocations(f.VisitedLocation)), imageURL, f.VisitedDate, id, userID)
	return scanOne(row)
}

// ========================
// SET FAVOURITE
// ========================

// SetFavourite is idempotent: repeating the same value returns the same row.
func (r *StoryRepo) SetFavourite(ctx context.Context, id, userID uuid.UUID, favourite bool) (*models.Story, error) {
	query := `
		UPDATE travel_stories
		SET is_favourite = $1
		WHERE id = $2 AND user_id = $3
		RETURNING ` + storyColumns
	return scanOne(r.DB.QueryRowContext(ctx, query, favourite, id, userID))
}

// ========================
// DELETE STORY
// ========================

// Delete removes the story and returns the deleted row so the caller can
// clean up its image.
func (r *StoryRepo) Delete(ctx context.Context, id, userID uuid.UUID) (*models.Story, error) {
	query := `DELETE FROM travel_stories WHERE id = $1 AND user_id = $2 RETURNING ` + storyColumns
	return scanOne(r.DB.QueryRowContext(ctx, query, id, userID))
}

// ========================
// SEARCH STORIES
// ========================

// Search matches query case-insensitively as a plain substring of the title,
// the body, or any location.
func (r *StoryRepo) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Story, error) {
	pattern := "%" + escapeLike(query) + "%"
	return r.queryList(ctx, `
		SELECT `+storyColumns+`
		FROM travel_stories
		WHERE user_id = $1
		  AND (title ILIKE $2 OR story ILIKE $2
		       OR EXISTS (SELECT 1 FROM unnest(visited_location) AS loc WHERE loc ILIKE $2))
		`+storyOrder,
		userID, pattern)
}

// ========================
// FILTER BY DATE
// ========================

// FilterByDate returns stories visited within [start, end]. start after end
// simply matches nothing.
func (r *StoryRepo) FilterByDate(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Story, error) {
	return r.queryList(ctx, `
		SELECT `+storyColumns+`
		FROM travel_stories
		WHERE user_id = $1 AND visited_date >= $2 AND visited_date <= $3
		`+storyOrder,
		userID, start, end)
}

// ========================
// REFERENCED IMAGES
// ========================

// ImageURLs returns every image URL still referenced by some story.
func (r *StoryRepo) ImageURLs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT image_url FROM travel_stories WHERE image_url <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := make(map[string]struct{})
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls[u] = struct{}{}
	}
	return urls, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
