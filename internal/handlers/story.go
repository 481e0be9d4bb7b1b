package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/crucial707/travel-journal/internal/images"
	"github.com/crucial707/travel-journal/internal/metrics"
	"github.com/crucial707/travel-journal/internal/middleware"
	"github.com/crucial707/travel-journal/internal/models"
	"github.com/crucial707/travel-journal/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const msgStoryNotFound = "Travel story not found"

// imageCleanupTimeout bounds the detached image delete after a story is removed.
const imageCleanupTimeout = 30 * time.Second

type StoryHandler struct {
	Repo   *repo.StoryRepo
	Images images.Store

	// detach runs fn outside the request; tests replace it to run synchronously.
	detach func(fn func())
}

type storyInput struct {
	Title           string             `json:"title" validate:"required"`
	Story           string             `json:"story" validate:"required"`
	VisitedLocation models.Locations   `json:"visitedLocation" validate:"required,min=1,dive,required"`
	ImageURL        string             `json:"imageUrl"`
	VisitedDate     models.EpochMillis `json:"visitedDate"`
}

func (in storyInput) fields() models.StoryFields {
	return models.StoryFields{
		Title:           in.Title,
		Story:           in.Story,
		VisitedLocation: in.VisitedLocation,
		ImageURL:        in.ImageURL,
		VisitedDate:     in.VisitedDate.Time,
	}
}

// decodeStory reads and validates a story body. requireImage is set for add
// only; edit falls back to the placeholder image.
func decodeStory(w http.ResponseWriter, r *http.Request, requireImage bool) (storyInput, bool) {
	var input storyInput
	if !readJSON(w, r, &input, "Invalid JSON body") {
		return input, false
	}

	fields := map[string]string{}
	if err := validate.Struct(input); err != nil {
		fields = fieldErrors(err)
		if fields == nil {
			fields = map[string]string{}
		}
	}
	if input.VisitedDate.IsZero() || input.VisitedDate.Equal(time.UnixMilli(0)) {
		fields["visitedDate"] = "required"
	}
	if requireImage && input.ImageURL == "" {
		fields["imageUrl"] = "required"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "All fields are required", fields, http.StatusBadRequest)
		return input, false
	}
	return input, true
}

// requestUser returns the authenticated user id, answering 401 when absent.
func requestUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Access token required", http.StatusUnauthorized)
	}
	return userID, ok
}

// storyID parses the :id path parameter. An id that cannot exist is reported
// exactly like a story owned by somebody else.
func storyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, msgStoryNotFound, http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// ==========================
// Add Travel Story
// ==========================
func (h *StoryHandler) AddStory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	input, ok := decodeStory(w, r, true)
	if !ok {
		return
	}

	story, err := h.Repo.Create(r.Context(), userID, input.fields())
	if err != nil {
		internalError(w, r, "add story", err)
		return
	}
	metrics.IncStoryMutation("add")

	JSON(w, http.StatusCreated, map[string]interface{}{
		"story":   story,
		"message": "Added Successfully",
	})
}

// ==========================
// Get All Stories
// ==========================
func (h *StoryHandler) GetAllStories(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	stories, err := h.Repo.ListByUser(r.Context(), userID)
	if err != nil {
		internalError(w, r, "list stories", err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"stories": stories})
}

// ==========================
// Edit Story
// ==========================
func (h *StoryHandler) EditStory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := storyID(w, r)
	if !ok {
		return
	}
	input, ok := decodeStory(w, r, false)
	if !ok {
		return
	}

	story, err := h.Repo.Update(r.Context(), id, userID, input.fields())
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, msgStoryNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, r, "edit story", err)
		return
	}
	metrics.IncStoryMutation("edit")

	JSON(w, http.StatusOK, map[string]interface{}{
		"story":   story,
		"message": "Updated successfully!",
	})
}

// ==========================
// Delete Story
// ==========================
func (h *StoryHandler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := storyID(w, r)
	if !ok {
		return
	}

	story, err := h.Repo.Delete(r.Context(), id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, msgStoryNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, r, "delete story", err)
		return
	}
	metrics.IncStoryMutation("delete")

	if h.Images != nil && h.Images.Owns(story.ImageURL) {
		h.removeImage(chimw.GetReqID(r.Context()), story.ImageURL)
	}

	JSON(w, http.StatusOK, map[string]interface{}{"message": "Deleted story successfully!"})
}

// removeImage deletes a story's image in the background. Failures are only
// logged; the orphan sweep picks up anything left behind.
func (h *StoryHandler) removeImage(requestID, imageURL string) {
	run := h.detach
	if run == nil {
		run = func(fn func()) { go fn() }
	}
	run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), imageCleanupTimeout)
		defer cancel()

		err := h.Images.Delete(ctx, imageURL)
		switch {
		case err == nil:
			metrics.IncImagesDeleted("deleted")
		case errors.Is(err, images.ErrNotFound):
			metrics.IncImagesDeleted("missing")
		default:
			metrics.IncImagesDeleted("error")
			slog.Warn("delete story image failed",
				"request_id", requestID,
				"image_url", imageURL,
				"error", err,
			)
		}
	})
}

// ==========================
// Update Favourite
// ==========================
func (h *StoryHandler) UpdateFavourite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := storyID(w, r)
	if !ok {
		return
	}

	var input struct {
		IsFavourite *bool `json:"isFavourite"`
	}
	if !readJSON(w, r, &input, "isFavourite must be a boolean value") {
		return
	}
	if input.IsFavourite == nil {
		JSONError(w, "isFavourite must be a boolean value", http.StatusBadRequest)
		return
	}

	story, err := h.Repo.SetFavourite(r.Context(), id, userID, *input.IsFavourite)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, msgStoryNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, r, "update favourite", err)
		return
	}
	metrics.IncStoryMutation("favourite")

	JSON(w, http.StatusOK, map[string]interface{}{
		"story":   story,
		"message": "Updated isFavourite successfully!",
	})
}

// ==========================
// Search Stories
// ==========================
func (h *StoryHandler) SearchStories(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	query := r.URL.Query().Get("query")
	if query == "" {
		JSONError(w, "Query is required!", http.StatusBadRequest)
		return
	}

	stories, err := h.Repo.Search(r.Context(), userID, query)
	if err != nil {
		internalError(w, r, "search stories", err)
		return
	}

	if len(stories) == 0 {
		JSON(w, http.StatusOK, map[string]interface{}{
			"stories": stories,
			"message": "No matching stories found.",
		})
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"stories": stories})
}

// ==========================
// Filter By Date
// ==========================
func (h *StoryHandler) FilterByDate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	start, startErr := models.ParseEpochMillis(r.URL.Query().Get("startDate"))
	end, endErr := models.ParseEpochMillis(r.URL.Query().Get("endDate"))
	if startErr != nil || endErr != nil {
		JSONError(w, "Invalid startDate or endDate provided.", http.StatusBadRequest)
		return
	}
	if start.After(end) {
		JSON(w, http.StatusOK, map[string]interface{}{"stories": []models.Story{}})
		return
	}

	stories, err := h.Repo.FilterByDate(r.Context(), userID, start, end)
	if err != nil {
		internalError(w, r, "filter stories", err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"stories": stories})
}
