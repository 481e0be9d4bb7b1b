package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Story struct {
	ID              uuid.UUID `json:"_id"`
	Title           string    `json:"title"`
	Story           string    `json:"story"`
	VisitedLocation []string  `json:"visitedLocation"`
	ImageURL        string    `json:"imageUrl"`
	VisitedDate     time.Time `json:"visitedDate"`
	IsFavourite     bool      `json:"isFavourite"`
	UserID          uuid.UUID `json:"userId"`
	CreatedOn       time.Time `json:"createdOn"`
}

// StoryFields carries the user-editable part of a story.
type StoryFields struct {
	Title           string
	Story           string
	VisitedLocation []string
	ImageURL        string
	VisitedDate     time.Time
}

// Locations decodes either a single JSON string or an array of strings,
// always yielding a slice.
type Locations []string

func (l *Locations) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*l = Locations{}
			return nil
		}
		*l = Locations{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.New("visitedLocation must be a string or an array of strings")
	}
	*l = list
	return nil
}

// EpochMillis is a timestamp sent as milliseconds since the Unix epoch, either
// as a JSON number or as a numeric string.
type EpochMillis struct {
	time.Time
}

func (e *EpochMillis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		e.Time = time.Time{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			e.Time = time.Time{}
			return nil
		}
		data = []byte(s)
	}
	t, err := ParseEpochMillis(string(data))
	if err != nil {
		return err
	}
	e.Time = t
	return nil
}

// MaxEpochMillis bounds timestamps to ±100,000,000 days around the epoch.
const MaxEpochMillis = 8.64e15

// ParseEpochMillis parses a decimal millisecond timestamp. Fractional parts are truncated.
func ParseEpochMillis(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > MaxEpochMillis {
		return time.Time{}, errors.New("timestamp must be milliseconds since epoch")
	}
	return time.UnixMilli(int64(f)).UTC(), nil
}
