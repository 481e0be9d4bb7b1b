// Package client is a small HTTP client for the travel journal API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/crucial707/travel-journal/cmd/cli/config"
	"github.com/crucial707/travel-journal/internal/models"
)

// APIError is a non-2xx answer, or a 200 flagged with "error": true.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Message)
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New returns a client for config.APIURL() carrying token.
func New(token string) *Client {
	return &Client{
		BaseURL: config.APIURL(),
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Authenticated loads the saved token.
func Authenticated() (*Client, error) {
	token, err := config.LoadToken()
	if err != nil {
		return nil, err
	}
	return New(token), nil
}

type envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Do sends payload as JSON (when non-nil) and decodes the response into out.
func (c *Client) Do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	_ = json.Unmarshal(data, &env)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices || env.Error {
		msg := env.Message
		if msg == "" {
			msg = string(bytes.TrimSpace(data))
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

// ==========================
// Typed calls
// ==========================

type AuthResponse struct {
	Message     string         `json:"message"`
	AccessToken string         `json:"accessToken"`
	User        models.Profile `json:"user"`
}

func (c *Client) Signup(ctx context.Context, fullName, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.Do(ctx, http.MethodPost, "/create-account", map[string]string{
		"fullName": fullName, "email": email, "password": password,
	}, &out)
	return &out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.Do(ctx, http.MethodPost, "/login", map[string]string{"email": email, "password": password}, &out)
	return &out, err
}

func (c *Client) GetUser(ctx context.Context) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	err := c.Do(ctx, http.MethodGet, "/get-user", nil, &out)
	return &out.User, err
}

// StoryInput is the body of add and edit requests.
type StoryInput struct {
	Title           string   `json:"title"`
	Story           string   `json:"story"`
	VisitedLocation []string `json:"visitedLocation"`
	ImageURL        string   `json:"imageUrl"`
	VisitedDate     int64    `json:"visitedDate"`
}

type storyResponse struct {
	Story   models.Story `json:"story"`
	Message string       `json:"message"`
}

type storiesResponse struct {
	Stories []models.Story `json:"stories"`
	Message string         `json:"message"`
}

func (c *Client) ListStories(ctx context.Context) ([]models.Story, error) {
	var out storiesResponse
	err := c.Do(ctx, http.MethodGet, "/get-all-stories", nil, &out)
	return out.Stories, err
}

func (c *Client) AddStory(ctx context.Context, in StoryInput) (*models.Story, error) {
	var out storyResponse
	err := c.Do(ctx, http.MethodPost, "/add-travel-story", in, &out)
	return &out.Story, err
}

func (c *Client) EditStory(ctx context.Context, id string, in StoryInput) (*models.Story, error) {
	var out storyResponse
	err := c.Do(ctx, http.MethodPost, "/edit-story/"+url.PathEscape(id), in, &out)
	return &out.Story, err
}

func (c *Client) DeleteStory(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, "/delete-story/"+url.PathEscape(id), nil, nil)
}

func (c *Client) SetFavourite(ctx context.Context, id string, favourite bool) (*models.Story, error) {
	var out storyResponse
	err := c.Do(ctx, http.MethodPut, "/update-favourite/"+url.PathEscape(id), map[string]bool{"isFavourite": favourite}, &out)
	return &out.Story, err
}

func (c *Client) SearchStories(ctx context.Context, query string) ([]models.Story, error) {
	var out storiesResponse
	err := c.Do(ctx, http.MethodGet, "/search-story?query="+url.QueryEscape(query), nil, &out)
	return out.Stories, err
}

func (c *Client) FilterStories(ctx context.Context, startMillis, endMillis int64) ([]models.Story, error) {
	q := url.Values{}
	q.Set("startDate", fmt.Sprint(startMillis))
	q.Set("endDate", fmt.Sprint(endMillis))
	var out storiesResponse
	err := c.Do(ctx, http.MethodGet, "/filter-by-date?"+q.Encode(), nil, &out)
	return out.Stories, err
}

// UploadImage sends the file at path as the multipart field "image".
func (c *Client) UploadImage(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/image-upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	return out.ImageURL, nil
}

func (c *Client) DeleteImage(ctx context.Context, imageURL string) error {
	return c.Do(ctx, http.MethodDelete, "/delete-image?imageUrl="+url.QueryEscape(imageURL), nil, nil)
}
