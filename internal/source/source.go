package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"escaperoom/pkg/models"
)

const (
	BooksDocument      = "books.json"
	DirectionsDocument = "directions.json"
)

var (
	ErrFetch  = errors.New("fetch failed")
	ErrDecode = errors.New("decode failed")
)

// Client reads the room documents from the page's origin.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 12 * time.Second},
	}
}

func (c *Client) Books(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := c.getJSON(ctx, BooksDocument, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) Directions(ctx context.Context) ([]models.Direction, error) {
	var dirs []models.Direction
	if err := c.getJSON(ctx, DirectionsDocument, &dirs); err != nil {
		return nil, err
	}
	return dirs, nil
}

func (c *Client) getJSON(ctx context.Context, doc string, out any) error {
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/" + doc

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: %w: build request: %w", doc, ErrFetch, err)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: request: %w", doc, ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w: read body: %w", doc, ErrFetch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: %w: status %d", doc, ErrFetch, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: %w: %w", doc, ErrDecode, err)
	}
	return nil
}
