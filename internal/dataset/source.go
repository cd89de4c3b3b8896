package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"bjj-foundation/internal/domain"
	"bjj-foundation/internal/repository"

	"github.com/valyala/fasthttp"
)

// Source yields one collection of records in its stored order.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.VideoRecord, error)
}

// NewSource picks a source for location: http(s) URLs are fetched with client,
// anything else is read as a file.
func NewSource(location string, client *fasthttp.Client) Source {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return &HTTPSource{URL: location, client: client}
	}
	return &FileSource{Path: location}
}

type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return s.Path }

func (s *FileSource) Fetch(ctx context.Context) ([]domain.VideoRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	return decodeCollection(data)
}

type HTTPSource struct {
	URL    string
	client *fasthttp.Client
}

func (s *HTTPSource) Name() string { return s.URL }

func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.VideoRecord, error) {
	body, err := doRequest(ctx, s.client, s.URL)
	if err != nil {
		return nil, err
	}
	return decodeCollection(body)
}

func doRequest(ctx context.Context, client *fasthttp.Client, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
		}
	} else {
		if err := client.Do(req, resp); err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode())
	}

	// the body is owned by resp, which goes back to the pool
	return append([]byte(nil), resp.Body()...), nil
}

// SnapshotSource reads one collection from the sqlite snapshot.
type SnapshotSource struct {
	repo   *repository.VideoRepository
	fights bool
}

func NewSnapshotSource(repo *repository.VideoRepository, fights bool) *SnapshotSource {
	return &SnapshotSource{repo: repo, fights: fights}
}

func (s *SnapshotSource) Name() string {
	if s.fights {
		return "snapshot:fights"
	}
	return "snapshot:techniques"
}

func (s *SnapshotSource) Fetch(ctx context.Context) ([]domain.VideoRecord, error) {
	return s.repo.List(ctx, s.fights)
}

// ErrNotCollection is returned when a source's top-level JSON value is not an
// array.
var ErrNotCollection = errors.New("collection is not a JSON array")

func decodeCollection(data []byte) ([]domain.VideoRecord, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotCollection
	}
	var records []domain.VideoRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}
	return records, nil
}

// NewHTTPClient returns the fasthttp client used by HTTP sources.
func NewHTTPClient() *fasthttp.Client {
	return &fasthttp.Client{
		Name:                "bjj-foundation",
		MaxConnsPerHost:     16,
		ReadTimeout:         fetchIOTimeout,
		WriteTimeout:        fetchIOTimeout,
		MaxIdleConnDuration: idleConnDuration,
	}
}
