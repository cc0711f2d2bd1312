package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteStore talks to an HTTP blob service. A blob is created with
// PUT <base>/todo_images/<key> carrying the raw bytes and removed with
// DELETE on the URL the service returned. Uploads are streamed straight
// from the request body; there is no temp-file staging.
type RemoteStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewRemoteStore builds a RemoteStore for the given service base URL and
// API key.
func NewRemoteStore(baseURL, apiKey string) *RemoteStore {
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Store validates the content type and uploads the blob. The service
// responds with a JSON body containing the blob's public URL.
func (s *RemoteStore) Store(ctx context.Context, ownerID uint64, r io.Reader, contentType string) (string, error) {
	ext, err := extForType(contentType)
	if err != nil {
		return "", err
	}
	key := newKey(ownerID) + ext

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		s.baseURL+"/"+imagesSubdir+"/"+key, r)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("blob service: upload returned %s", resp.Status)
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("blob service: decode response: %w", err)
	}
	if body.URL == "" {
		return "", fmt.Errorf("blob service: response missing url")
	}
	return body.URL, nil
}

// Delete removes the blob behind a URL returned by Store. A 404 from the
// service means the blob is already gone and counts as success.
func (s *RemoteStore) Delete(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound || (resp.StatusCode >= 200 && resp.StatusCode <= 299) {
		return nil
	}
	return fmt.Errorf("blob service: delete returned %s", resp.Status)
}
