// services/gist_store.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"camera-status-bot/models"
	"camera-status-bot/utils"
)

// GistStore keeps the document as a single file inside a GitHub Gist.
type GistStore struct {
	GistID     string
	FileName   string
	Token      string
	HTTPClient *http.Client
}

func NewGistStore(gistID, fileName, token string) *GistStore {
	return &GistStore{
		GistID:     gistID,
		FileName:   fileName,
		Token:      token,
		HTTPClient: utils.HTTPClient,
	}
}

func (s *GistStore) url() string {
	return fmt.Sprintf("https://api.github.com/gists/%s", s.GistID)
}

func (s *GistStore) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}

type gistPayload struct {
	Files map[string]gistFile `json:"files"`
}

type gistFile struct {
	Content string `json:"content"`
}

func (s *GistStore) Load(ctx context.Context) (*models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(), nil)
	if err != nil {
		return nil, fmt.Errorf("gist request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gist fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("gist fetch: status %d: %s", resp.StatusCode, body)
	}

	var gist gistPayload
	if err := json.NewDecoder(resp.Body).Decode(&gist); err != nil {
		return nil, fmt.Errorf("decode gist response: %w", err)
	}
	file, ok := gist.Files[s.FileName]
	if !ok || file.Content == "" {
		return nil, fmt.Errorf("gist has no file %q", s.FileName)
	}
	return decodeDocument([]byte(file.Content))
}

func (s *GistStore) Save(ctx context.Context, doc *models.Document) error {
	raw, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(gistPayload{
		Files: map[string]gistFile{s.FileName: {Content: string(raw)}},
	})
	if err != nil {
		return fmt.Errorf("serialize gist payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, s.url(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("gist request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("gist update: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("gist update: status %d: %s", resp.StatusCode, body)
	}
	return nil
}
