// services/jsonbin_store.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"camera-status-bot/models"
	"camera-status-bot/utils"
)

// JSONBinStore keeps the document in a JSONBin bin. GET reads from /latest
// and unwraps the "record" envelope, PUT fully replaces the bin.
type JSONBinStore struct {
	BinURL     string
	APIKey     string
	HTTPClient *http.Client
}

func NewJSONBinStore(binURL, apiKey string) *JSONBinStore {
	return &JSONBinStore{
		BinURL:     strings.TrimRight(binURL, "/"),
		APIKey:     apiKey,
		HTTPClient: utils.HTTPClient,
	}
}

func (s *JSONBinStore) Load(ctx context.Context) (*models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BinURL+"/latest", nil)
	if err != nil {
		return nil, fmt.Errorf("jsonbin request: %w", err)
	}
	req.Header.Set("X-Master-Key", s.APIKey)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsonbin fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jsonbin read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jsonbin fetch: status %d: %s", resp.StatusCode, body)
	}

	var envelope struct {
		Record json.RawMessage `json:"record"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Record) > 0 {
		return decodeDocument(envelope.Record)
	}
	// Some bins answer without the envelope; take the body as-is.
	return decodeDocument(body)
}

func (s *JSONBinStore) Save(ctx context.Context, doc *models.Document) error {
	raw, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.BinURL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("jsonbin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Master-Key", s.APIKey)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("jsonbin update: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("jsonbin update: status %d: %s", resp.StatusCode, body)
	}
	return nil
}
