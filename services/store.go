// services/store.go
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"camera-status-bot/models"
)

// DocumentStore is the remote key-value JSON store holding the whole document.
// Every backend validates the schema on both sides of the wire: an invalid
// document aborts the operation, no partial write ever happens.
type DocumentStore interface {
	Load(ctx context.Context) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
}

// decodeDocument parses and validates raw store content.
func decodeDocument(raw []byte) (*models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("document schema: %w", err)
	}
	return &doc, nil
}

// encodeDocument validates and serializes a document for writing. Two-space
// indentation keeps the stored JSON diffable for operators.
func encodeDocument(doc *models.Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("document schema: %w", err)
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return raw, nil
}
