package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Metadata describes an ingested document.
type Metadata struct {
	Source    string `json:"source,omitempty"`
	Format    string `json:"format"`
	Timestamp string `json:"timestamp"` // RFC3339
	Hash      string `json:"hash"`      // SHA256 hex digest of the extracted text
	Chars     int    `json:"chars"`
}

// NewMetadata records the provenance of extracted text.
func NewMetadata(text string, format Format, source string) *Metadata {
	return &Metadata{
		Source:    source,
		Format:    string(format),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(text),
		Chars:     len(text),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals the metadata as indented JSON.
func (m *Metadata) ToJSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
