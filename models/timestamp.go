// models/timestamp.go
package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// JST is the single fixed zone every recovery-boundary comparison runs in.
// Japan has no DST, so a fixed offset is equivalent to Asia/Tokyo and needs
// no tzdata at runtime.
var JST = time.FixedZone("JST", 9*60*60)

// Timestamp is a lastChecked value: an RFC3339 string in the store, null when
// the wallet has never been through a reconciliation cycle. Unparseable legacy
// values read as null rather than failing the document.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.In(JST)}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.In(JST).Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = Timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, JST); err == nil {
			*t = Timestamp{parsed.In(JST)}
			return nil
		}
	}
	*t = Timestamp{}
	return nil
}
