// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// HTTPClient is shared by the store backends and the metadata fetcher. The
// timeout bounds every outbound call so a hung gateway can't stall a cycle.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}
