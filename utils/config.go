// utils/config.go
package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Store backend selectors. Exactly one backend must be fully configured.
const (
	StoreGist    = "gist"
	StoreJSONBin = "jsonbin"
	StoreR2      = "r2"
)

// Config is everything the process reads from the environment. Loaded once at
// startup; the process refuses to start on any malformed value rather than
// running half-configured.
type Config struct {
	Port            string
	BotName         string
	PollingInterval time.Duration
	AllowedOrigins  string

	ContractAddress string
	RPCURL          string
	IPFSGateway     string

	StoreBackend string

	GistID       string
	GistToken    string
	GistFileName string

	JSONBinURL    string
	JSONBinAPIKey string

	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2Bucket          string

	LineChannelSecret string
	LineChannelToken  string
	LineNotifyTo      string

	APIServiceToken string
	DatabaseURL     string
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// LoadConfig reads and validates the environment. Any error is fatal to the
// caller.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", "3000"),
		BotName:        getenv("BOT_NAME", "camera-status-bot"),
		AllowedOrigins: getenv("ALLOWED_ORIGINS", "http://localhost:3000"),

		ContractAddress: os.Getenv("CAMERA_CONTRACT_ADDRESS"),
		RPCURL:          os.Getenv("RPC_URL"),
		IPFSGateway:     getenv("IPFS_GATEWAY", "https://ipfs.io/ipfs/"),

		GistID:       os.Getenv("GIST_ID"),
		GistToken:    os.Getenv("GIST_JSON_TOKEN"),
		GistFileName: getenv("GIST_JSON_FILE_NAME", "camera-status.json"),

		JSONBinURL:    os.Getenv("JSON_BIN_STATUS_URL"),
		JSONBinAPIKey: os.Getenv("JSON_BIN_API_KEY"),

		R2AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
		R2Bucket:          os.Getenv("R2_BUCKET_NAME"),

		LineChannelSecret: os.Getenv("LINE_CHANNEL_SECRET"),
		LineChannelToken:  os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		LineNotifyTo:      os.Getenv("LINE_NOTIFY_TO"),

		APIServiceToken: os.Getenv("API_SERVICE_TOKEN"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
	}

	intervalMs := getenv("POLLING_INTERVAL_MS", "60000")
	ms, err := strconv.Atoi(intervalMs)
	if err != nil || ms <= 0 {
		return nil, fmt.Errorf("POLLING_INTERVAL_MS must be a positive integer, got %q", intervalMs)
	}
	cfg.PollingInterval = time.Duration(ms) * time.Millisecond

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC_URL is not set")
	}
	if cfg.ContractAddress == "" {
		return nil, fmt.Errorf("CAMERA_CONTRACT_ADDRESS is not set")
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("CAMERA_CONTRACT_ADDRESS %q is not a valid hex address", cfg.ContractAddress)
	}
	if cfg.LineChannelSecret == "" || cfg.LineChannelToken == "" {
		return nil, fmt.Errorf("LINE_CHANNEL_SECRET and LINE_CHANNEL_ACCESS_TOKEN must be set")
	}

	if err := cfg.resolveStoreBackend(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolveStoreBackend() error {
	var backends []string
	if c.GistID != "" || c.GistToken != "" {
		if c.GistID == "" || c.GistToken == "" {
			return fmt.Errorf("gist store needs both GIST_ID and GIST_JSON_TOKEN")
		}
		backends = append(backends, StoreGist)
	}
	if c.JSONBinURL != "" || c.JSONBinAPIKey != "" {
		if c.JSONBinURL == "" || c.JSONBinAPIKey == "" {
			return fmt.Errorf("jsonbin store needs both JSON_BIN_STATUS_URL and JSON_BIN_API_KEY")
		}
		backends = append(backends, StoreJSONBin)
	}
	if c.R2AccountID != "" || c.R2Bucket != "" {
		if c.R2AccountID == "" || c.R2AccessKeyID == "" || c.R2AccessKeySecret == "" || c.R2Bucket == "" {
			return fmt.Errorf("r2 store needs CLOUDFLARE_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_ACCESS_KEY_SECRET and R2_BUCKET_NAME")
		}
		backends = append(backends, StoreR2)
	}

	switch len(backends) {
	case 0:
		return fmt.Errorf("no document store configured: set gist, jsonbin or r2 credentials")
	case 1:
		c.StoreBackend = backends[0]
		return nil
	default:
		return fmt.Errorf("multiple document stores configured (%s), pick one", strings.Join(backends, ", "))
	}
}
