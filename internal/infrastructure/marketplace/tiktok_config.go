package marketplace

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
)

// TikTokConfig holds the credentials for one TikTok Shop connection.
type TikTokConfig struct {
	// AppKey is the TikTok Shop partner app key
	AppKey string
	// AppSecret is the partner app secret used for request signing
	AppSecret string
	// AccessToken is the shop-scoped OAuth access token
	AccessToken string
	// ShopCipher is the encrypted shop identifier required on shop-level calls
	ShopCipher string
	// WarehouseID is the seller warehouse stock updates are written against
	WarehouseID string
	// ShippingProviderID is the default carrier for ship calls
	ShippingProviderID string
	// APIBaseURL is the base URL (production or sandbox)
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

const (
	// TikTokProductionAPIURL is the production API endpoint
	TikTokProductionAPIURL = "https://open-api.tiktokglobalshop.com"
	// TikTokSandboxAPIURL is the sandbox API endpoint
	TikTokSandboxAPIURL = "https://open-api-sandbox.tiktokglobalshop.com"
)

var (
	ErrTikTokConfigMissingAppKey      = errors.New("tiktok: app key is required")
	ErrTikTokConfigMissingAppSecret   = errors.New("tiktok: app secret is required")
	ErrTikTokConfigMissingAccessToken = errors.New("tiktok: access token is required")
	ErrTikTokConfigMissingWarehouse   = errors.New("tiktok: warehouse ID is required")
)

// NewTikTokConfig creates a TikTok Shop configuration with production defaults.
func NewTikTokConfig(appKey, appSecret, accessToken, warehouseID string) *TikTokConfig {
	return &TikTokConfig{
		AppKey:         appKey,
		AppSecret:      appSecret,
		AccessToken:    accessToken,
		WarehouseID:    warehouseID,
		APIBaseURL:     TikTokProductionAPIURL,
		TimeoutSeconds: 30,
	}
}

// Validate validates the TikTok Shop configuration.
func (c *TikTokConfig) Validate() error {
	if c.AppKey == "" {
		return ErrTikTokConfigMissingAppKey
	}
	if c.AppSecret == "" {
		return ErrTikTokConfigMissingAppSecret
	}
	if c.AccessToken == "" {
		return ErrTikTokConfigMissingAccessToken
	}
	if c.WarehouseID == "" {
		return ErrTikTokConfigMissingWarehouse
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = TikTokProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Sign computes the request signature: HMAC-SHA256 over
// secret + path + sorted(key+value) + body + secret keyed with the app
// secret, hex-encoded. access_token and sign itself are excluded from the
// signed parameter set.
func (c *TikTokConfig) Sign(path string, params map[string]string, body []byte) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "access_token" || k == "sign" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString(c.AppSecret)
	builder.WriteString(path)
	for _, k := range keys {
		builder.WriteString(k)
		builder.WriteString(params[k])
	}
	builder.Write(body)
	builder.WriteString(c.AppSecret)

	h := hmac.New(sha256.New, []byte(c.AppSecret))
	h.Write([]byte(builder.String()))
	return hex.EncodeToString(h.Sum(nil))
}
