package marketplace

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ShopeeConfig holds the credentials for one Shopee shop connection.
type ShopeeConfig struct {
	// PartnerID is the Shopee open platform partner ID
	PartnerID string
	// PartnerKey is the partner secret used for request signing
	PartnerKey string
	// AccessToken is the shop-scoped OAuth access token
	AccessToken string
	// ShopID is the Shopee shop identifier
	ShopID string
	// APIBaseURL is the base URL (production or sandbox)
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

const (
	// ShopeeProductionAPIURL is the production API endpoint
	ShopeeProductionAPIURL = "https://partner.shopeemobile.com"
	// ShopeeSandboxAPIURL is the sandbox API endpoint
	ShopeeSandboxAPIURL = "https://partner.test-stable.shopeemobile.com"
)

var (
	ErrShopeeConfigMissingPartnerID  = errors.New("shopee: partner ID is required")
	ErrShopeeConfigMissingPartnerKey = errors.New("shopee: partner key is required")
	ErrShopeeConfigMissingShopID     = errors.New("shopee: shop ID is required")
)

// NewShopeeConfig creates a Shopee configuration with production defaults.
func NewShopeeConfig(partnerID, partnerKey, accessToken, shopID string) *ShopeeConfig {
	return &ShopeeConfig{
		PartnerID:      partnerID,
		PartnerKey:     partnerKey,
		AccessToken:    accessToken,
		ShopID:         shopID,
		APIBaseURL:     ShopeeProductionAPIURL,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Shopee configuration.
func (c *ShopeeConfig) Validate() error {
	if c.PartnerID == "" {
		return ErrShopeeConfigMissingPartnerID
	}
	if c.PartnerKey == "" {
		return ErrShopeeConfigMissingPartnerKey
	}
	if c.ShopID == "" {
		return ErrShopeeConfigMissingShopID
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = ShopeeProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Sign computes the shop-level request signature: HMAC-SHA256 over
// partner_id + path + timestamp + access_token + shop_id keyed with the
// partner key, hex-encoded.
func (c *ShopeeConfig) Sign(path string, timestamp int64) string {
	base := fmt.Sprintf("%s%s%d%s%s", c.PartnerID, path, timestamp, c.AccessToken, c.ShopID)
	h := hmac.New(sha256.New, []byte(c.PartnerKey))
	h.Write([]byte(base))
	return hex.EncodeToString(h.Sum(nil))
}
