package marketplace

import "errors"

// TokopediaConfig holds the credentials for one Tokopedia shop connection.
// Tokopedia API access is scoped to a fulfillment service (fs_id); the
// bearer token is minted out of band from the client ID and secret.
type TokopediaConfig struct {
	// ClientID is the Tokopedia open platform client ID
	ClientID string
	// ClientSecret is the client secret
	ClientSecret string
	// BearerToken is the OAuth bearer token
	BearerToken string
	// FsID is the fulfillment service identifier all endpoints are scoped to
	FsID string
	// ShopID is the Tokopedia shop identifier
	ShopID string
	// APIBaseURL is the base URL (production or sandbox)
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

const (
	// TokopediaProductionAPIURL is the production API endpoint
	TokopediaProductionAPIURL = "https://fs.tokopedia.net"
	// TokopediaSandboxAPIURL is the sandbox API endpoint
	TokopediaSandboxAPIURL = "https://fs-staging.tokopedia.com"
)

var (
	ErrTokopediaConfigMissingClientID = errors.New("tokopedia: client ID is required")
	ErrTokopediaConfigMissingSecret   = errors.New("tokopedia: client secret is required")
	ErrTokopediaConfigMissingFsID     = errors.New("tokopedia: fs ID is required")
	ErrTokopediaConfigMissingShopID   = errors.New("tokopedia: shop ID is required")
)

// NewTokopediaConfig creates a Tokopedia configuration with production
// defaults.
func NewTokopediaConfig(clientID, clientSecret, bearerToken, fsID, shopID string) *TokopediaConfig {
	return &TokopediaConfig{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		BearerToken:    bearerToken,
		FsID:           fsID,
		ShopID:         shopID,
		APIBaseURL:     TokopediaProductionAPIURL,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Tokopedia configuration.
func (c *TokopediaConfig) Validate() error {
	if c.ClientID == "" {
		return ErrTokopediaConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrTokopediaConfigMissingSecret
	}
	if c.FsID == "" {
		return ErrTokopediaConfigMissingFsID
	}
	if c.ShopID == "" {
		return ErrTokopediaConfigMissingShopID
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = TokopediaProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
