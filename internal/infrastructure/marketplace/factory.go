package marketplace

import (
	"github.com/oceanerp/backend/internal/domain/integration"
)

// Factory builds platform clients from storefront rows. It is the single
// place the generic (api_key, api_secret, api_token, config) credential shape
// is translated into each platform's native credential object.
type Factory struct {
	// sandbox forces every built client onto the platform sandbox endpoints
	sandbox bool
}

// NewFactory creates a client factory. sandbox routes all clients to the
// platforms' sandbox endpoints regardless of per-storefront config.
func NewFactory(sandbox bool) *Factory {
	return &Factory{sandbox: sandbox}
}

// ClientFor returns a MarketplaceClient bound to the storefront's
// credentials.
func (f *Factory) ClientFor(storefront *integration.Storefront) (integration.MarketplaceClient, error) {
	if !storefront.IsActive {
		return nil, integration.ErrStorefrontDisabled
	}
	if err := storefront.Validate(); err != nil {
		return nil, err
	}

	switch storefront.Platform {
	case integration.PlatformShopee:
		return NewShopeeClient(f.shopeeConfig(storefront))
	case integration.PlatformTikTok:
		return NewTikTokClient(f.tiktokConfig(storefront))
	case integration.PlatformTokopedia:
		return NewTokopediaClient(f.tokopediaConfig(storefront))
	default:
		return nil, integration.ErrMappingInvalidPlatform
	}
}

// ChatClientFor returns a ChatClient bound to the storefront's credentials.
// Only Shopee exposes a chat API.
func (f *Factory) ChatClientFor(storefront *integration.Storefront) (integration.ChatClient, error) {
	if !storefront.IsActive {
		return nil, integration.ErrStorefrontDisabled
	}
	if err := storefront.Validate(); err != nil {
		return nil, err
	}

	if storefront.Platform != integration.PlatformShopee {
		return nil, integration.ErrCapabilityNotSupported
	}
	return NewShopeeClient(f.shopeeConfig(storefront))
}

// shopeeConfig maps the generic storefront credentials onto Shopee's
// partner-id/partner-key shape.
func (f *Factory) shopeeConfig(s *integration.Storefront) *ShopeeConfig {
	config := NewShopeeConfig(s.APIKey, s.APISecret, s.APIToken, s.Config.ShopID)
	if f.sandbox || s.Config.Sandbox {
		config.APIBaseURL = ShopeeSandboxAPIURL
	}
	return config
}

// tiktokConfig maps the generic storefront credentials onto TikTok Shop's
// app-key/app-secret shape.
func (f *Factory) tiktokConfig(s *integration.Storefront) *TikTokConfig {
	config := NewTikTokConfig(s.APIKey, s.APISecret, s.APIToken, s.Config.WarehouseID)
	config.ShopCipher = s.Config.ShopID
	config.ShippingProviderID = s.Config.ShippingProviderID
	if f.sandbox || s.Config.Sandbox {
		config.APIBaseURL = TikTokSandboxAPIURL
	}
	return config
}

// tokopediaConfig maps the generic storefront credentials onto Tokopedia's
// client-id/client-secret shape.
func (f *Factory) tokopediaConfig(s *integration.Storefront) *TokopediaConfig {
	config := NewTokopediaConfig(s.APIKey, s.APISecret, s.APIToken, s.Config.FsID, s.Config.ShopID)
	if f.sandbox || s.Config.Sandbox {
		config.APIBaseURL = TokopediaSandboxAPIURL
	}
	return config
}

// Ensure Factory implements the factory port
var _ integration.ClientFactory = (*Factory)(nil)
