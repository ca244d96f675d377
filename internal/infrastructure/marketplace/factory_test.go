package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanerp/backend/internal/domain/integration"
)

func testStorefront(platform integration.PlatformCode) *integration.Storefront {
	return &integration.Storefront{
		ID:        7,
		Platform:  platform,
		Name:      "test shop",
		APIKey:    "key",
		APISecret: "secret",
		APIToken:  "token",
		Config: integration.StorefrontConfig{
			ShopID:      "shop-1",
			WarehouseID: "wh-1",
			FsID:        "fs-1",
		},
		IsActive: true,
	}
}

func TestFactoryClientForDispatch(t *testing.T) {
	factory := NewFactory(false)

	tests := []struct {
		platform integration.PlatformCode
	}{
		{integration.PlatformShopee},
		{integration.PlatformTikTok},
		{integration.PlatformTokopedia},
	}

	for _, tt := range tests {
		t.Run(tt.platform.String(), func(t *testing.T) {
			client, err := factory.ClientFor(testStorefront(tt.platform))
			require.NoError(t, err)
			assert.Equal(t, tt.platform, client.PlatformCode())
		})
	}
}

func TestFactoryClientForDisabledStorefront(t *testing.T) {
	factory := NewFactory(false)
	storefront := testStorefront(integration.PlatformShopee)
	storefront.IsActive = false

	_, err := factory.ClientFor(storefront)
	assert.ErrorIs(t, err, integration.ErrStorefrontDisabled)
}

func TestFactoryClientForMissingCredentials(t *testing.T) {
	factory := NewFactory(false)
	storefront := testStorefront(integration.PlatformShopee)
	storefront.APISecret = ""

	_, err := factory.ClientFor(storefront)
	assert.ErrorIs(t, err, integration.ErrPlatformAuthFailed)
}

func TestFactoryChatClientFor(t *testing.T) {
	factory := NewFactory(false)

	chat, err := factory.ChatClientFor(testStorefront(integration.PlatformShopee))
	require.NoError(t, err)
	assert.NotNil(t, chat)

	_, err = factory.ChatClientFor(testStorefront(integration.PlatformTikTok))
	assert.ErrorIs(t, err, integration.ErrCapabilityNotSupported)

	_, err = factory.ChatClientFor(testStorefront(integration.PlatformTokopedia))
	assert.ErrorIs(t, err, integration.ErrCapabilityNotSupported)
}

func TestFactorySandboxRouting(t *testing.T) {
	factory := NewFactory(true)

	config := factory.shopeeConfig(testStorefront(integration.PlatformShopee))
	assert.Equal(t, ShopeeSandboxAPIURL, config.APIBaseURL)

	tiktok := factory.tiktokConfig(testStorefront(integration.PlatformTikTok))
	assert.Equal(t, TikTokSandboxAPIURL, tiktok.APIBaseURL)

	tokopedia := factory.tokopediaConfig(testStorefront(integration.PlatformTokopedia))
	assert.Equal(t, TokopediaSandboxAPIURL, tokopedia.APIBaseURL)
}
