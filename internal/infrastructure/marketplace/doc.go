// Package marketplace contains the HTTP adapters for the supported
// marketplaces (Shopee, TikTok Shop, Tokopedia). Each adapter implements
// the integration.MarketplaceClient port, translates the platform's wire
// format, signs requests per the platform's scheme, and maps platform
// failures onto the integration.ErrPlatform* sentinels so the services
// above can reason about retryability without knowing the platform.
package marketplace
