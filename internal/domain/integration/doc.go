// Package integration contains the domain model for multi-marketplace
// commerce synchronization: storefront connections, the mapping records
// that tie ERP entities to their external identifiers, and the port
// interfaces implemented by the marketplace adapters in the
// infrastructure layer (Shopee, TikTok Shop, Tokopedia).
//
// The package follows the Ports & Adapters pattern: everything here is
// either an entity, a value object, or an interface. Concrete HTTP
// clients live in internal/infrastructure/marketplace.
package integration
