package handlers

import (
	"schooltrip/middleware"
)

// HandlerBundle groups all endpoint handlers and what the route guards need.
type HandlerBundle struct {
	Tokens middleware.TokenValidator
	Users  middleware.UserLoader

	Catalog  *CatalogHandler
	Bookings *BookingHandler
	Wizard   *WizardHandler
	Auth     *AuthHandler
	AI       *AIHandler
	Webhook  *WebhookHandler
	Admin    *AdminHandler
	Storage  *StorageHandler
}
