package booking

import (
	"strings"

	"schooltrip/models"
)

// Menu is one of the fixed per-person food options.
type Menu struct {
	ID             string  `json:"id"`
	Label          string  `json:"label"`
	PricePerPerson float64 `json:"pricePerPerson"`
}

const DefaultMenuID = "standard"

var menus = []Menu{
	{ID: "standard", Label: "Standard Menu", PricePerPerson: 12},
	{ID: "premium", Label: "Premium Feast", PricePerPerson: 20},
	{ID: "eco", Label: "Eco/Organic", PricePerPerson: 15},
}

// Menus returns the menu table in display order.
func Menus() []Menu {
	out := make([]Menu, len(menus))
	copy(out, menus)
	return out
}

// LookupMenu finds a menu by id or display label, ignoring case.
func LookupMenu(key string) (Menu, bool) {
	key = strings.TrimSpace(key)
	for _, m := range menus {
		if strings.EqualFold(m.ID, key) || strings.EqualFold(m.Label, key) {
			return m, true
		}
	}
	return Menu{}, false
}

// Quote prices a trip: (basePrice + menu) per head. A nil menu means no catering.
func Quote(basePrice float64, menu *Menu, p models.Participants) (total, food float64) {
	heads := float64(p.Total())
	if menu != nil {
		food = menu.PricePerPerson * heads
	}
	total = basePrice*heads + food
	return total, food
}
