package services

import (
	"github.com/Krishnachaitanya-dev/madmax/models"
	"github.com/shopspring/decimal"
)

// Rates for retired service types that may still exist on old orders.
// These are per-kilogram and are not offered for new orders.
var legacyRates = map[string]decimal.Decimal{
	"regular":   decimal.NewFromInt(100),
	"dry_clean": decimal.NewFromInt(150),
	"express":   decimal.NewFromInt(200),
}

// Display names for the same retired service types.
var legacyNames = map[string]string{
	"regular":   "Normal Clothes Wash & Fold",
	"dry_clean": "Dry Cleaning",
	"express":   "Express Service",
}

// defaultRate applies when a service type matches neither the catalog nor
// the legacy table.
var defaultRate = decimal.NewFromInt(100)

// UnitPrice resolves the per-unit price for a service type. Resolution order:
// current catalog entry, then legacy table, then the default rate.
func UnitPrice(serviceType string) decimal.Decimal {
	if svc, ok := models.LookupService(serviceType); ok {
		return svc.Price
	}
	if rate, ok := legacyRates[serviceType]; ok {
		return rate
	}
	return defaultRate
}

// ServiceName resolves the display name for a service type, falling back to
// the legacy table and finally to the raw identifier.
func ServiceName(serviceType string) string {
	if svc, ok := models.LookupService(serviceType); ok {
		return svc.Name
	}
	if name, ok := legacyNames[serviceType]; ok {
		return name
	}
	return serviceType
}

// EstimateCost computes the cost of quantity units of a service. A zero or
// negative quantity prices to zero (submission flows validate quantity
// separately). Per-pair services charge the flat unit price regardless of
// quantity. Pure and side-effect free.
func EstimateCost(serviceType string, quantity float64) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	if svc, ok := models.LookupService(serviceType); ok && svc.Unit == models.UnitPerPair {
		return svc.Price
	}
	return decimal.NewFromFloat(quantity).Mul(UnitPrice(serviceType))
}
