package models

import "github.com/shopspring/decimal"

// Pricing units for catalog services.
const (
	UnitPerKg   = "/kg"
	UnitPerPair = "/pair"
)

// Service is one entry of the fixed laundry service catalog. The catalog is
// compile-time static; there is no dynamic service creation.
type Service struct {
	ServiceType string          `json:"service_type"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"` // INR per unit
	Unit        string          `json:"unit"`
	Description string          `json:"description"`
	Popular     bool            `json:"popular,omitempty"`
}

// Services is the closed six-entry catalog offered to customers.
var Services = []Service{
	{
		ServiceType: "wash_fold",
		Name:        "Normal Clothes Wash & Fold",
		Price:       decimal.NewFromInt(100),
		Unit:        UnitPerKg,
		Description: "Advanced wash, stain pre-treat, free pickup & delivery, 24 h turnaround",
	},
	{
		ServiceType: "wash_iron",
		Name:        "Normal Clothes Wash & Steam Iron",
		Price:       decimal.NewFromInt(150),
		Unit:        UnitPerKg,
		Description: "Steam iron, fabric softener, express 24 h, precise ironing",
		Popular:     true,
	},
	{
		ServiceType: "bedsheets",
		Name:        "Bedsheets - Wash & Fold",
		Price:       decimal.NewFromInt(130),
		Unit:        UnitPerKg,
		Description: "Professional cleaning for all types of bedsheets",
	},
	{
		ServiceType: "quilts",
		Name:        "Quilts - Wash & Fold",
		Price:       decimal.NewFromInt(150),
		Unit:        UnitPerKg,
		Description: "Deep cleaning for quilts and comforters",
	},
	{
		ServiceType: "curtains",
		Name:        "Curtains - Wash & Fold",
		Price:       decimal.NewFromInt(140),
		Unit:        UnitPerKg,
		Description: "Specialized cleaning for all types of curtains",
	},
	{
		ServiceType: "shoes",
		Name:        "Shoes",
		Price:       decimal.NewFromInt(250),
		Unit:        UnitPerPair,
		Description: "Detailed finishing & fabric protection",
	},
}

// LookupService finds a catalog entry by its service type identifier.
func LookupService(serviceType string) (Service, bool) {
	for _, s := range Services {
		if s.ServiceType == serviceType {
			return s, true
		}
	}
	return Service{}, false
}
