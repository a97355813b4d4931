package ingest

import "strings"

// Item is implemented by every input record variant.
type Item interface {
	// Identifier returns the required identifying field.
	Identifier() string
}

// Material is a construction material line item. Name is required; nil
// attributes mean "no data".
type Material struct {
	Name            string   `json:"name"                      yaml:"name"`
	Type            *string  `json:"type,omitempty"            yaml:"type,omitempty"`
	Quantity        *float64 `json:"quantity,omitempty"        yaml:"quantity,omitempty"`
	Unit            *string  `json:"unit,omitempty"            yaml:"unit,omitempty"`
	EmbodiedCarbon  *float64 `json:"embodiedCarbon,omitempty"  yaml:"embodiedCarbon,omitempty"`
	RecycledContent *float64 `json:"recycledContent,omitempty" yaml:"recycledContent,omitempty"`
	LocallySourced  *bool    `json:"locallySourced,omitempty"  yaml:"locallySourced,omitempty"`
	Supplier        *string  `json:"supplier,omitempty"        yaml:"supplier,omitempty"`
	Recyclable      *bool    `json:"recyclable,omitempty"      yaml:"recyclable,omitempty"`
}

// Identifier implements Item.
func (m Material) Identifier() string { return m.Name }

// Transport is a single transport leg. Type is required.
type Transport struct {
	Type            string   `json:"type"                      yaml:"type"`
	Distance        *float64 `json:"distance,omitempty"        yaml:"distance,omitempty"`
	FuelType        *string  `json:"fuelType,omitempty"        yaml:"fuelType,omitempty"`
	EmissionsFactor *float64 `json:"emissionsFactor,omitempty" yaml:"emissionsFactor,omitempty"`
	CarbonFootprint *float64 `json:"carbonFootprint,omitempty" yaml:"carbonFootprint,omitempty"`
	IsElectric      *bool    `json:"isElectric,omitempty"      yaml:"isElectric,omitempty"`
	Weight          *float64 `json:"weight,omitempty"          yaml:"weight,omitempty"`
	LoadFactor      *float64 `json:"loadFactor,omitempty"      yaml:"loadFactor,omitempty"`
}

// Identifier implements Item.
func (t Transport) Identifier() string { return t.Type }

// Energy is an energy source. Source is required.
type Energy struct {
	Source          string   `json:"source"                    yaml:"source"`
	Consumption     *float64 `json:"consumption,omitempty"     yaml:"consumption,omitempty"`
	Unit            *string  `json:"unit,omitempty"            yaml:"unit,omitempty"`
	CarbonIntensity *float64 `json:"carbonIntensity,omitempty" yaml:"carbonIntensity,omitempty"`
	Renewable       *bool    `json:"renewable,omitempty"       yaml:"renewable,omitempty"`
	Efficiency      *float64 `json:"efficiency,omitempty"      yaml:"efficiency,omitempty"`
	Cost            *float64 `json:"cost,omitempty"            yaml:"cost,omitempty"`
	Provider        *string  `json:"provider,omitempty"        yaml:"provider,omitempty"`
}

// Identifier implements Item.
func (e Energy) Identifier() string { return e.Source }

// Lower returns the lower-cased value of an optional string, or "".
func Lower(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToLower(*s)
}
