package enums

import "fmt"

type ShippingCountry string

const (
	ShippingCountryUnitedStates  ShippingCountry = "United States"
	ShippingCountryCanada        ShippingCountry = "Canada"
	ShippingCountryUnitedKingdom ShippingCountry = "United Kingdom"
)

// DefaultShippingCountry is preselected on the shipping form.
const DefaultShippingCountry = ShippingCountryUnitedStates

var validShippingCountries = []ShippingCountry{
	ShippingCountryUnitedStates,
	ShippingCountryCanada,
	ShippingCountryUnitedKingdom,
}

func (c ShippingCountry) String() string {
	return string(c)
}

func (c ShippingCountry) IsValid() bool {
	for _, candidate := range validShippingCountries {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseShippingCountry converts raw input into a ShippingCountry; empty input yields the default.
func ParseShippingCountry(value string) (ShippingCountry, error) {
	if value == "" {
		return DefaultShippingCountry, nil
	}
	for _, candidate := range validShippingCountries {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unsupported shipping country %q", value)
}
