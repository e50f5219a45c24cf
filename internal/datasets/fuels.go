package datasets

// Fuel categories.
const (
	CategoryGas         = "Gas"
	CategoryOil         = "Oil"
	CategorySolidFuel   = "Solid fuel"
	CategoryElectricity = "Electricity"
	CategoryGeneration  = "generation"
)

// Well-known fuel names.
const (
	MainsGas         = "Mains Gas"
	StandardTariff   = "Standard Tariff"
	GenerationFuel   = "generation"
	SevenHourLowRate = "7-Hour tariff - Low Rate"
)

// Fuel holds the price and emission factors for one fuel.
type Fuel struct {
	Category string `json:"category" yaml:"category"`

	// StandingCharge is the annual standing charge in £.
	StandingCharge float64 `json:"standingcharge" yaml:"standingcharge"`

	// FuelCost is the unit price in pence per kWh.
	FuelCost float64 `json:"fuelcost" yaml:"fuelcost"`

	// CO2Factor is kg CO2e per kWh delivered.
	CO2Factor float64 `json:"co2factor" yaml:"co2factor"`

	// PrimaryEnergyFactor is kWh primary per kWh delivered.
	PrimaryEnergyFactor float64 `json:"primaryenergyfactor" yaml:"primaryenergyfactor"`
}

// DefaultFuels returns a fresh copy of the default fuel table.
func DefaultFuels() map[string]Fuel {
	return map[string]Fuel{
		MainsGas:                     {CategoryGas, 120, 3.48, 0.216, 1.22},
		"Bulk LPG":                   {CategoryGas, 70, 7.60, 0.241, 1.09},
		"Bottled LPG":                {CategoryGas, 0, 10.30, 0.241, 1.09},
		"Heating Oil":                {CategoryOil, 0, 5.44, 0.298, 1.10},
		"House Coal":                 {CategorySolidFuel, 0, 3.67, 0.394, 1.00},
		"Wood Logs":                  {CategorySolidFuel, 0, 4.23, 0.019, 1.046},
		"Wood Pellets (bags)":        {CategorySolidFuel, 0, 5.53, 0.039, 1.325},
		StandardTariff:               {CategoryElectricity, 54, 13.19, 0.519, 3.07},
		"7-Hour tariff - High Rate":  {CategoryElectricity, 24, 15.29, 0.519, 3.07},
		SevenHourLowRate:             {CategoryElectricity, 0, 5.50, 0.519, 3.07},
		"10-Hour tariff - High Rate": {CategoryElectricity, 23, 14.68, 0.519, 3.07},
		"10-Hour tariff - Low Rate":  {CategoryElectricity, 0, 7.50, 0.519, 3.07},
		GenerationFuel:               {CategoryGeneration, 0, 13.19, 0.519, 3.07},
	}
}
