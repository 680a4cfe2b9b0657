// internal/finance/impact.go
package finance

import "github.com/shopspring/decimal"

// Rates holds the per-unit conversion constants used to translate a
// currency amount into impact metrics.
type Rates struct {
	TreeCost       decimal.Decimal // Cost of planting one tree
	AnimalFeedCost decimal.Decimal // Cost of feeding one animal
	HabitatCost    decimal.Decimal // Cost of protecting one habitat
	CO2PerUnit     decimal.Decimal // Kilograms of CO2 offset per currency unit
}

// DefaultRates returns the standard conversion table.
func DefaultRates() Rates {
	return Rates{
		TreeCost:       decimal.NewFromInt(10),
		AnimalFeedCost: decimal.NewFromInt(5),
		HabitatCost:    decimal.NewFromInt(50),
		CO2PerUnit:     decimal.NewFromInt(2),
	}
}

// ImpactResult holds the impact metrics derived from a currency amount.
// The counts are independent framings of the same amount, each computed
// from the full amount, not a partition of it: Trees*TreeCost will
// generally not sum with AnimalsFed*AnimalFeedCost back to the input.
type ImpactResult struct {
	Trees             int64           `json:"trees"`
	AnimalsFed        int64           `json:"animals_fed"`
	HabitatsProtected int64           `json:"habitats_protected"`
	CO2OffsetKg       decimal.Decimal `json:"co2_offset_kg"`
}

// Add returns the element-wise sum of two results.
func (r ImpactResult) Add(other ImpactResult) ImpactResult {
	return ImpactResult{
		Trees:             r.Trees + other.Trees,
		AnimalsFed:        r.AnimalsFed + other.AnimalsFed,
		HabitatsProtected: r.HabitatsProtected + other.HabitatsProtected,
		CO2OffsetKg:       r.CO2OffsetKg.Add(other.CO2OffsetKg),
	}
}

// Converter translates currency amounts into impact metrics using a fixed
// rate table. The zero Converter is not usable; construct with NewConverter.
type Converter struct {
	rates Rates
}

// NewConverter creates a Converter with the given rates.
func NewConverter(rates Rates) Converter {
	return Converter{rates: rates}
}

// ToImpact converts a currency amount into impact metrics. Non-positive
// amounts yield the all-zero result; counts are never negative.
func (c Converter) ToImpact(amount decimal.Decimal) ImpactResult {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ImpactResult{CO2OffsetKg: decimal.Zero}
	}
	return ImpactResult{
		Trees:             unitsFor(amount, c.rates.TreeCost),
		AnimalsFed:        unitsFor(amount, c.rates.AnimalFeedCost),
		HabitatsProtected: unitsFor(amount, c.rates.HabitatCost),
		CO2OffsetKg:       amount.Mul(c.rates.CO2PerUnit).Round(1),
	}
}

// unitsFor floors amount/cost, guarding against a non-positive cost.
func unitsFor(amount, cost decimal.Decimal) int64 {
	if cost.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return amount.Div(cost).Floor().IntPart()
}
