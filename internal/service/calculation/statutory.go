package calculation

import "github.com/shopspring/decimal"

// Statutory formulas. All functions are pure, operate on exact decimals and
// round each result to 2 decimal places before it is summed with anything
// else. Inputs are validated upstream; a negative gross here is a programming
// error, not a runtime condition.

// SocialSecurity computes the two-tier contribution on gross pay: tier 1
// rate on min(gross, tier1Limit), tier 2 rate on the slice between the tier 1
// and tier 2 limits.
func (t RateTable) SocialSecurity(gross decimal.Decimal) decimal.Decimal {
	tier1Base := decimal.Min(gross, t.SocialSecurityTier1Limit)
	tier1 := tier1Base.Mul(t.SocialSecurityTier1Rate)

	tier2Base := decimal.Min(gross, t.SocialSecurityTier2Limit).Sub(t.SocialSecurityTier1Limit)
	if tier2Base.IsNegative() {
		tier2Base = decimal.Zero
	}
	tier2 := tier2Base.Mul(t.SocialSecurityTier2Rate)

	return tier1.Add(tier2).Round(2)
}

// HealthLevy computes gross * rate floored at the configured minimum.
func (t RateTable) HealthLevy(gross decimal.Decimal) decimal.Decimal {
	levy := gross.Mul(t.HealthLevyRate).Round(2)
	if levy.LessThan(t.HealthLevyMinimum) {
		return t.HealthLevyMinimum
	}
	return levy
}

// HousingLevy computes the flat gross * rate levy.
func (t RateTable) HousingLevy(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(t.HousingLevyRate).Round(2)
}

// IncomeTax walks the ordered brackets from zero, taxing the portion of
// taxable income that falls in each, then subtracts the personal relief with
// a floor of zero. It returns the net tax and the relief actually applied.
func (t RateTable) IncomeTax(taxableIncome, personalRelief decimal.Decimal) (tax, reliefApplied decimal.Decimal) {
	grossTax := decimal.Zero
	prev := decimal.Zero

	for _, bracket := range t.TaxBrackets {
		upper := taxableIncome
		if bracket.Limit != nil {
			upper = decimal.Min(taxableIncome, *bracket.Limit)
		}
		if upper.LessThanOrEqual(prev) {
			break
		}
		grossTax = grossTax.Add(upper.Sub(prev).Mul(bracket.Rate))
		if bracket.Limit == nil {
			break
		}
		prev = *bracket.Limit
	}

	grossTax = grossTax.Round(2)
	if grossTax.LessThanOrEqual(personalRelief) {
		return decimal.Zero, grossTax
	}
	return grossTax.Sub(personalRelief).Round(2), personalRelief
}
