package calculation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wagecore/payroll-backend-go/internal/config"
)

// TaxBracket taxes the portion of income between the previous bracket's limit
// and Limit at Rate. A nil Limit marks the unbounded top bracket.
type TaxBracket struct {
	Limit *decimal.Decimal
	Rate  decimal.Decimal
}

// RateTable is a versioned snapshot of the statutory rates a payroll run is
// computed against.
type RateTable struct {
	Version                  string
	SocialSecurityTier1Limit decimal.Decimal
	SocialSecurityTier1Rate  decimal.Decimal
	SocialSecurityTier2Limit decimal.Decimal
	SocialSecurityTier2Rate  decimal.Decimal
	HealthLevyRate           decimal.Decimal
	HealthLevyMinimum        decimal.Decimal
	HousingLevyRate          decimal.Decimal
	PersonalRelief           decimal.Decimal
	TaxBrackets              []TaxBracket
}

// RateTableFromConfig builds the rate table from the statutory configuration,
// parsing the bracket list ("limit:rate,...,inf:rate", limits ascending).
func RateTableFromConfig(cfg config.StatutoryConfig) (RateTable, error) {
	table := RateTable{
		Version:                  cfg.RateTableVersion,
		SocialSecurityTier1Limit: cfg.SocialSecurityTier1Limit,
		SocialSecurityTier1Rate:  cfg.SocialSecurityTier1Rate,
		SocialSecurityTier2Limit: cfg.SocialSecurityTier2Limit,
		SocialSecurityTier2Rate:  cfg.SocialSecurityTier2Rate,
		HealthLevyRate:           cfg.HealthLevyRate,
		HealthLevyMinimum:        cfg.HealthLevyMinimum,
		HousingLevyRate:          cfg.HousingLevyRate,
		PersonalRelief:           cfg.PersonalRelief,
	}

	var prevLimit *decimal.Decimal
	for _, pair := range strings.Split(cfg.TaxBrackets, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			return RateTable{}, fmt.Errorf("invalid tax bracket %q", pair)
		}

		rate, err := decimal.NewFromString(parts[1])
		if err != nil {
			return RateTable{}, fmt.Errorf("invalid tax bracket rate %q: %w", parts[1], err)
		}

		bracket := TaxBracket{Rate: rate}
		if parts[0] != "inf" {
			limit, err := decimal.NewFromString(parts[0])
			if err != nil {
				return RateTable{}, fmt.Errorf("invalid tax bracket limit %q: %w", parts[0], err)
			}
			if prevLimit != nil && limit.LessThanOrEqual(*prevLimit) {
				return RateTable{}, fmt.Errorf("tax bracket limits must be ascending, got %s after %s", limit, prevLimit)
			}
			bracket.Limit = &limit
			prevLimit = &limit
		}
		table.TaxBrackets = append(table.TaxBrackets, bracket)
	}

	if len(table.TaxBrackets) == 0 {
		return RateTable{}, fmt.Errorf("at least one tax bracket is required")
	}

	return table, nil
}
