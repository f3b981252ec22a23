package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// RoasterConfig identifies one roaster store to ingest.
type RoasterConfig struct {
	DisplayName string `mapstructure:"name"`
	URL         string `mapstructure:"url"`
}

// CatalogFilter holds the eligibility predicate knobs for canonical offers.
type CatalogFilter struct {
	GrindOptionMatch string   `mapstructure:"grind_option_match"`
	MinGrams         int      `mapstructure:"min_grams"`
	MaxGrams         int      `mapstructure:"max_grams"`
	TitleExclusions  []string `mapstructure:"title_exclusions"`
	VendorExclusions []string `mapstructure:"vendor_exclusions"`
}

// Preferences is the operator-editable part of the configuration: which
// roasters to track, how to filter the catalog, and the purchase budget.
type Preferences struct {
	Roasters          map[string]RoasterConfig `mapstructure:"roasters"`
	MonthlyBudget     float64                  `mapstructure:"monthly_budget"`
	BudgetFlexibility float64                  `mapstructure:"budget_flexibility"`
	Catalog           CatalogFilter            `mapstructure:"catalog"`
}

// LoadPreferences reads the preferences YAML. A missing file is not an
// error; defaults cover everything except the roaster list.
func LoadPreferences(cfg Config) (Preferences, error) {
	v := viper.New()
	v.SetConfigFile(cfg.PreferencesPath)
	v.SetConfigType("yaml")

	v.SetDefault("monthly_budget", 40.0)
	v.SetDefault("budget_flexibility", 0.15)
	v.SetDefault("catalog.grind_option_match", "bean")
	v.SetDefault("catalog.min_grams", 200)
	v.SetDefault("catalog.max_grams", 250)
	v.SetDefault("catalog.title_exclusions", []string{"espresso", "subscription", "decaf", "gift card", "voucher"})
	v.SetDefault("catalog.vendor_exclusions", []string{"AAZ B2B"})

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Preferences{}, fmt.Errorf("read preferences %s: %w", cfg.PreferencesPath, err)
		}
	}

	var prefs Preferences
	if err := v.Unmarshal(&prefs); err != nil {
		return Preferences{}, fmt.Errorf("parse preferences %s: %w", cfg.PreferencesPath, err)
	}
	return prefs, nil
}
