package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// InvoicingConfig carries the operator-tunable invoicing settings: the VAT
// percentage pre-filled into new invoices, the currency symbol used on
// rendered documents, and the invoice code prefix.
type InvoicingConfig struct {
	DefaultVATPercentage float64 `mapstructure:"defaultVatPercentage"`
	CurrencySymbol       string  `mapstructure:"currencySymbol"`
	CodePrefix           string  `mapstructure:"codePrefix"`
}

func DefaultInvoicingConfig() InvoicingConfig {
	return InvoicingConfig{
		DefaultVATPercentage: 18,
		CurrencySymbol:       "£",
		CodePrefix:           "INV",
	}
}

// InvoicingConfigHolder exposes the current invoicing settings and swaps
// them atomically when the config file changes on disk.
type InvoicingConfigHolder struct {
	current atomic.Value // holds InvoicingConfig
}

func NewInvoicingConfigHolder() (*InvoicingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("invoicing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/folio/config") // Volume-mounted config
	v.AddConfigPath("/etc/folio")            // System config
	v.AddConfigPath(".")                     // Current directory (dev mode)

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultInvoicingConfig()
	v.SetDefault("invoicing.defaultVatPercentage", defaults.DefaultVATPercentage)
	v.SetDefault("invoicing.currencySymbol", defaults.CurrencySymbol)
	v.SetDefault("invoicing.codePrefix", defaults.CodePrefix)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg InvoicingConfig
	if err := v.UnmarshalKey("invoicing", &cfg); err != nil {
		return nil, err
	}
	if err := validateInvoicingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &InvoicingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated InvoicingConfig
		if err := v.UnmarshalKey("invoicing", &updated); err != nil {
			log.Printf("[invoicing-config] reload failed: %v", err)
			return
		}
		if err := validateInvoicingConfig(updated); err != nil {
			log.Printf("[invoicing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[invoicing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticInvoicingConfigHolder wraps a fixed config with no file watching.
func NewStaticInvoicingConfigHolder(cfg InvoicingConfig) *InvoicingConfigHolder {
	holder := &InvoicingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *InvoicingConfigHolder) Get() InvoicingConfig {
	return h.current.Load().(InvoicingConfig)
}

func validateInvoicingConfig(cfg InvoicingConfig) error {
	if cfg.DefaultVATPercentage < 0 {
		return errors.New("invoicing.defaultVatPercentage cannot be negative")
	}
	if strings.TrimSpace(cfg.CodePrefix) == "" {
		return errors.New("invoicing.codePrefix cannot be empty")
	}
	return nil
}
