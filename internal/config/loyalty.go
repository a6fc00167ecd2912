package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// LoyaltyConfig holds the cashback rules applied at checkout.
type LoyaltyConfig struct {
	// AmountPerPoint is the spend (after discount) that earns one point.
	AmountPerPoint decimal.Decimal `mapstructure:"amountPerPoint"`
	// PointValue is the currency value of one redeemed point.
	PointValue decimal.Decimal `mapstructure:"pointValue"`
}

func DefaultLoyaltyConfig() LoyaltyConfig {
	return LoyaltyConfig{
		AmountPerPoint: decimal.NewFromInt(50),
		PointValue:     decimal.NewFromInt(1),
	}
}

type LoyaltyConfigHolder struct {
	current atomic.Value // holds LoyaltyConfig
}

// NewStaticLoyaltyConfigHolder returns a holder that never reloads.
func NewStaticLoyaltyConfigHolder(cfg LoyaltyConfig) *LoyaltyConfigHolder {
	holder := &LoyaltyConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewLoyaltyConfigHolder() (*LoyaltyConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("loyalty")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/casaelar")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CASAELAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultLoyaltyConfig()
	v.SetDefault("loyalty.amountPerPoint", defaults.AmountPerPoint.String())
	v.SetDefault("loyalty.pointValue", defaults.PointValue.String())

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileLoaded = false
	}

	cfg, err := readLoyaltyConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticLoyaltyConfigHolder(cfg)

	if fileLoaded {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := readLoyaltyConfig(v)
			if err != nil {
				log.Printf("[loyalty-config] invalid config ignored: %v", err)
				return
			}
			holder.current.Store(updated)
			log.Printf("[loyalty-config] reloaded from %s", e.Name)
		})
	}

	return holder, nil
}

func (h *LoyaltyConfigHolder) Get() LoyaltyConfig {
	if h == nil {
		return DefaultLoyaltyConfig()
	}
	cfg, ok := h.current.Load().(LoyaltyConfig)
	if !ok {
		return DefaultLoyaltyConfig()
	}
	return cfg
}

func readLoyaltyConfig(v *viper.Viper) (LoyaltyConfig, error) {
	amountPerPoint, err := decimal.NewFromString(strings.TrimSpace(v.GetString("loyalty.amountPerPoint")))
	if err != nil {
		return LoyaltyConfig{}, errors.New("loyalty.amountPerPoint must be a decimal")
	}
	pointValue, err := decimal.NewFromString(strings.TrimSpace(v.GetString("loyalty.pointValue")))
	if err != nil {
		return LoyaltyConfig{}, errors.New("loyalty.pointValue must be a decimal")
	}
	cfg := LoyaltyConfig{AmountPerPoint: amountPerPoint, PointValue: pointValue}
	if err := validateLoyaltyConfig(cfg); err != nil {
		return LoyaltyConfig{}, err
	}
	return cfg, nil
}

func validateLoyaltyConfig(cfg LoyaltyConfig) error {
	if !cfg.AmountPerPoint.IsPositive() {
		return errors.New("loyalty.amountPerPoint must be positive")
	}
	if !cfg.PointValue.IsPositive() {
		return errors.New("loyalty.pointValue must be positive")
	}
	return nil
}
