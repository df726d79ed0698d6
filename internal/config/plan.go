package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PlanConfig describes the single premium subscription product. Amount is in
// the minor currency unit and is server-fixed; it is never taken from the
// client.
type PlanConfig struct {
	Amount   int64  `mapstructure:"amount"`
	Currency string `mapstructure:"currency"`
}

func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		Amount:   2900,
		Currency: "INR",
	}
}

type PlanConfigHolder struct {
	current atomic.Value // holds PlanConfig
}

func NewPlanConfigHolder() (*PlanConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("plan")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/deckdrop")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DECKDROP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPlanConfig()
		v.SetDefault("plan.amount", defaults.Amount)
		v.SetDefault("plan.currency", defaults.Currency)
	}

	var cfg PlanConfig
	if err := v.UnmarshalKey("plan", &cfg); err != nil {
		return nil, err
	}
	if err := validatePlanConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PlanConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PlanConfig
		if err := v.UnmarshalKey("plan", &updated); err != nil {
			log.Printf("[plan-config] reload failed: %v", err)
			return
		}
		if err := validatePlanConfig(updated); err != nil {
			log.Printf("[plan-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[plan-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// StaticPlanConfigHolder wraps a fixed plan, bypassing file loading. Used
// by tests and tools.
func StaticPlanConfigHolder(cfg PlanConfig) *PlanConfigHolder {
	holder := &PlanConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PlanConfigHolder) Get() PlanConfig {
	return h.current.Load().(PlanConfig)
}

func validatePlanConfig(cfg PlanConfig) error {
	if cfg.Amount <= 0 {
		return errors.New("plan.amount must be positive")
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		return errors.New("plan.currency cannot be empty")
	}
	return nil
}
