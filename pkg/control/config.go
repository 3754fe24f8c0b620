package control

import (
	"fmt"
	"time"
)

// DomainConfig holds the per-domain thresholds. It is supplied at construction
// and immutable for the engine's lifetime; hot-reload is an explicit non-goal.
type DomainConfig struct {
	// TriggerThreshold is the metric value at which the domain's evaluator fires.
	TriggerThreshold float64 `yaml:"trigger_threshold"`

	// MaxAdjustment caps the absolute adjustment magnitude per decision.
	MaxAdjustment float64 `yaml:"max_adjustment"`

	// MinConfidence gates the evaluator; proposals below it are not emitted.
	MinConfidence float64 `yaml:"min_confidence"`

	// Cooldown is the minimum time between two applied decisions in this
	// domain. Zero means the global default from SafetyRails applies.
	Cooldown time.Duration `yaml:"cooldown"`

	// Scale converts trigger excess into adjustment magnitude before capping.
	Scale float64 `yaml:"scale"`
}

// SafetyRails are the global, domain-independent constraints that gate every
// decision regardless of domain logic.
type SafetyRails struct {
	// Enabled gates the whole engine; when false every decision is rejected
	// with ReasonRailsDisabled.
	Enabled bool `yaml:"enabled"`

	// HumanOverride is the kill switch; while set, no decision is ever valid.
	HumanOverride bool `yaml:"human_override"`

	// MaxChangePercentage caps the absolute adjustment of any decision in any
	// domain, on top of per-domain caps.
	MaxChangePercentage float64 `yaml:"max_change_percentage"`

	// MinimumSampleSize is the history length below which the engine analyzes
	// but proposes nothing; the evidence base is too thin to act on.
	MinimumSampleSize int `yaml:"minimum_sample_size"`

	// DefaultCooldown applies to domains whose config leaves Cooldown zero.
	DefaultCooldown time.Duration `yaml:"default_cooldown"`

	// ConfidenceFloor is the minimum confidence for a decision to be valid.
	ConfidenceFloor float64 `yaml:"confidence_floor"`
}

// Config is the engine configuration: safety rails plus one DomainConfig per
// known domain.
type Config struct {
	// Rails holds the global safety constraints.
	Rails SafetyRails `yaml:"rails"`

	// Domains maps each tuning domain to its thresholds. Every known domain
	// must be present; unknown domain keys are rejected at construction.
	Domains map[Domain]DomainConfig `yaml:"domains"`

	// LedgerCapacity is the per-domain ledger cap (FIFO eviction).
	LedgerCapacity int `yaml:"ledger_capacity"`
}

// DefaultConfig returns an engine configuration with conservative rails and
// the standard four domains.
func DefaultConfig() *Config {
	return &Config{
		Rails: SafetyRails{
			Enabled:             true,
			HumanOverride:       false,
			MaxChangePercentage: 0.15,
			MinimumSampleSize:   10,
			DefaultCooldown:     60 * time.Minute,
			ConfidenceFloor:     0.7,
		},
		Domains: map[Domain]DomainConfig{
			DomainWeightNudging: {
				TriggerThreshold: 0.3,
				MaxAdjustment:    0.1,
				MinConfidence:    0.7,
				Scale:            0.5,
			},
			DomainThresholdAdaptation: {
				TriggerThreshold: 0.6,
				MaxAdjustment:    0.1,
				MinConfidence:    0.7,
				Scale:            0.5,
			},
			DomainSuppressionTuning: {
				TriggerThreshold: 0.25,
				MaxAdjustment:    0.1,
				MinConfidence:    0.75,
				Scale:            0.4,
			},
			DomainPersistencePolicy: {
				TriggerThreshold: 0.3,
				MaxAdjustment:    0.15,
				MinConfidence:    0.7,
				Scale:            0.5,
			},
		},
		LedgerCapacity: 50,
	}
}

// Validate checks the configuration for programmer errors. Invalid
// configuration fails fast here, at construction, never at tick time.
func (c *Config) Validate() error {
	if c.Rails.MaxChangePercentage <= 0 {
		return fmt.Errorf("%w: max_change_percentage must be positive, got %v",
			ErrInvalidConfig, c.Rails.MaxChangePercentage)
	}
	if c.Rails.ConfidenceFloor < 0 || c.Rails.ConfidenceFloor > 1 {
		return fmt.Errorf("%w: confidence_floor must be in [0,1], got %v",
			ErrInvalidConfig, c.Rails.ConfidenceFloor)
	}
	if c.Rails.MinimumSampleSize < 0 {
		return fmt.Errorf("%w: minimum_sample_size must be non-negative, got %d",
			ErrInvalidConfig, c.Rails.MinimumSampleSize)
	}
	if c.Rails.DefaultCooldown <= 0 {
		return fmt.Errorf("%w: default_cooldown must be positive, got %v",
			ErrInvalidConfig, c.Rails.DefaultCooldown)
	}
	if c.LedgerCapacity <= 0 {
		return fmt.Errorf("%w: ledger_capacity must be positive, got %d",
			ErrInvalidConfig, c.LedgerCapacity)
	}

	for domain, dc := range c.Domains {
		if !domain.Valid() {
			return fmt.Errorf("%w: unknown domain %q", ErrInvalidConfig, domain)
		}
		if dc.MaxAdjustment <= 0 {
			return fmt.Errorf("%w: domain %s: max_adjustment must be positive, got %v",
				ErrInvalidConfig, domain, dc.MaxAdjustment)
		}
		// A per-domain cap above the global cap could propose decisions the
		// safety validator is guaranteed to reject.
		if dc.MaxAdjustment > c.Rails.MaxChangePercentage {
			return fmt.Errorf("%w: domain %s: max_adjustment %v exceeds global max_change_percentage %v",
				ErrInvalidConfig, domain, dc.MaxAdjustment, c.Rails.MaxChangePercentage)
		}
		if dc.MinConfidence < 0 || dc.MinConfidence > 1 {
			return fmt.Errorf("%w: domain %s: min_confidence must be in [0,1], got %v",
				ErrInvalidConfig, domain, dc.MinConfidence)
		}
		if dc.Scale <= 0 {
			return fmt.Errorf("%w: domain %s: scale must be positive, got %v",
				ErrInvalidConfig, domain, dc.Scale)
		}
		if dc.Cooldown < 0 {
			return fmt.Errorf("%w: domain %s: cooldown must be non-negative, got %v",
				ErrInvalidConfig, domain, dc.Cooldown)
		}
	}

	for _, domain := range Domains() {
		if _, ok := c.Domains[domain]; !ok {
			return fmt.Errorf("%w: missing configuration for domain %s", ErrInvalidConfig, domain)
		}
	}

	return nil
}

// cooldownFor resolves a domain's effective cooldown window.
func (c *Config) cooldownFor(domain Domain) time.Duration {
	if dc, ok := c.Domains[domain]; ok && dc.Cooldown > 0 {
		return dc.Cooldown
	}
	return c.Rails.DefaultCooldown
}
