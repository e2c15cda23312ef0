package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/quantora/councilgo/consts"
	"github.com/quantora/councilgo/internal/ports"
)

// AllAnalysts is the full analyst roster in canonical order.
var AllAnalysts = []string{
	consts.MarketAnalyst,
	consts.SocialMediaAnalyst,
	consts.NewsAnalyst,
	consts.FundamentalsAnalyst,
}

// Config carries everything one run needs: which analysts sit at the
// table, round caps for both debates, model bindings, and the call
// policy applied to every outbound port call.
type Config struct {
	EnabledAnalysts []string `json:"enabled_analysts"`

	MaxDebateRounds      int `json:"max_debate_rounds"`
	MaxRiskDiscussRounds int `json:"max_risk_discuss_rounds"`

	// DeepThink serves the judges and the trader; QuickThink serves
	// everyone else. RoleBindings overrides either for a single role.
	DeepThink    ports.ModelBinding            `json:"deep_think"`
	QuickThink   ports.ModelBinding            `json:"quick_think"`
	RoleBindings map[string]ports.ModelBinding `json:"role_bindings,omitempty"`

	CallTimeout time.Duration `json:"call_timeout"`
	MaxRetries  int           `json:"max_retries"`

	MemoryTopK int `json:"memory_top_k"`

	// StaleAfter bounds how old a retrieval snapshot may be before the
	// adapter should report it unavailable instead of stale.
	StaleAfter time.Duration `json:"stale_after"`
}

func DefaultConfig() *Config {
	return &Config{
		EnabledAnalysts:      append([]string(nil), AllAnalysts...),
		MaxDebateRounds:      1,
		MaxRiskDiscussRounds: 1,
		DeepThink:            ports.ModelBinding{Provider: "openai", Model: "o4-mini", MaxTokens: 8192},
		QuickThink:           ports.ModelBinding{Provider: "openai", Model: "gpt-4o-mini", MaxTokens: 4096},
		CallTimeout:          120 * time.Second,
		MaxRetries:           1,
		MemoryTopK:           2,
		StaleAfter:           24 * time.Hour,
	}
}

// FromEnv overlays environment overrides onto the defaults. The reference
// CLI loads .env via godotenv before calling this.
func FromEnv() *Config {
	cfg := DefaultConfig()
	if v := os.Getenv("COUNCIL_DEEP_THINK_MODEL"); v != "" {
		cfg.DeepThink.Model = v
	}
	if v := os.Getenv("COUNCIL_QUICK_THINK_MODEL"); v != "" {
		cfg.QuickThink.Model = v
	}
	if v := os.Getenv("COUNCIL_MAX_DEBATE_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.MaxDebateRounds = n
		}
	}
	if v := os.Getenv("COUNCIL_MAX_RISK_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.MaxRiskDiscussRounds = n
		}
	}
	if v := os.Getenv("COUNCIL_CALL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CallTimeout = d
		}
	}
	return cfg
}

// BindingFor resolves the model binding for a role.
func (c *Config) BindingFor(role string, deep bool) ports.ModelBinding {
	if b, ok := c.RoleBindings[role]; ok {
		return b
	}
	if deep {
		return c.DeepThink
	}
	return c.QuickThink
}

func (c *Config) Validate() error {
	if len(c.EnabledAnalysts) == 0 {
		return fmt.Errorf("at least one analyst must be enabled")
	}
	known := map[string]bool{}
	for _, a := range AllAnalysts {
		known[a] = true
	}
	for _, a := range c.EnabledAnalysts {
		if !known[a] {
			return fmt.Errorf("unknown analyst %q", a)
		}
	}
	if c.MaxDebateRounds < 1 || c.MaxRiskDiscussRounds < 1 {
		return fmt.Errorf("debate round caps must be >= 1")
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("call timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be >= 0")
	}
	return nil
}
