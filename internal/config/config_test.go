package config

import (
	"testing"
	"time"

	"github.com/quantora/councilgo/consts"
	"github.com/quantora/councilgo/internal/ports"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnabledAnalysts = nil
	if err := cfg.Validate(); err == nil {
		t.Fatalf("empty analyst set must be rejected")
	}

	cfg = DefaultConfig()
	cfg.EnabledAnalysts = []string{"astrologer"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("unknown analyst must be rejected")
	}

	cfg = DefaultConfig()
	cfg.MaxDebateRounds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("zero debate rounds must be rejected")
	}

	cfg = DefaultConfig()
	cfg.CallTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("zero call timeout must be rejected")
	}
}

func TestBindingForResolvesOverrides(t *testing.T) {
	cfg := DefaultConfig()
	deep := cfg.BindingFor(consts.ResearchManager, true)
	if deep.Model != cfg.DeepThink.Model {
		t.Fatalf("deep roles should use the deep-think binding, got %s", deep.Model)
	}
	quick := cfg.BindingFor(consts.MarketAnalyst, false)
	if quick.Model != cfg.QuickThink.Model {
		t.Fatalf("quick roles should use the quick-think binding, got %s", quick.Model)
	}

	cfg.RoleBindings = map[string]ports.ModelBinding{
		consts.Trader: {Provider: "local", Model: "trader-tuned"},
	}
	if got := cfg.BindingFor(consts.Trader, true); got.Model != "trader-tuned" {
		t.Fatalf("per-role override should win, got %s", got.Model)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("COUNCIL_DEEP_THINK_MODEL", "o4")
	t.Setenv("COUNCIL_MAX_DEBATE_ROUNDS", "3")
	t.Setenv("COUNCIL_CALL_TIMEOUT", "30s")

	cfg := FromEnv()
	if cfg.DeepThink.Model != "o4" {
		t.Fatalf("deep think model override not applied, got %s", cfg.DeepThink.Model)
	}
	if cfg.MaxDebateRounds != 3 {
		t.Fatalf("debate rounds override not applied, got %d", cfg.MaxDebateRounds)
	}
	if cfg.CallTimeout != 30*time.Second {
		t.Fatalf("timeout override not applied, got %s", cfg.CallTimeout)
	}
}
