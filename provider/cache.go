package provider

import (
	"time"

	"llmux/config"
)

// CacheMode is the requested cache intent mode.
type CacheMode string

const (
	CacheModeOff      CacheMode = "off"
	CacheModeImplicit CacheMode = "implicit"
	CacheModeExplicit CacheMode = "explicit"
)

// CacheStrategy selects which portion of the context a cache request covers.
type CacheStrategy string

const (
	CacheStrategyAuto         CacheStrategy = "auto"
	CacheStrategySystemOnly   CacheStrategy = "system_only"
	CacheStrategyPrefixWindow CacheStrategy = "prefix_window"
)

// CacheIntent is the caller's requested caching behavior, independent of any
// provider.
type CacheIntent struct {
	Mode     CacheMode
	Strategy CacheStrategy
	TTL      time.Duration
}

// CachePlan is the provider-correct resolution of a CacheIntent.
type CachePlan struct {
	Mode     CacheMode
	Strategy CacheStrategy
	TTL      time.Duration

	// AnthropicTTL is the cache_control ttl bucket ("5m" or "1h") for
	// providers using ephemeral cache-control blocks.
	AnthropicTTL string
}

// CacheIntentFromConfig parses the user's configured cache settings. Unknown
// or empty values fall back to off/auto; an unparseable TTL is ignored.
func CacheIntentFromConfig(c config.CacheConfig) CacheIntent {
	intent := CacheIntent{Mode: CacheModeOff, Strategy: CacheStrategyAuto}
	switch CacheMode(c.Mode) {
	case CacheModeImplicit, CacheModeExplicit:
		intent.Mode = CacheMode(c.Mode)
	}
	switch CacheStrategy(c.Strategy) {
	case CacheStrategySystemOnly, CacheStrategyPrefixWindow:
		intent.Strategy = CacheStrategy(c.Strategy)
	}
	if c.TTL != "" {
		if d, err := time.ParseDuration(c.TTL); err == nil {
			intent.TTL = d
		}
	}
	return intent
}

// ResolveCacheStrategy maps a requested cache intent onto concrete
// provider-specific parameters.
//
// When the mode is implicit, the strategy is auto, and the provider's native
// caching is prefix-anchored (it only benefits a contiguous leading portion
// of the context), the strategy is rewritten to prefix_window so cache
// breakpoints land where the provider can use them. Explicit strategy
// requests pass through unchanged.
func ResolveCacheStrategy(providerType ProviderType, modelID string, intent CacheIntent) CachePlan {
	plan := CachePlan{
		Mode:     intent.Mode,
		Strategy: intent.Strategy,
		TTL:      intent.TTL,
	}

	if intent.Mode == CacheModeOff {
		return plan
	}

	if intent.Mode == CacheModeImplicit && intent.Strategy == CacheStrategyAuto && prefixAnchored(providerType) {
		plan.Strategy = CacheStrategyPrefixWindow
	}

	plan.AnthropicTTL = anthropicTTLBucket(intent.TTL)
	return plan
}

// prefixAnchored reports whether a provider's native cache only reuses a
// contiguous leading portion of the conversation context.
func prefixAnchored(providerType ProviderType) bool {
	switch providerType {
	case ProviderTypeAnthropic, ProviderTypeGoogle:
		return true
	default:
		return false
	}
}

// anthropicTTLBucket snaps a requested TTL onto the provider's supported
// ephemeral buckets.
func anthropicTTLBucket(ttl time.Duration) string {
	if ttl > 5*time.Minute {
		return "1h"
	}
	return "5m"
}
