// Package caster implements the player's magical resource model: the
// battery and resonance meters, battery tiers, and the chaos roll that
// decides whether a spell's normal or chaos effects apply.
package caster

import (
	"log/slog"

	"github.com/nathoo/arcanum/types"
)

// Tier is the derived battery tier.
type Tier string

const (
	TierFull     Tier = "full"     // battery >= 75
	TierUnstable Tier = "unstable" // battery >= 25
	TierCritical Tier = "critical" // battery > 0
	TierEmpty    Tier = "empty"    // battery == 0
)

// Cast refusal reasons, surfaced to the UI as-is.
const (
	ReasonInsufficientBattery = "insufficient battery"
	ReasonBlockedTag          = "spell tag is blocked"
	ReasonNotAllowed          = "spell tag is not in the allow list"
)

// ChaosConfig holds the per-tier base chaos chance. Tier thresholds are
// fixed; the percentages are content-configurable.
type ChaosConfig struct {
	Unstable float64
	Critical float64
	Empty    float64
}

// DefaultChaosConfig returns the stock chaos curve.
func DefaultChaosConfig() ChaosConfig {
	return ChaosConfig{Unstable: 0.40, Critical: 0.80, Empty: 1.0}
}

// Config configures a caster at session start.
type Config struct {
	MaxBattery   float64 // default 100
	RechargeRate float64 // percent per minute
	Chaos        ChaosConfig
	AllowTags    []string // if non-empty, spell tags must intersect
	BlockTags    []string // spell tags must not intersect
}

// Caster is one player's resource state. Battery regenerates passively via
// Tick; resonance changes only through minigame results and spell effects.
type Caster struct {
	battery      float64
	maxBattery   float64
	rechargeRate float64
	resonance    float64
	chaos        ChaosConfig
	allowTags    []string
	blockTags    []string
	onChange     func(types.Change)
	logger       *slog.Logger
}

// New creates a caster with a full battery and zero resonance.
func New(cfg Config) *Caster {
	if cfg.MaxBattery <= 0 {
		cfg.MaxBattery = 100
	}
	return &Caster{
		battery:      cfg.MaxBattery,
		maxBattery:   cfg.MaxBattery,
		rechargeRate: cfg.RechargeRate,
		chaos:        cfg.Chaos,
		allowTags:    cfg.AllowTags,
		blockTags:    cfg.BlockTags,
		logger:       slog.Default(),
	}
}

// SetChangeHandler registers the single change handler for meter mutations.
func (c *Caster) SetChangeHandler(h func(types.Change)) {
	c.onChange = h
}

// SetLogger replaces the caster's logger.
func (c *Caster) SetLogger(l *slog.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Battery returns the current battery level.
func (c *Caster) Battery() float64 { return c.battery }

// MaxBattery returns the battery ceiling.
func (c *Caster) MaxBattery() float64 { return c.maxBattery }

// Resonance returns the current resonance level.
func (c *Caster) Resonance() float64 { return c.resonance }

// Tick applies the per-frame recharge rule: while battery is below max it
// rises by rechargeRate/60 per second, clamped to max. Resonance never
// changes on a tick.
func (c *Caster) Tick(dtSeconds float64) {
	if dtSeconds <= 0 || c.battery >= c.maxBattery {
		return
	}
	c.setBattery(c.battery + c.rechargeRate/60*dtSeconds)
}

// Tier returns the battery tier for the current level.
func (c *Caster) Tier() Tier {
	switch {
	case c.battery >= 75:
		return TierFull
	case c.battery >= 25:
		return TierUnstable
	case c.battery > 0:
		return TierCritical
	default:
		return TierEmpty
	}
}

// ChaosChance returns the base chaos probability for the current tier.
func (c *Caster) ChaosChance() float64 {
	switch c.Tier() {
	case TierFull:
		return 0
	case TierUnstable:
		return c.chaos.Unstable
	case TierCritical:
		return c.chaos.Critical
	default:
		return c.chaos.Empty
	}
}

// CanCast reports whether the spell may be cast right now. On refusal the
// second return is a caller-visible reason.
func (c *Caster) CanCast(spell *types.SpellDef) (bool, string) {
	if c.battery < spell.BatteryCost {
		return false, ReasonInsufficientBattery
	}
	if intersects(spell.Tags, c.blockTags) {
		return false, ReasonBlockedTag
	}
	if len(c.allowTags) > 0 && !intersects(spell.Tags, c.allowTags) {
		return false, ReasonNotAllowed
	}
	return true, ""
}

// CastResult is the outcome of a cast attempt.
type CastResult struct {
	OK      bool
	Reason  string // set when OK is false
	Chaos   bool
	Effects []types.Effect // the spell's normal or chaos effects
}

// Cast spends battery and rolls for chaos. roll is the session's
// probability source (one draw per cast). Chaos substitutes the spell's
// chaos effects for its normal ones; applying the effects is the
// caller's job.
func (c *Caster) Cast(spell *types.SpellDef, roll func(p float64) bool) CastResult {
	if ok, reason := c.CanCast(spell); !ok {
		c.logger.Warn("cast refused", "spell", spell.ID, "reason", reason)
		return CastResult{Reason: reason}
	}

	// Chaos chance is read before the cost is deducted; the tier the
	// player sees on the HUD is the tier that rolls.
	chance := c.ChaosChance()
	c.setBattery(c.battery - spell.BatteryCost)

	if roll != nil && roll(chance) {
		return CastResult{OK: true, Chaos: true, Effects: spell.ChaosEffects}
	}
	return CastResult{OK: true, Effects: spell.Effects}
}

// ApplyMinigameResult adds the earned resonance, clamped to 100, on
// success only. Failed attempts change nothing.
func (c *Caster) ApplyMinigameResult(res types.MinigameResult) {
	if !res.Success || res.ResonanceGained <= 0 {
		return
	}
	c.setResonance(c.resonance + res.ResonanceGained)
}

// AddResonance adjusts resonance by delta (spell effect path), clamped
// to [0,100].
func (c *Caster) AddResonance(delta float64) {
	c.setResonance(c.resonance + delta)
}

// ChargeBattery raises battery by amount, clamped to max (spell effect
// path, distinct from the passive Tick recharge).
func (c *Caster) ChargeBattery(amount float64) {
	if amount <= 0 {
		return
	}
	c.setBattery(c.battery + amount)
}

// DrainBattery lowers battery by amount, clamped to 0.
func (c *Caster) DrainBattery(amount float64) {
	if amount <= 0 {
		return
	}
	c.setBattery(c.battery - amount)
}

// Snapshot is the plain-object save form of a caster.
type Snapshot struct {
	Battery      float64 `json:"battery"`
	MaxBattery   float64 `json:"max_battery"`
	RechargeRate float64 `json:"recharge_rate"`
	Resonance    float64 `json:"resonance"`
}

// Snapshot returns the caster's save form.
func (c *Caster) Snapshot() Snapshot {
	return Snapshot{
		Battery:      c.battery,
		MaxBattery:   c.maxBattery,
		RechargeRate: c.rechargeRate,
		Resonance:    c.resonance,
	}
}

// Restore overwrites the meters from a snapshot. No change notifications
// fire; restore is not gameplay.
func (c *Caster) Restore(snap Snapshot) {
	if snap.MaxBattery > 0 {
		c.maxBattery = snap.MaxBattery
	}
	if snap.RechargeRate > 0 {
		c.rechargeRate = snap.RechargeRate
	}
	c.battery = clamp(snap.Battery, 0, c.maxBattery)
	c.resonance = clamp(snap.Resonance, 0, 100)
}

func (c *Caster) setBattery(v float64) {
	v = clamp(v, 0, c.maxBattery)
	if v == c.battery {
		return
	}
	old := c.battery
	c.battery = v
	if c.onChange != nil {
		c.onChange(types.Change{Namespace: "caster", Key: "battery", OldValue: old, NewValue: v})
	}
}

func (c *Caster) setResonance(v float64) {
	v = clamp(v, 0, 100)
	if v == c.resonance {
		return
	}
	old := c.resonance
	c.resonance = v
	if c.onChange != nil {
		c.onChange(types.Change{Namespace: "caster", Key: "resonance", OldValue: old, NewValue: v})
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
