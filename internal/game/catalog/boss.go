package catalog

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/delve/internal/game/damage"
	"github.com/cory-johannsen/delve/internal/game/effect"
)

// TargetRule selects who a boss ability hits.
type TargetRule string

const (
	TargetAll        TargetRule = "all"
	TargetTank       TargetRule = "tank"
	TargetLowestLife TargetRule = "lowest_life"
	TargetHighestDPS TargetRule = "highest_dps"
	TargetRandom     TargetRule = "random"
	TargetSelf       TargetRule = "self"
)

// Scaling names the rule an ability uses to scale its base damage. Each
// scaling multiplies damage by 1 + ScalingValue/100 × units, where units is
// the quantity the rule counts.
type Scaling string

const (
	ScaleNone Scaling = "none"
	// ScalePartyBuffs counts active buffs across the living party.
	ScalePartyBuffs Scaling = "party_buffs"
	// ScaleDeadAllies counts dead party members.
	ScaleDeadAllies Scaling = "dead_allies"
	// ScaleDoomStacks counts doom stacks on the target.
	ScaleDoomStacks Scaling = "doom_stacks"
	// ScaleBossArmor counts the boss's armor in hundreds.
	ScaleBossArmor Scaling = "boss_armor"
	// ScaleFightDuration counts elapsed fight seconds.
	ScaleFightDuration Scaling = "fight_duration"
	// ScaleSelfRamp counts previous casts of this ability.
	ScaleSelfRamp Scaling = "self_ramp"
)

// Behavior is the resolution variant of a boss ability.
type Behavior string

const (
	// Generic deals scaled damage to the targets and applies Effects.
	Generic Behavior = "generic"
	// TripleStrike hits its target Hits times (3 when unset).
	TripleStrike Behavior = "triple_strike"
	// SwapHealth exchanges health percentages between the boss and the tank.
	SwapHealth Behavior = "swap_health"
	// RandomDebuff applies one effect drawn from Pool to each target.
	RandomDebuff Behavior = "random_debuff"
	// CorpseEcho replays the last non-echo ability at half power.
	CorpseEcho Behavior = "corpse_echo"
	// InfiniteRefrain replays up to three recent distinct abilities at half power.
	InfiniteRefrain Behavior = "infinite_refrain"
	// Scripted asks a Lua hook for the damage multiplier.
	Scripted Behavior = "script"
)

// EffectKind is the variant of one ability effect entry.
type EffectKind string

const (
	EffectDebuff       EffectKind = "debuff"
	EffectBuff         EffectKind = "buff"
	EffectStun         EffectKind = "stun"
	EffectSilence      EffectKind = "silence"
	EffectRemoveBuffs  EffectKind = "remove_buffs"
	EffectDamageWindow EffectKind = "damage_window"
	EffectUndying      EffectKind = "undying"
	EffectHealSelf     EffectKind = "heal_self"
)

// AbilityEffect is one entry in a boss ability's effect list.
type AbilityEffect struct {
	Kind EffectKind `yaml:"kind"`
	// Effect is the timed effect for debuff and buff entries.
	Effect *effect.Spec `yaml:"effect"`
	// Value is the percent bonus of a damage window or the percent of max
	// health restored by heal_self.
	Value float64 `yaml:"value"`
	// Duration is in seconds for stun, silence, damage_window and undying.
	Duration int `yaml:"duration"`
	Stacks   int `yaml:"stacks"`
}

// BossAbilityDef is the static definition of a boss ability.
type BossAbilityDef struct {
	ID           string      `yaml:"id"`
	Name         string      `yaml:"name"`
	CastTime     float64     `yaml:"cast_time"`
	Cooldown     float64     `yaml:"cooldown"`
	Target       TargetRule  `yaml:"target"`
	BaseDamage   float64     `yaml:"base_damage"`
	DamageType   damage.Type `yaml:"damage_type"`
	Signature    bool        `yaml:"signature"`
	OncePerFight bool        `yaml:"once_per_fight"`
	Scaling      Scaling     `yaml:"scaling"`
	ScalingValue float64     `yaml:"scaling_value"`
	Behavior     Behavior    `yaml:"behavior"`
	// Script is the Lua hook name for scripted abilities.
	Script  string          `yaml:"script"`
	Hits    int             `yaml:"hits"`
	Effects []AbilityEffect `yaml:"effects"`
	// Pool is the candidate set for random_debuff.
	Pool []effect.Spec `yaml:"pool"`
}

// Replays reports whether the ability repeats earlier abilities.
func (b *BossAbilityDef) Replays() bool {
	return b.Behavior == CorpseEcho || b.Behavior == InfiniteRefrain
}

// Validate reports every problem with the ability.
func (b *BossAbilityDef) Validate() error {
	var errs []error
	if b.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if b.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch b.Target {
	case TargetAll, TargetTank, TargetLowestLife, TargetHighestDPS, TargetRandom, TargetSelf:
	default:
		errs = append(errs, fmt.Errorf("target %q is unknown", b.Target))
	}
	switch b.Scaling {
	case "", ScaleNone, ScalePartyBuffs, ScaleDeadAllies, ScaleDoomStacks, ScaleBossArmor, ScaleFightDuration, ScaleSelfRamp:
	default:
		errs = append(errs, fmt.Errorf("scaling %q is unknown", b.Scaling))
	}
	switch b.Behavior {
	case "", Generic, TripleStrike, SwapHealth, CorpseEcho, InfiniteRefrain:
	case RandomDebuff:
		if len(b.Pool) == 0 {
			errs = append(errs, errors.New("random_debuff needs a non-empty pool"))
		}
	case Scripted:
		if b.Script == "" {
			errs = append(errs, errors.New("script behavior needs a script hook"))
		}
	default:
		errs = append(errs, fmt.Errorf("behavior %q is unknown", b.Behavior))
	}
	if b.DamageType != "" && !b.DamageType.Valid() {
		errs = append(errs, fmt.Errorf("damage_type %q is unknown", b.DamageType))
	}
	if b.CastTime < 0 || b.Cooldown < 0 || b.BaseDamage < 0 {
		errs = append(errs, errors.New("cast_time, cooldown and base_damage must be >= 0"))
	}
	for i, e := range b.Effects {
		switch e.Kind {
		case EffectDebuff, EffectBuff:
			if e.Effect == nil {
				errs = append(errs, fmt.Errorf("effects[%d]: %s needs an effect", i, e.Kind))
			} else if err := e.Effect.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("effects[%d]: %w", i, err))
			}
		case EffectStun, EffectSilence, EffectDamageWindow, EffectUndying:
			if e.Duration <= 0 {
				errs = append(errs, fmt.Errorf("effects[%d]: %s needs duration > 0", i, e.Kind))
			}
		case EffectRemoveBuffs, EffectHealSelf:
		default:
			errs = append(errs, fmt.Errorf("effects[%d]: kind %q is unknown", i, e.Kind))
		}
	}
	for i, p := range b.Pool {
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("pool[%d]: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("boss ability %q: %w", b.ID, errors.Join(errs...))
	}
	return nil
}
