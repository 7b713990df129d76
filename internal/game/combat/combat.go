// Package combat holds the combat state the tick scheduler owns: actors,
// their action machines, the combat log and the floating-number stream.
package combat

import (
	"github.com/cory-johannsen/delve/internal/game/damage"
	"github.com/cory-johannsen/delve/internal/game/dice"
	"github.com/cory-johannsen/delve/internal/game/effect"
	"github.com/cory-johannsen/delve/internal/game/numeric"
)

// Kind distinguishes team members from enemies.
type Kind int

const (
	KindMember Kind = iota
	KindEnemy
)

// Role is a team member's party role.
type Role string

const (
	RoleTank   Role = "tank"
	RoleHealer Role = "healer"
	RoleDamage Role = "damage"
)

// Rarity grades enemies for target-type predicates.
type Rarity string

const (
	Normal Rarity = "normal"
	Elite  Rarity = "elite"
	Boss   Rarity = "boss"
)

// AtLeastElite reports whether r is elite or boss.
func (r Rarity) AtLeastElite() bool { return r == Elite || r == Boss }

// Stats are the combat statistics of one actor.
type Stats struct {
	Strength     float64
	Dexterity    float64
	Intelligence float64

	Armor           float64
	Evasion         float64
	Accuracy        float64
	FireResist      float64
	ColdResist      float64
	LightningResist float64
	ChaosResist     float64
	BlockChance     float64

	// CritChance is a fraction added to skill and weapon crit chance.
	CritChance          float64
	IncreasedCritChance float64
	// CritMultiplier defaults to 1.5.
	CritMultiplier float64

	FlatDamage           float64
	IncreasedDamage      float64
	IncreasedCastSpeed   float64
	IncreasedAttackSpeed float64
}

// EnemyProfile carries what only enemies have.
type EnemyProfile struct {
	TemplateID  string
	Level       int
	Attack      dice.Expression
	AttackType  damage.Type
	AttackTicks int
	// Abilities is the boss ability table in declaration order.
	Abilities []string
	Boss      *AbilityState
}

// Combatant is the live state of one actor.
//
// Invariant: 0 <= HP <= MaxHP and 0 <= Mana <= MaxMana after every mutation
// through the State helpers. Dead actors never act and are never targeted.
type Combatant struct {
	ID     string
	Name   string
	Kind   Kind
	Role   Role
	Rarity Rarity
	// Slot is the roster or spawn position, used as a screen-space hint.
	Slot int

	HP      int
	MaxHP   int
	Mana    int
	MaxMana int
	// ManaRegen is mana restored per simulated second.
	ManaRegen int

	Stats Stats

	Action *ActionMachine
	Cast   Cast

	Effects    *effect.ActiveSet
	Flags      effect.Flags
	Shield     int
	HealAbsorb int

	Dead bool

	DamageDone   Tally
	HealingDone  Tally
	DamageTaken  int
	HealingTaken int

	Loadout *Loadout
	Enemy   *EnemyProfile
}

// NewCombatant returns a living, idle combatant at full health and mana.
func NewCombatant(id, name string, kind Kind, maxHP, maxMana int) *Combatant {
	return &Combatant{
		ID:      id,
		Name:    name,
		Kind:    kind,
		Rarity:  Normal,
		HP:      maxHP,
		MaxHP:   maxHP,
		Mana:    maxMana,
		MaxMana: maxMana,
		Action:  NewActionMachine(),
		Cast:    Cast{SkillIndex: -1},
		Effects: effect.NewActiveSet(),
		Stats:   Stats{CritMultiplier: 1.5},
	}
}

// Alive reports whether the combatant can act and be targeted.
func (c *Combatant) Alive() bool { return !c.Dead && c.HP > 0 }

// HealthPercent returns HP as a percentage of MaxHP.
func (c *Combatant) HealthPercent() float64 { return numeric.Percent(c.HP, c.MaxHP) }

// ManaPercent returns mana as a percentage of MaxMana; 100 when MaxMana is 0.
func (c *Combatant) ManaPercent() float64 {
	if c.MaxMana <= 0 {
		return 100
	}
	return numeric.Percent(c.Mana, c.MaxMana)
}

// Clamp restores the HP and mana invariants.
func (c *Combatant) Clamp() {
	c.MaxHP = max(c.MaxHP, 1)
	c.MaxMana = max(c.MaxMana, 0)
	c.HP = numeric.ClampInt(c.HP, 0, c.MaxHP)
	c.Mana = numeric.ClampInt(c.Mana, 0, c.MaxMana)
	c.Shield = max(c.Shield, 0)
	c.HealAbsorb = max(c.HealAbsorb, 0)
}

// SpendMana deducts amount if affordable.
func (c *Combatant) SpendMana(amount int) bool {
	if amount > c.Mana {
		return false
	}
	c.Mana -= max(amount, 0)
	return true
}

// RestoreMana adds amount, capped at MaxMana.
func (c *Combatant) RestoreMana(amount int) {
	c.Mana = numeric.ClampInt(c.Mana+amount, 0, c.MaxMana)
}

// Defense builds the mitigation profile, folding in active effects.
func (c *Combatant) Defense() damage.Defense {
	armor := max(c.Stats.Armor-c.Effects.Sum(effect.ArmorBreak), 0)
	return damage.Defense{
		Armor:           armor,
		FireResist:      c.Stats.FireResist,
		ColdResist:      c.Stats.ColdResist,
		LightningResist: c.Stats.LightningResist,
		ChaosResist:     c.Stats.ChaosResist,
		BlockChance:     c.Stats.BlockChance,
		DamageTaken:     c.Effects.DamageTaken(),
	}
}

// EffectiveEvasion is zero while blinded.
func (c *Combatant) EffectiveEvasion() float64 {
	if c.Flags.Blinded {
		return 0
	}
	return c.Stats.Evasion
}

// IsBoss reports whether the combatant is an enemy with a boss ability table.
func (c *Combatant) IsBoss() bool {
	return c.Enemy != nil && c.Enemy.Boss != nil
}

// RefreshFlags recomputes transient flags from active effects and drops the
// pools whose backing effect is gone.
func (c *Combatant) RefreshFlags() {
	c.Flags = c.Effects.Flags()
	if !c.Flags.HealAbsorbActive {
		c.HealAbsorb = 0
	}
	if !c.Flags.ShieldActive {
		c.Shield = 0
	}
}

// Clone returns a deep copy. Catalog definitions are shared.
func (c *Combatant) Clone() *Combatant {
	cp := *c
	cp.Action = c.Action.Clone()
	cp.Effects = c.Effects.Clone()
	cp.DamageDone = c.DamageDone.Clone()
	cp.HealingDone = c.HealingDone.Clone()
	if c.Loadout != nil {
		cp.Loadout = c.Loadout.Clone()
	}
	if c.Enemy != nil {
		e := *c.Enemy
		e.Abilities = append([]string(nil), c.Enemy.Abilities...)
		if c.Enemy.Boss != nil {
			e.Boss = c.Enemy.Boss.Clone()
		}
		cp.Enemy = &e
	}
	return &cp
}
