package character

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/ai"
	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/inventory"
	"github.com/cory-johannsen/delve/internal/game/ruleset"
)

// Builder resolves roster records against the class registry and catalog.
type Builder struct {
	classes *ruleset.ClassRegistry
	catalog *catalog.Registry
	logger  *zap.Logger
}

// NewBuilder returns a Builder.
//
// Precondition: all arguments are non-nil.
func NewBuilder(classes *ruleset.ClassRegistry, reg *catalog.Registry, logger *zap.Logger) *Builder {
	return &Builder{classes: classes, catalog: reg, logger: logger}
}

// Build turns ch into a team combatant at roster position slot.
//
// Unknown classes, weapons, gear and supports are errors. An unknown skill is
// kept as an empty slot so the encounter can degrade around it; it is logged
// at Warn.
func (b *Builder) Build(ch *Character, slot int) (*combat.Combatant, error) {
	class, ok := b.classes.Class(ch.Class)
	if !ok {
		return nil, fmt.Errorf("character %q: unknown class %q", ch.ID, ch.Class)
	}

	var weapons []*inventory.WeaponDef
	for _, id := range ch.Weapons {
		w, err := b.catalog.Weapon(id)
		if err != nil {
			return nil, fmt.Errorf("character %q: %w", ch.ID, err)
		}
		weapons = append(weapons, w)
	}
	var gear []*inventory.GearDef
	for _, id := range ch.Gear {
		g, err := b.catalog.Gear(id)
		if err != nil {
			return nil, fmt.Errorf("character %q: %w", ch.ID, err)
		}
		gear = append(gear, g)
	}
	bonus := inventory.Total(gear)

	skills := make([]combat.EquippedSkill, 0, len(ch.Skills))
	for _, s := range ch.Skills {
		eq, err := b.equip(ch, s)
		if err != nil {
			return nil, err
		}
		skills = append(skills, eq)
	}

	attrs := class.AttributesAt(ch.Level).Add(ch.Attributes)
	d := class.Defenses
	c := combat.NewCombatant(ch.ID, ch.Name, combat.KindMember,
		class.HealthPerLevel*ch.Level+bonus.MaxHealth,
		class.ManaPerLevel*ch.Level+bonus.MaxMana)
	c.Role = combat.Role(class.Role)
	c.Slot = slot
	c.ManaRegen = class.ManaRegen
	c.Stats = combat.Stats{
		Strength:             attrs.Strength,
		Dexterity:            attrs.Dexterity,
		Intelligence:         attrs.Intelligence,
		Armor:                d.Armor + bonus.Armor,
		Evasion:              d.Evasion + bonus.Evasion,
		Accuracy:             d.Accuracy,
		FireResist:           d.FireResist,
		ColdResist:           d.ColdResist,
		LightningResist:      d.LightningResist,
		ChaosResist:          d.ChaosResist,
		BlockChance:          min(d.BlockChance+bonus.BlockChance, 100),
		CritChance:           d.CritChance,
		IncreasedCritChance:  bonus.IncreasedCritChance,
		CritMultiplier:       d.CritMultiplier,
		FlatDamage:           bonus.FlatDamage,
		IncreasedDamage:      bonus.IncreasedDamage,
		IncreasedCastSpeed:   bonus.IncreasedCastSpeed,
		IncreasedAttackSpeed: bonus.IncreasedAttackSpeed,
	}
	if c.Stats.CritMultiplier <= 0 {
		c.Stats.CritMultiplier = 1.5
	}
	c.Loadout = &combat.Loadout{
		Skills:  skills,
		Weapons: weapons,
		Gear:    bonus,
		Talent:  ch.Talent,
	}
	return c, nil
}

func (b *Builder) equip(ch *Character, s SkillSlot) (combat.EquippedSkill, error) {
	eq := combat.EquippedSkill{ID: s.Skill}
	for _, id := range s.Supports {
		sup, err := b.catalog.Support(id)
		if err != nil {
			return eq, fmt.Errorf("character %q: skill %q: %w", ch.ID, s.Skill, err)
		}
		eq.Supports = append(eq.Supports, sup)
	}
	skill, err := b.catalog.Skill(s.Skill)
	if err != nil {
		b.logger.Warn("equipped skill not in catalog",
			zap.String("character", ch.ID),
			zap.String("skill", s.Skill),
		)
	} else {
		eq.Skill = skill
	}
	switch {
	case s.Usage != nil:
		eq.Usage = *s.Usage
	case skill != nil:
		eq.Usage = ai.DefaultUsage(skill)
	}
	return eq, nil
}

// BuildTeam builds every roster member in order.
func (b *Builder) BuildTeam(r *Roster) ([]*combat.Combatant, error) {
	team := make([]*combat.Combatant, 0, len(r.Team))
	for i, ch := range r.Team {
		c, err := b.Build(ch, i)
		if err != nil {
			return nil, err
		}
		team = append(team, c)
	}
	return team, nil
}
