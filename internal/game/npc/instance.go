package npc

import (
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/damage"
	"github.com/cory-johannsen/delve/internal/game/dice"
)

// NewInstance creates an enemy combatant from a template at spawn position slot.
//
// Precondition: id must be non-empty; tmpl must be non-nil and valid.
// Postcondition: HP equals tmpl.MaxHP; bosses carry a fresh ability state.
func NewInstance(id string, tmpl *Template, slot int, rules combat.Rules) *combat.Combatant {
	c := combat.NewCombatant(id, tmpl.Name, combat.KindEnemy, tmpl.MaxHP, 0)
	c.Slot = slot
	if tmpl.Rarity != "" {
		c.Rarity = combat.Rarity(tmpl.Rarity)
	}
	c.Stats.Armor = tmpl.Armor
	c.Stats.Evasion = tmpl.Evasion
	c.Stats.Accuracy = tmpl.Accuracy
	c.Stats.BlockChance = tmpl.BlockChance
	c.Stats.FireResist = tmpl.FireResist
	c.Stats.ColdResist = tmpl.ColdResist
	c.Stats.LightningResist = tmpl.LightningResist
	c.Stats.ChaosResist = tmpl.ChaosResist
	c.Stats.CritChance = tmpl.CritChance

	attackType := tmpl.AttackType
	if attackType == "" {
		attackType = damage.Physical
	}
	c.Enemy = &combat.EnemyProfile{
		TemplateID:  tmpl.ID,
		Level:       tmpl.Level,
		Attack:      dice.MustParse(tmpl.Attack),
		AttackType:  attackType,
		AttackTicks: max(rules.Seconds(tmpl.AttackInterval), 1),
		Abilities:   append([]string(nil), tmpl.Abilities...),
	}
	if c.Rarity == combat.Boss {
		c.Enemy.Boss = combat.NewAbilityState()
	}
	return c
}

// HealthDescription returns a visible health state string for summaries.
//
// Postcondition: Returns a non-empty string.
func HealthDescription(c *combat.Combatant) string {
	if !c.Alive() {
		return "dead"
	}
	pct := float64(c.HP) / float64(c.MaxHP)
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "moderately wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
