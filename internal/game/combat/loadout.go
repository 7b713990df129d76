package combat

import (
	"github.com/cory-johannsen/delve/internal/game/ai"
	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/inventory"
)

// EquippedSkill is one skill slot of a team member.
type EquippedSkill struct {
	// ID is the catalog id the slot was configured with. Skill is nil when
	// the id did not resolve.
	ID       string
	Skill    *catalog.SkillDef
	Supports []*catalog.SupportDef
	Usage    ai.UsageConfig
	// ReadyAt is the tick the skill's cooldown expires.
	ReadyAt int
}

// ManaCost folds support multipliers into the skill's cost. Returns the
// cost and whether it is paid in life.
func (e *EquippedSkill) ManaCost() (int, bool) {
	if e.Skill == nil {
		return 0, false
	}
	mult := 1.0
	life := false
	for _, s := range e.Supports {
		if s.CostsLife() {
			life = true
			continue
		}
		mult *= s.CostMultiplier()
	}
	return int(float64(e.Skill.ManaCost)*mult + 0.5), life
}

// Loadout is what a team member brings into combat.
type Loadout struct {
	Skills []EquippedSkill
	// Weapons holds one or two weapons; two means dual wielding.
	Weapons    []*inventory.WeaponDef
	NextWeapon int
	Gear       inventory.Bonuses
	// Talent is a flat damage and healing multiplier; 0 means 1.
	Talent float64
}

// Weapon returns the weapon the next attack uses, or nil when unarmed.
func (l *Loadout) Weapon() *inventory.WeaponDef {
	if len(l.Weapons) == 0 {
		return nil
	}
	return l.Weapons[l.NextWeapon%len(l.Weapons)]
}

// AdvanceWeapon alternates dual-wielded weapons after an attack resolves.
func (l *Loadout) AdvanceWeapon() {
	if len(l.Weapons) > 1 {
		l.NextWeapon = (l.NextWeapon + 1) % len(l.Weapons)
	}
}

// DualWielding reports whether two weapons are equipped.
func (l *Loadout) DualWielding() bool { return len(l.Weapons) > 1 }

// TalentMultiplier returns Talent, or 1 when unset.
func (l *Loadout) TalentMultiplier() float64 {
	if l.Talent == 0 {
		return 1
	}
	return l.Talent
}

// Clone copies the mutable parts of the loadout.
func (l *Loadout) Clone() *Loadout {
	cp := *l
	cp.Skills = append([]EquippedSkill(nil), l.Skills...)
	cp.Weapons = append([]*inventory.WeaponDef(nil), l.Weapons...)
	return &cp
}
