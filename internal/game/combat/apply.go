package combat

import (
	"github.com/cory-johannsen/delve/internal/game/damage"
	"github.com/cory-johannsen/delve/internal/game/effect"
)

// DamageResult is what one DealDamage call did to its target.
type DamageResult struct {
	// Dealt is health lost plus shield absorbed.
	Dealt    int
	Absorbed int
	Killed   bool
}

// Lost is the health dst actually lost, shield excluded.
func (r DamageResult) Lost() int { return r.Dealt - r.Absorbed }

// DealDamage applies a resolved hit from src to dst. src may be nil for
// environmental damage. Shields absorb first; a boss under an undying window
// cannot drop below 1 HP.
//
// Postcondition: 0 <= dst.HP <= dst.MaxHP.
func (s *State) DealDamage(src, dst *Combatant, hit damage.Hit, source string) DamageResult {
	var res DamageResult
	if !dst.Alive() || hit.Amount <= 0 {
		return res
	}
	amount := hit.Amount
	if dst.Shield > 0 {
		res.Absorbed = min(dst.Shield, amount)
		dst.Shield -= res.Absorbed
		amount -= res.Absorbed
		s.Float(dst, res.Absorbed, FloatAbsorb)
	}
	lost := min(amount, dst.HP)
	if dst.IsBoss() && dst.Enemy.Boss.Undying(s.Tick) && dst.HP-lost < 1 {
		lost = dst.HP - 1
	}
	dst.HP -= lost
	dst.Clamp()
	res.Dealt = lost + res.Absorbed

	srcID, srcName := "", "environment"
	if src != nil {
		srcID, srcName = src.ID, src.Name
		src.DamageDone.Add(source, res.Dealt)
	}
	dst.DamageTaken += res.Dealt

	cat := FloatDamage
	switch {
	case hit.Crit:
		cat = FloatCrit
	case hit.Blocked:
		cat = FloatBlock
	}
	if amount > 0 {
		s.Float(dst, lost, cat)
	}
	s.Emit(EntryDamage, srcID, dst.ID, res.Dealt, "%s hits %s with %s for %d %s damage%s",
		srcName, dst.Name, source, res.Dealt, hit.Type, hitSuffix(hit))

	if dst.HP <= 0 {
		s.Kill(dst, srcName)
		res.Killed = true
	}
	return res
}

func hitSuffix(h damage.Hit) string {
	switch {
	case h.Crit && h.Blocked:
		return " (critical, blocked)"
	case h.Crit:
		return " (critical)"
	case h.Blocked:
		return " (blocked)"
	}
	return ""
}

// Kill marks c dead and cancels its action. It stays in the roster.
func (s *State) Kill(c *Combatant, by string) {
	if c.Dead {
		return
	}
	c.HP = 0
	c.Dead = true
	c.Action.Cancel()
	c.Cast = Cast{SkillIndex: -1}
	s.Emit(EntryDeath, "", c.ID, 0, "%s has been slain by %s", c.Name, by)
}

// ApplyHeal restores health from a resolved heal, consuming dst's heal
// absorption pool by h.Absorbed. Overhealing is not credited.
func (s *State) ApplyHeal(src, dst *Combatant, h damage.Heal, source string) int {
	if !dst.Alive() {
		return 0
	}
	if h.Absorbed > 0 {
		dst.HealAbsorb -= h.Absorbed
		s.Float(dst, h.Absorbed, FloatAbsorb)
	}
	gained := min(h.Amount, dst.MaxHP-dst.HP)
	dst.HP += max(gained, 0)
	dst.Clamp()
	if gained <= 0 {
		return 0
	}
	srcID, srcName := "", "environment"
	if src != nil {
		srcID, srcName = src.ID, src.Name
		src.HealingDone.Add(source, gained)
	}
	dst.HealingTaken += gained
	s.Float(dst, gained, FloatHeal)
	crit := ""
	if h.Crit {
		crit = " (critical)"
	}
	s.Emit(EntryHeal, srcID, dst.ID, gained, "%s heals %s with %s for %d%s", srcName, dst.Name, source, gained, crit)
	return gained
}

// ApplyEffect adds or refreshes spec on dst and updates pools and flags.
// A shield tops the pool up to its value per held stack; heal absorption
// accumulates on every application.
func (s *State) ApplyEffect(src, dst *Combatant, spec effect.Spec, stacks int) {
	if !dst.Alive() {
		return
	}
	srcID, srcName := "", "environment"
	if src != nil {
		srcID, srcName = src.ID, src.Name
	}
	a, _ := dst.Effects.Apply(spec, srcID, stacks)
	switch spec.Behavior {
	case effect.Shield:
		dst.Shield = refillShield(dst.Shield, spec, min(stacks, a.Stacks), a.Stacks)
	case effect.HealAbsorb:
		dst.HealAbsorb += int(spec.Value)
	}
	dst.RefreshFlags()
	if dst.Flags.Stunned || (dst.Flags.Silenced && dst.Cast.Ability != "" && dst.Cast.SkillIndex >= 0 && s.castIsOffensive(dst)) {
		s.Interrupt(dst, spec.Name)
	}
	s.Emit(EntryEffect, srcID, dst.ID, a.Stacks, "%s applies %s to %s (%d)", srcName, spec.Name, dst.Name, a.Stacks)
}

// refillShield returns the shield pool after applying added stacks of spec,
// the bearer now holding held stacks. A refresh never grows the pool past
// value*held.
func refillShield(pool int, spec effect.Spec, added, held int) int {
	v := max(int(spec.Value), 0)
	if !spec.Stacking() {
		return max(pool, v)
	}
	return max(pool, min(pool+v*max(added, 1), v*held))
}

func (s *State) castIsOffensive(c *Combatant) bool {
	if c.Loadout == nil || c.Cast.SkillIndex >= len(c.Loadout.Skills) {
		return false
	}
	sk := c.Loadout.Skills[c.Cast.SkillIndex].Skill
	return sk != nil && !sk.Archetype.Supportive()
}

// Interrupt cancels c's action in flight.
func (s *State) Interrupt(c *Combatant, reason string) {
	if c.Action.Is(Idle) {
		return
	}
	c.Action.Cancel()
	name := c.Cast.Ability
	c.Cast = Cast{SkillIndex: -1}
	s.Emit(EntryCancel, "", c.ID, 0, "%s's %s is interrupted by %s", c.Name, orBasic(name), reason)
}

func orBasic(ability string) string {
	if ability == "" {
		return "attack"
	}
	return ability
}
