package encounter

import (
	"math"
	"slices"

	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/damage"
	"github.com/cory-johannsen/delve/internal/game/dice"
	"github.com/cory-johannsen/delve/internal/game/effect"
)

// UnarmedDamage is the weapon average of an empty hand.
const UnarmedDamage = 2.0

// basicAttack is the skill every member falls back to.
var basicAttack = &catalog.SkillDef{
	ID:            "attack",
	Name:          "Attack",
	Archetype:     catalog.Attack,
	Effectiveness: 100,
}

// folded is the sum of a slot's support modifiers.
type folded struct {
	added       float64
	increased   float64
	more        []float64
	castSpeed   float64
	attackSpeed float64
	targets     int
	pierce      int
	chains      int
	echo        bool
	lifesteal   float64
	crit        float64
}

func fold(sups []*catalog.SupportDef) folded {
	var f folded
	for _, s := range sups {
		f.added += s.AddedDamage
		f.increased += s.IncreasedDamage
		if s.MoreDamage != 0 {
			f.more = append(f.more, s.MoreDamage)
		}
		f.castSpeed += s.CastSpeed
		f.attackSpeed += s.AttackSpeed
		f.targets += s.AdditionalTargets
		f.pierce += s.Pierce
		f.chains += s.Chains
		f.echo = f.echo || s.Echo
		f.lifesteal += s.Lifesteal
		f.crit += s.IncreasedCritChance
	}
	return f
}

// castTicks is the wind-up of sk for m: weapon speed for attacks, cast time
// for everything else, both scaled by increased speed and slow or haste.
func castTicks(st *combat.State, m *combat.Combatant, sk *combat.EquippedSkill, f folded) int {
	var base, speed float64
	if sk.Skill.Archetype.UsesWeapon() {
		base = float64(st.Rules.TicksPerSecond)
		if w := m.Loadout.Weapon(); w != nil {
			base = float64(w.AttackTicks(st.Rules.TicksPerSecond))
		}
		speed = 1 + (m.Stats.IncreasedAttackSpeed+f.attackSpeed)/100
	} else {
		base = sk.Skill.CastTime * float64(st.Rules.TicksPerSecond)
		speed = 1 + (m.Stats.IncreasedCastSpeed+f.castSpeed)/100
	}
	speed = max(speed, 0.1)
	return max(int(math.Ceil(base*m.Effects.SpeedMultiplier()/speed-1e-9)), 1)
}

func channelInterval(st *combat.State, m *combat.Combatant, sk *combat.EquippedSkill, f folded) int {
	speed := max(1+(m.Stats.IncreasedCastSpeed+f.castSpeed)/100, 0.1)
	return max(st.Rules.Seconds(sk.Skill.ChannelInterval*m.Effects.SpeedMultiplier()/speed), 1)
}

func modifiers(m *combat.Combatant, f folded) damage.Modifiers {
	return damage.Modifiers{
		FlatAdded: m.Stats.FlatDamage + f.added,
		Increased: m.Stats.IncreasedDamage + f.increased,
		More:      f.more,
		Talent:    m.Loadout.TalentMultiplier(),
		Empower:   1 + m.Effects.Sum(effect.Empower)/100,
	}
}

// weaponProfile returns the average, nominal type, crit chance and scaling
// attribute of m's next weapon swing.
func weaponProfile(m *combat.Combatant) (float64, damage.Type, float64, float64) {
	w := m.Loadout.Weapon()
	if w == nil {
		return UnarmedDamage, damage.Physical, 0, m.Stats.Strength
	}
	avg, typ := w.Average()
	attr := m.Stats.Strength
	if w.IsRanged() {
		attr = m.Stats.Dexterity
	}
	return avg, typ, w.CritChance, attr
}

// offense computes the pre-mitigation amount, type and crit chance of one
// use of sk. stage is the channel ramp stage.
func offense(m *combat.Combatant, sk *combat.EquippedSkill, f folded, stage int) (float64, damage.Type, float64) {
	s := sk.Skill
	mods := modifiers(m, f)
	if stage > 0 && s.RampPerStage > 0 {
		mods.More = append(slices.Clone(mods.More), float64(stage)*s.RampPerStage)
	}
	var amount, crit float64
	typ := s.DamageType
	if s.Archetype.UsesWeapon() {
		avg, wtyp, wcrit, attr := weaponProfile(m)
		amount = damage.AttackPower(damage.AttackInput{
			WeaponAverage: avg,
			Effectiveness: s.Effectiveness,
			Attribute:     attr,
			Mods:          mods,
		})
		typ = wtyp
		crit = wcrit + s.CritChance
	} else {
		amount = damage.SpellPower(damage.SpellInput{
			Base:          s.BaseDamage(),
			Effectiveness: s.Effectiveness,
			Attribute:     m.Stats.Intelligence,
			Mods:          mods,
		})
		crit = s.CritChance
	}
	if typ == "" {
		typ = damage.Physical
	}
	return amount, typ, damage.CritChance(crit+m.Stats.CritChance, m.Stats.IncreasedCritChance+f.crit)
}

// healing is the spell-power formula applied to a healing base. Flat and
// increased damage from gear do not apply.
func healing(m *combat.Combatant, s *catalog.SkillDef, f folded, base float64) float64 {
	return damage.SpellPower(damage.SpellInput{
		Base:          base,
		Effectiveness: s.Effectiveness,
		Attribute:     m.Stats.Intelligence,
		Mods: damage.Modifiers{
			Increased: f.increased,
			More:      f.more,
			Talent:    m.Loadout.TalentMultiplier(),
		},
	})
}

// confused rolls m's confusion miss chance. A miss is logged against target.
func confused(st *combat.State, m, target *combat.Combatant, source string) bool {
	if m.Flags.MissChance <= 0 || !dice.Chance(st.RNG, m.Flags.MissChance/100) {
		return false
	}
	st.Emit(combat.EntryMiss, m.ID, target.ID, 0, "%s is confused and %s misses", m.Name, source)
	st.Float(target, 0, combat.FloatMiss)
	return true
}

// strike resolves one offensive use of sk with primary as the first target.
// Every planned strike is resolved against its target's own defenses; an
// echo repeats the whole plan at damage.EchoMultiplier.
func (e *Engine) strike(t *turn, m *combat.Combatant, sk *combat.EquippedSkill, primary *combat.Combatant, stage int) {
	st := t.st
	s := sk.Skill
	if confused(st, m, primary, s.Name) {
		return
	}
	f := fold(sk.Supports)
	enemies := st.OpponentsOf(m)
	pi := slices.Index(enemies, primary)
	plan := damage.Plan(len(enemies), pi, s.Pattern(f.targets, f.pierce, f.chains), st.RNG)
	amount, typ, crit := offense(m, sk, f, stage)

	passes := []float64{1}
	if f.echo {
		passes = append(passes, damage.EchoMultiplier)
	}
	leeched := 0
	applied := map[string]bool{}
	for _, mult := range passes {
		for _, sp := range plan {
			target := enemies[sp.TargetIndex]
			if !target.Alive() {
				continue
			}
			hit := damage.Resolve(damage.Request{
				Amount:         amount * sp.Multiplier * mult,
				Type:           typ,
				CritChance:     crit,
				CritMultiplier: m.Stats.CritMultiplier,
				Defense:        target.Defense(),
				BlockReduction: st.Rules.BlockReduction,
			}, st.RNG)
			if hit.Sanitized {
				t.stats.Sanitized++
				e.warnNumeric(st, m, s.ID)
			}
			leeched += st.DealDamage(m, target, hit, s.Name).Lost()
			if s.Effect != nil && target.Alive() && !applied[target.ID] {
				applied[target.ID] = true
				st.ApplyEffect(m, target, *s.Effect, 1)
			}
		}
	}
	if f.lifesteal > 0 && leeched > 0 && m.Alive() {
		h := damage.ResolveHeal(damage.HealRequest{
			Amount: float64(leeched) * f.lifesteal / 100,
			Absorb: m.HealAbsorb,
		}, st.RNG)
		st.ApplyHeal(m, m, h, "Lifesteal")
	}
}

// support resolves a healing, shield or buff skill onto target.
func (e *Engine) support(t *turn, m *combat.Combatant, sk *combat.EquippedSkill, target *combat.Combatant) {
	st := t.st
	s := sk.Skill
	f := fold(sk.Supports)
	switch s.Archetype {
	case catalog.Heal:
		h := damage.ResolveHeal(damage.HealRequest{
			Amount:         healing(m, s, f, s.BaseHealing),
			CritChance:     damage.CritChance(s.CritChance+m.Stats.CritChance, m.Stats.IncreasedCritChance+f.crit),
			CritMultiplier: m.Stats.CritMultiplier,
			Absorb:         target.HealAbsorb,
		}, st.RNG)
		if h.Sanitized {
			t.stats.Sanitized++
			e.warnNumeric(st, m, s.ID)
		}
		st.ApplyHeal(m, target, h, s.Name)
	case catalog.HoTSpell, catalog.ShieldSpell:
		spec := *s.Effect
		base := spec.Value
		if s.Archetype == catalog.ShieldSpell && s.BaseHealing > 0 {
			base = s.BaseHealing
		}
		spec.Value = math.Floor(healing(m, s, f, base))
		st.ApplyEffect(m, target, spec, 1)
	case catalog.Buff:
		targets := []*combat.Combatant{m}
		if s.Area {
			targets = st.AlliesOf(m)
		}
		for _, a := range targets {
			st.ApplyEffect(m, a, *s.Effect, 1)
		}
	}
}
