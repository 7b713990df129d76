package encounter

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/game/ai"
	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/effect"
)

// Context snapshots what m's usage rules may look at.
func Context(st *combat.State, m *combat.Combatant) ai.Context {
	ctx := ai.Context{
		Actor:        m.ID,
		SelfHealth:   m.HealthPercent(),
		SelfMana:     m.ManaPercent(),
		TankHealth:   100,
		EnemyEffects: map[string]int{},
		AllyEffects:  map[string]int{},
	}
	if tank := st.Tank(); tank != nil {
		ctx.TankHealth = tank.HealthPercent()
	}
	for _, o := range st.OpponentsOf(m) {
		ctx.Enemies = append(ctx.Enemies, ai.EnemyInfo{
			ID:            o.ID,
			Elite:         o.Rarity == combat.Elite,
			Boss:          o.Rarity == combat.Boss,
			HealthPercent: o.HealthPercent(),
		})
		countEffects(o.Effects, ctx.EnemyEffects)
	}
	for _, a := range st.AlliesOf(m) {
		ctx.AllyHealth = append(ctx.AllyHealth, a.HealthPercent())
		countEffects(a.Effects, ctx.AllyEffects)
	}
	return ctx
}

func countEffects(set *effect.ActiveSet, into map[string]int) {
	for _, a := range set.All() {
		into[a.Spec.Name]++
	}
}

// startMember picks m's next action. An ally under the critical threshold
// forces the heal fallback unless a heal was selected by config; otherwise
// the highest-priority eligible skill it can afford wins, else a basic attack.
func (e *Engine) startMember(t *turn, m *combat.Combatant) {
	st := t.st
	if e.dropMissing(st, m) {
		t.stats.Cancelled++
		return
	}
	ctx := Context(st, m)
	var cands []ai.Candidate
	for i, sk := range m.Loadout.Skills {
		if sk.Skill != nil && e.usage.Eligible(sk.Usage, ctx) {
			cands = append(cands, ai.Candidate{Index: i, Priority: sk.Usage.Priority})
		}
	}
	usable := func(i int) bool { return e.usable(st, m, i) }
	ranked := ai.Rank(cands)
	if !rankedHeal(m, ranked) && e.healFallback(t, m, ctx, usable) {
		return
	}
	if i, ok := ai.Choose(ranked, usable); ok {
		e.beginSkill(t, m, i)
		return
	}
	if e.healFallback(t, m, ctx, usable) {
		return
	}
	if !hasUsableSkill(m) && st.WarnOnce("no-skills:"+m.ID) {
		e.logger.Warn("character has no usable skills; falling back to basic attacks", zap.String("actor", m.ID))
		st.Emit(combat.EntryWarning, m.ID, "", 0, "%s has no usable skills", m.Name)
	}
	e.beginAttack(t, m)
}

// healFallback begins the first affordable heal when an ally is critical.
func (e *Engine) healFallback(t *turn, m *combat.Combatant, ctx ai.Context, usable func(int) bool) bool {
	i, ok := ai.HealFallback(ctx, t.st.Rules.CriticalHealthPercent, healingSlots(m), usable)
	if !ok {
		return false
	}
	e.logger.Debug("heal fallback", zap.String("actor", m.ID), zap.Int("tick", t.st.Tick))
	e.beginSkill(t, m, i)
	return true
}

// rankedHeal reports whether config selected any healing slot.
func rankedHeal(m *combat.Combatant, ranked []ai.Candidate) bool {
	for _, c := range ranked {
		if m.Loadout.Skills[c.Index].Skill.Archetype == catalog.Heal {
			return true
		}
	}
	return false
}

// dropMissing disables an enabled slot whose skill did not resolve. The
// actor's action for this tick is aborted when one is found.
func (e *Engine) dropMissing(st *combat.State, m *combat.Combatant) bool {
	for i := range m.Loadout.Skills {
		sk := &m.Loadout.Skills[i]
		if sk.Skill != nil || !sk.Usage.Enabled {
			continue
		}
		sk.Usage.Enabled = false
		if st.WarnOnce("missing-skill:" + m.ID + ":" + sk.ID) {
			e.logger.Warn("skill not in catalog; slot disabled",
				zap.String("actor", m.ID),
				zap.String("skill", sk.ID),
			)
			st.Emit(combat.EntryWarning, m.ID, "", 0, "%s cannot use unknown skill %q", m.Name, sk.ID)
		}
		return true
	}
	return false
}

func hasUsableSkill(m *combat.Combatant) bool {
	for _, sk := range m.Loadout.Skills {
		if sk.Skill != nil && sk.Usage.Enabled {
			return true
		}
	}
	return false
}

func healingSlots(m *combat.Combatant) []int {
	var out []int
	for i, sk := range m.Loadout.Skills {
		if sk.Skill != nil && sk.Usage.Enabled && sk.Skill.Archetype == catalog.Heal {
			out = append(out, i)
		}
	}
	return out
}

// usable reports whether slot i is off cooldown, affordable, permitted by
// silence and has a target.
func (e *Engine) usable(st *combat.State, m *combat.Combatant, i int) bool {
	sk := &m.Loadout.Skills[i]
	if sk.Skill == nil || sk.ReadyAt > st.Tick {
		return false
	}
	if m.Flags.Silenced && !sk.Skill.Archetype.Supportive() {
		return false
	}
	cost, life := sk.ManaCost()
	if life {
		if m.HP <= cost {
			return false
		}
	} else if m.Mana < cost {
		return false
	}
	return e.target(st, m, sk) != nil
}

// target picks the first target of sk.
func (e *Engine) target(st *combat.State, m *combat.Combatant, sk *combat.EquippedSkill) *combat.Combatant {
	s := sk.Skill
	switch s.Archetype {
	case catalog.Heal:
		return lowest(st.AlliesOf(m), func(*combat.Combatant) bool { return true })
	case catalog.HoTSpell:
		allies := st.AlliesOf(m)
		if c := lowest(allies, lacking(s.Effect.Name)); c != nil {
			return c
		}
		return lowest(allies, func(*combat.Combatant) bool { return true })
	case catalog.ShieldSpell:
		if tank := st.Tank(); tank != nil && !tank.Effects.Has(s.Effect.Name) {
			return tank
		}
		if c := lowest(st.AlliesOf(m), lacking(s.Effect.Name)); c != nil {
			return c
		}
		return st.Tank()
	case catalog.Buff:
		return m
	}
	enemies := st.OpponentsOf(m)
	if s.Archetype == catalog.DoTSpell && !s.Area {
		var fresh []*combat.Combatant
		for _, o := range enemies {
			if !o.Effects.Has(s.Effect.Name) {
				fresh = append(fresh, o)
			}
		}
		if len(fresh) > 0 {
			enemies = fresh
		}
	}
	return pickEnemy(enemies, sk.Usage.TargetType)
}

func pickEnemy(enemies []*combat.Combatant, tt ai.TargetType) *combat.Combatant {
	info := make([]ai.EnemyInfo, len(enemies))
	for i, o := range enemies {
		info[i] = ai.EnemyInfo{
			ID:            o.ID,
			Elite:         o.Rarity == combat.Elite,
			Boss:          o.Rarity == combat.Boss,
			HealthPercent: o.HealthPercent(),
		}
	}
	if i := ai.PickTarget(tt, info); i >= 0 {
		return enemies[i]
	}
	return nil
}

func lacking(name string) func(*combat.Combatant) bool {
	return func(c *combat.Combatant) bool { return !c.Effects.Has(name) }
}

// lowest returns the candidate with the lowest health percent, first wins ties.
func lowest(cs []*combat.Combatant, ok func(*combat.Combatant) bool) *combat.Combatant {
	var best *combat.Combatant
	for _, c := range cs {
		if ok(c) && (best == nil || c.HealthPercent() < best.HealthPercent()) {
			best = c
		}
	}
	return best
}

// beginSkill pays for slot i, commits its cooldown and starts the cast.
// Channels pay per pulse instead.
func (e *Engine) beginSkill(t *turn, m *combat.Combatant, i int) {
	st := t.st
	sk := &m.Loadout.Skills[i]
	target := e.target(st, m, sk)
	if err := m.Action.Begin(); err != nil {
		e.logger.Error("member action machine rejected cast", zap.String("actor", m.ID), zap.Error(err))
		return
	}
	if sk.Skill.Archetype != catalog.Channel {
		pay(m, sk)
	}
	if sk.Skill.Cooldown > 0 {
		sk.ReadyAt = st.Tick + st.Rules.Seconds(sk.Skill.Cooldown)
	}
	ticks := castTicks(st, m, sk, fold(sk.Supports))
	m.Cast = combat.Cast{
		Ability:    sk.Skill.ID,
		TargetID:   target.ID,
		SkillIndex: i,
		StartTick:  st.Tick,
		EndTick:    st.Tick + ticks,
	}
	t.stats.Started++
	st.Emit(combat.EntryCast, m.ID, target.ID, ticks, "%s begins casting %s on %s", m.Name, sk.Skill.Name, target.Name)
}

func pay(m *combat.Combatant, sk *combat.EquippedSkill) {
	cost, life := sk.ManaCost()
	if life {
		m.HP = max(m.HP-cost, 1)
		return
	}
	m.SpendMana(cost)
}

// beginAttack starts a basic weapon swing at the chosen enemy.
func (e *Engine) beginAttack(t *turn, m *combat.Combatant) {
	st := t.st
	target := pickEnemy(st.OpponentsOf(m), ai.TypeAny)
	if target == nil {
		return
	}
	if err := m.Action.Begin(); err != nil {
		return
	}
	sk := &combat.EquippedSkill{Skill: basicAttack}
	m.Cast = combat.Cast{
		TargetID:   target.ID,
		SkillIndex: -1,
		StartTick:  st.Tick,
		EndTick:    st.Tick + castTicks(st, m, sk, folded{}),
	}
	t.stats.Started++
}

// finishMember resolves m's completed wind-up. Channels move into their
// pulse phase; everything else resolves now.
func (e *Engine) finishMember(t *turn, m *combat.Combatant) {
	st := t.st
	sk := &combat.EquippedSkill{Skill: basicAttack}
	if m.Cast.SkillIndex >= 0 {
		sk = &m.Loadout.Skills[m.Cast.SkillIndex]
	}
	if sk.Skill == nil {
		st.Interrupt(m, "a missing skill")
		return
	}
	target := e.castTarget(st, m, sk)
	if target == nil {
		st.Interrupt(m, "target lost")
		return
	}
	if sk.Skill.Archetype == catalog.Channel {
		_ = m.Action.Channel()
		m.Cast.TargetID = target.ID
		m.Cast.Interval = channelInterval(st, m, sk, fold(sk.Supports))
		m.Cast.NextTick = st.Tick
		e.pulse(t, m)
		return
	}
	_ = m.Action.Resolve()
	m.Cast = combat.Cast{SkillIndex: -1}
	t.stats.Resolved++
	if sk.Skill.Archetype.Supportive() {
		e.support(t, m, sk, target)
		return
	}
	e.strike(t, m, sk, target, 0)
	if sk.Skill.Archetype == catalog.Attack {
		m.Loadout.AdvanceWeapon()
	}
}

// castTarget revalidates the locked target. A dead single target loses the
// cast; an area cast moves to the first remaining opponent.
func (e *Engine) castTarget(st *combat.State, m *combat.Combatant, sk *combat.EquippedSkill) *combat.Combatant {
	if sk.Skill.Archetype == catalog.Buff {
		return m
	}
	target := st.Find(m.Cast.TargetID)
	if target != nil && target.Alive() {
		return target
	}
	if sk.Skill.Area && !sk.Skill.Archetype.Supportive() {
		if rest := st.OpponentsOf(m); len(rest) > 0 {
			return rest[0]
		}
	}
	return nil
}

// pulse runs one channel sub-tick. The channel ends when m cannot pay,
// no opponent remains, or the ramp cap is reached with StopAtRampCap set.
func (e *Engine) pulse(t *turn, m *combat.Combatant) {
	st := t.st
	sk := &m.Loadout.Skills[m.Cast.SkillIndex]
	s := sk.Skill
	cost, life := sk.ManaCost()
	switch {
	case life && m.HP <= cost, !life && m.Mana < cost:
		e.endChannel(t, m, "out of mana")
		return
	case len(st.OpponentsOf(m)) == 0:
		e.endChannel(t, m, "no targets")
		return
	}
	target := st.Find(m.Cast.TargetID)
	if target == nil || !target.Alive() {
		target = pickEnemy(st.OpponentsOf(m), sk.Usage.TargetType)
		m.Cast.TargetID = target.ID
	}
	pay(m, sk)
	e.strike(t, m, sk, target, m.Cast.Stage)
	if m.Cast.Stage >= s.MaxRamp && s.StopAtRampCap {
		e.endChannel(t, m, "")
		return
	}
	if m.Cast.Stage < s.MaxRamp {
		m.Cast.Stage++
	}
	m.Cast.NextTick = st.Tick + m.Cast.Interval
}

func (e *Engine) endChannel(t *turn, m *combat.Combatant, reason string) {
	st := t.st
	name := m.Cast.Ability
	_ = m.Action.Resolve()
	m.Cast = combat.Cast{SkillIndex: -1}
	t.stats.Resolved++
	if reason != "" {
		st.Emit(combat.EntryCast, m.ID, "", 0, "%s stops channeling %s: %s", m.Name, name, reason)
	}
}
