package damage

import (
	"math"

	"github.com/cory-johannsen/delve/internal/game/numeric"
)

const (
	// AttributeDivisor scales a primary attribute into a damage multiplier:
	// 50 points of the relevant attribute doubles base damage.
	AttributeDivisor = 50.0
	// ArmorFloor is the minimum fraction of physical damage that always lands.
	ArmorFloor = 0.05
	// ArmorScale controls how quickly armor approaches its cap relative to the hit.
	ArmorScale = 10.0
	// MaxResist caps elemental resistances.
	MaxResist = 75.0
	// EchoMultiplier is the damage fraction of a spell echo repeat.
	EchoMultiplier = 0.8
)

// SpellInput describes a spell-like skill use (damage or healing).
type SpellInput struct {
	Base float64
	// Effectiveness is the skill's damage effectiveness in percent.
	Effectiveness float64
	// Attribute is intelligence for spells, strength or dexterity for attacks.
	Attribute float64
	Mods      Modifiers
}

// SpellPower computes the pre-crit, pre-mitigation amount of a spell:
//
//	(base + flat) * eff/100 * (1 + attr/50) * (1 + inc/100) * Π(1 + more/100) * talent * empower
func SpellPower(in SpellInput) float64 {
	eff := in.Effectiveness
	if eff == 0 {
		eff = 100
	}
	return (in.Base + in.Mods.FlatAdded) * eff / 100 *
		(1 + in.Attribute/AttributeDivisor) * in.Mods.multiplier()
}

// Range is an inclusive min/max damage roll.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Average returns the midpoint of r.
func (r Range) Average() float64 { return (r.Min + r.Max) / 2 }

// WeaponBase averages each damage channel of a weapon and sums them.
// The channel with the highest average names the type; a tie for highest
// between two or more channels yields Mixed.
func WeaponBase(channels map[Type]Range) (float64, Type) {
	total := 0.0
	best := 0.0
	dominant := Mixed
	tied := false
	for _, ch := range Channels {
		r, ok := channels[ch]
		if !ok {
			continue
		}
		avg := r.Average()
		if avg <= 0 {
			continue
		}
		total += avg
		switch {
		case avg > best:
			best, dominant, tied = avg, ch, false
		case avg == best:
			tied = true
		}
	}
	if tied || total == 0 {
		dominant = Mixed
	}
	return total, dominant
}

// AttackInput describes a weapon-based attack.
type AttackInput struct {
	WeaponAverage float64
	// Effectiveness is the skill's damage effectiveness in percent; 0 means 100.
	Effectiveness float64
	Attribute     float64
	Mods          Modifiers
}

// AttackPower computes the pre-crit amount of an attack. It follows the
// same shape as SpellPower with the weapon average standing in for base.
func AttackPower(in AttackInput) float64 {
	return SpellPower(SpellInput{
		Base:          in.WeaponAverage,
		Effectiveness: in.Effectiveness,
		Attribute:     in.Attribute,
		Mods:          in.Mods,
	})
}

// CritChance folds a base chance (fraction) with increased percent, capped at 1.
func CritChance(base, increased float64) float64 {
	return numeric.ClampFloat(base*(1+increased/100), 0, 1)
}

// RollCrit performs the independent Bernoulli crit draw.
// No draw is consumed when chance <= 0.
func RollCrit(chance float64, src Source) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 1 {
		return true
	}
	return src.Float64() < chance
}

// ArmorMultiplier is the fraction of physical damage remaining after armor.
// It strictly decreases as armor grows and never drops below ArmorFloor.
func ArmorMultiplier(armor, amount float64) float64 {
	if armor <= 0 || amount <= 0 {
		return 1
	}
	k := ArmorScale * amount
	return ArmorFloor + (1-ArmorFloor)*k/(armor+k)
}

// Mitigate applies the defender's armor or resistance, vulnerability and
// flat reduction to amount.
func Mitigate(amount float64, t Type, d Defense) float64 {
	switch {
	case t == Physical || t == Mixed:
		amount *= ArmorMultiplier(d.Armor, amount)
	case t.Elemental():
		amount *= 1 - math.Min(d.Resist(t), MaxResist)/100
	case t == Chaos:
		// negative chaos resistance amplifies
		amount *= 1 - math.Min(d.ChaosResist, MaxResist)/100
	}
	if d.DamageTaken != 0 {
		amount *= 1 + d.DamageTaken/100
	}
	if d.Reduction > 0 {
		amount *= 1 - numeric.ClampFloat(d.Reduction, 0, 1)
	}
	if amount < 0 {
		return 0
	}
	return amount
}

// ApplyBlock rolls the block check and cuts amount by reduction on success.
// No draw is consumed when chancePct <= 0.
func ApplyBlock(amount, chancePct, reduction float64, src Source) (float64, bool) {
	if chancePct <= 0 {
		return amount, false
	}
	if chancePct < 100 && src.Float64()*100 >= chancePct {
		return amount, false
	}
	return amount * (1 - numeric.ClampFloat(reduction, 0, 1)), true
}
