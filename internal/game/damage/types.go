// Package damage computes the final amount of one damage or healing instance.
//
// Every formula works in float64 and only floors at the very end through
// numeric.Floor. Non-finite intermediates are caught by numeric.Sanitize and
// reported through Hit.Sanitized so the caller can log them once.
package damage

// Type is the nominal damage type of a hit.
type Type string

const (
	Physical  Type = "physical"
	Fire      Type = "fire"
	Cold      Type = "cold"
	Lightning Type = "lightning"
	Chaos     Type = "chaos"
	Mixed     Type = "mixed"
)

// Channels lists the concrete damage channels in their canonical order.
// Weapon averages and dominance checks always iterate in this order.
var Channels = []Type{Physical, Fire, Cold, Lightning, Chaos}

// Valid reports whether t is a recognized type.
func (t Type) Valid() bool {
	switch t {
	case Physical, Fire, Cold, Lightning, Chaos, Mixed:
		return true
	}
	return false
}

// Elemental reports whether t is mitigated by an elemental resistance.
func (t Type) Elemental() bool {
	return t == Fire || t == Cold || t == Lightning
}

// Source is the randomness the pipeline draws from.
// Defined locally so this package does not depend on dice.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// Modifiers is the folded set of scaling terms applying to one skill use.
// Support gems, gear and buffs all contribute here.
type Modifiers struct {
	// FlatAdded is added to the base before any multiplier.
	FlatAdded float64
	// Increased is a sum of percentages applied as one (1 + sum/100) factor.
	Increased float64
	// More are independent percentage multipliers.
	More []float64
	// Talent is a plain multiplier; 0 is treated as 1.
	Talent float64
	// Empower is the temporary haste/empower multiplier; 0 is treated as 1.
	Empower float64
}

func (m Modifiers) multiplier() float64 {
	mult := 1 + m.Increased/100
	for _, more := range m.More {
		mult *= 1 + more/100
	}
	if m.Talent != 0 {
		mult *= m.Talent
	}
	if m.Empower != 0 {
		mult *= m.Empower
	}
	return mult
}

// Defense is the mitigation profile of the receiving actor.
type Defense struct {
	Armor           float64
	FireResist      float64
	ColdResist      float64
	LightningResist float64
	ChaosResist     float64
	// BlockChance is a percentage in [0, 100].
	BlockChance float64
	// DamageTaken is an increase in percent applied after resistances (vulnerability).
	DamageTaken float64
	// Reduction is a flat fraction in [0, 1) removed after everything else,
	// such as an environment's player damage reduction.
	Reduction float64
}

// Resist returns the resistance percentage for t.
func (d Defense) Resist(t Type) float64 {
	switch t {
	case Fire:
		return d.FireResist
	case Cold:
		return d.ColdResist
	case Lightning:
		return d.LightningResist
	case Chaos:
		return d.ChaosResist
	}
	return 0
}
