package ai

import "math"

// equalEpsilon is the tolerance of the equal operator.
const equalEpsilon = 0.01

// Evaluate reports whether cfg permits a cast against ctx. Every predicate
// is conjunctive. A disabled config is never eligible.
func Evaluate(cfg UsageConfig, ctx Context) bool {
	if !cfg.Enabled {
		return false
	}
	n := len(ctx.Enemies)
	if !countOK(cfg.TargetCount, n) {
		return false
	}
	if !typeOK(cfg.TargetType, ctx) {
		return false
	}
	if cfg.CooldownMode == SaveForBurst && !ctx.HasElite() && n < 3 {
		return false
	}
	for _, c := range cfg.Conditions {
		if !thresholdOK(c, ctx) {
			return false
		}
	}
	return true
}

func countOK(tc TargetCount, n int) bool {
	switch tc {
	case CountSingle:
		return n == 1
	case CountTwoPlus, CountAoE:
		return n >= 2
	case CountThreePlus:
		return n >= 3
	case CountFivePlus:
		return n >= 5
	}
	return true
}

func typeOK(tt TargetType, ctx Context) bool {
	switch tt {
	case TypeNormal:
		for _, e := range ctx.Enemies {
			if !e.Elite && !e.Boss {
				return true
			}
		}
		return false
	case TypeElitePlus:
		return ctx.HasElite()
	case TypeBoss:
		for _, e := range ctx.Enemies {
			if e.Boss {
				return true
			}
		}
		return false
	}
	return true
}

func thresholdOK(c Threshold, ctx Context) bool {
	var v float64
	switch c.Subject {
	case SelfHealth:
		v = ctx.SelfHealth
	case TankHealth:
		v = ctx.TankHealth
	case AllyHealth:
		v = ctx.LowestAllyHealth()
	case SelfMana:
		v = ctx.SelfMana
	case AlliesBelow:
		return ctx.AlliesBelow(c.Value) >= max(c.Count, 1)
	case EnemiesWithEffect:
		v = float64(ctx.EnemyEffects[c.Effect])
	case EnemiesWithoutEffect:
		v = float64(len(ctx.Enemies) - ctx.EnemyEffects[c.Effect])
	case AlliesWithEffect:
		v = float64(ctx.AllyEffects[c.Effect])
	case AlliesWithoutEffect:
		v = float64(len(ctx.AllyHealth) - ctx.AllyEffects[c.Effect])
	default:
		return false
	}
	return Compare(c.Operator, v, c.Value)
}

// Compare applies op to a and b. Unknown operators are false.
func Compare(op Operator, a, b float64) bool {
	switch op {
	case LessThan:
		return a < b
	case LessEqual:
		return a <= b
	case GreaterThan:
		return a > b
	case GreaterEqual:
		return a >= b
	case Equal:
		return math.Abs(a-b) <= equalEpsilon
	}
	return false
}
