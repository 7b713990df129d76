package ai

import "github.com/cory-johannsen/delve/internal/game/catalog"

// DefaultUsage returns the config a skill gets when first equipped.
func DefaultUsage(s *catalog.SkillDef) UsageConfig {
	cfg := UsageConfig{
		Enabled:      true,
		Priority:     50,
		TargetCount:  CountAny,
		TargetType:   TypeAny,
		CooldownMode: CooldownNormal,
	}
	if s.Cooldown > 0 {
		cfg.CooldownMode = OnCooldown
	}
	effectName := ""
	if s.Effect != nil {
		effectName = s.Effect.Name
	}

	switch s.Archetype {
	case catalog.Attack, catalog.Projectile, catalog.Spell:
		if s.Area || s.Chains > 0 || s.Projectiles > 1 {
			cfg.Priority = 60
			cfg.TargetCount = CountAoE
		}
	case catalog.Channel:
		cfg.Priority = 40
		cfg.Conditions = []Threshold{{Subject: SelfMana, Operator: GreaterThan, Value: 20}}
	case catalog.DoTSpell:
		cfg.Priority = 55
		cfg.Conditions = []Threshold{{Subject: EnemiesWithoutEffect, Operator: GreaterEqual, Value: 1, Effect: effectName}}
	case catalog.Heal:
		cfg.Priority = 80
		cfg.Conditions = []Threshold{{Subject: AllyHealth, Operator: LessThan, Value: 70}}
	case catalog.HoTSpell:
		cfg.Priority = 70
		cfg.Conditions = []Threshold{
			{Subject: AllyHealth, Operator: LessThan, Value: 90},
			{Subject: AlliesWithoutEffect, Operator: GreaterEqual, Value: 1, Effect: effectName},
		}
	case catalog.ShieldSpell:
		cfg.Priority = 75
		cfg.Conditions = []Threshold{
			{Subject: TankHealth, Operator: LessThan, Value: 80},
			{Subject: AlliesWithoutEffect, Operator: GreaterEqual, Value: 1, Effect: effectName},
		}
	case catalog.Buff:
		cfg.Priority = 90
		cfg.CooldownMode = SaveForBurst
		cfg.Conditions = []Threshold{{Subject: AlliesWithoutEffect, Operator: GreaterEqual, Value: 1, Effect: effectName}}
	}
	return cfg
}
