package combat

import "math/rand"

const (
	sameTypeBonus  = 1.5
	varianceMin    = 0.85
	varianceMax    = 1.00
	formulaDivisor = 50.0
	formulaOffset  = 2.0
)

//FormulaInput is everything ComputeDamage reads
type FormulaInput struct {
	Caster      Stats
	Target      Stats
	Base        float64
	Stat        CombatStat
	CasterTypes [2]DamageType
	DamageType  DamageType
}

//TypeModifier is the same type bonus for a cast of type dt
func TypeModifier(casterTypes [2]DamageType, dt DamageType) float64 {
	if dt == casterTypes[0] || dt == casterTypes[1] {
		return sameTypeBonus
	}
	return 1
}

//Variance draws the random multiplier in [0.85, 1.00]
func Variance(r *rand.Rand) float64 {
	return varianceMin + r.Float64()*(varianceMax-varianceMin)
}

//ComputeDamage returns the signed health delta for one target. The draw from
//r is taken before anything else so a seeded source reproduces results.
func ComputeDamage(r *rand.Rand, in FormulaInput) float64 {
	return computeDamage(in, Variance(r))
}

func computeDamage(in FormulaInput, variance float64) float64 {
	typeMod := TypeModifier(in.CasterTypes, in.DamageType)

	v := in.Base
	switch in.Stat {
	case StatAttack:
		v *= ratio(in.Caster.Attack, in.Target.Defense)
	case StatSpecialAttack:
		v *= ratio(in.Caster.SpecialAttack, in.Target.SpecialDefense)
	}

	v /= formulaDivisor

	//the offset follows the sign of v; zero takes none
	switch {
	case v > 0:
		v += formulaOffset
	case v < 0:
		v -= formulaOffset
	}

	return v * typeMod * variance
}

//ratio treats a non positive defense as 1
func ratio(atk, def float64) float64 {
	if def <= 0 {
		def = 1
	}
	return atk / def
}
