package combat

import (
	"sort"
	"strings"
	"time"
)

//ConditionType is a bit flag so dispel can name several kinds at once
type ConditionType uint32

const (
	ConditionNone      ConditionType = 0
	ConditionPoison    ConditionType = 1 << 0
	ConditionBurn      ConditionType = 1 << 1
	ConditionParalyze  ConditionType = 1 << 2
	ConditionSleep     ConditionType = 1 << 3
	ConditionFreeze    ConditionType = 1 << 4
	ConditionConfusion ConditionType = 1 << 5
	ConditionBleed     ConditionType = 1 << 6
	ConditionDrown     ConditionType = 1 << 7
	ConditionHaste     ConditionType = 1 << 8
	ConditionRegen     ConditionType = 1 << 9
	ConditionInFight   ConditionType = 1 << 10
)

var conditionNames = map[string]ConditionType{
	"none":      ConditionNone,
	"poison":    ConditionPoison,
	"burn":      ConditionBurn,
	"paralyze":  ConditionParalyze,
	"sleep":     ConditionSleep,
	"freeze":    ConditionFreeze,
	"confusion": ConditionConfusion,
	"bleed":     ConditionBleed,
	"drown":     ConditionDrown,
	"haste":     ConditionHaste,
	"regen":     ConditionRegen,
	"infight":   ConditionInFight,
}

func StrToConditionType(s string) (ConditionType, bool) {
	c, ok := conditionNames[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

func (c ConditionType) String() string {
	if c == ConditionNone {
		return "none"
	}
	var parts []string
	for name, v := range conditionNames {
		if v != ConditionNone && c&v != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	//map order is random
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

//Condition is a status condition template. Combats and fields hold
//templates; targets always receive a Clone.
type Condition struct {
	Type     ConditionType
	Ticks    int           //number of ticks, -1 for permanent
	Interval time.Duration //time between ticks
	Value    float64       //per tick delta, negative for damage
	Owner    uint32        //creature id credited for the condition, 0 for none
	Origin   CombatOrigin
}

func (c *Condition) Clone() *Condition {
	if c == nil {
		return nil
	}
	n := *c
	return &n
}

func (c *Condition) IsAggressive() bool {
	return c.Value < 0 || c.Type&(ConditionParalyze|ConditionSleep|ConditionFreeze|ConditionConfusion) != 0
}
