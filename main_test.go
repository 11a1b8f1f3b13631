package main

import (
	"testing"

	"github.com/OLDtherubyproject/rubyserver-sub001/internal/arena"
	"github.com/OLDtherubyproject/rubyserver-sub001/internal/config"
	"github.com/OLDtherubyproject/rubyserver-sub001/pkg/combat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSampleScenario(t *testing.T) {
	cfg, err := config.Load("data/engine.toml")
	require.NoError(t, err)
	cfg.Logging.LogLevel = "error"

	scn, err := arena.LoadScenario("data/scenario.yaml")
	require.NoError(t, err)

	w, err := run(cfg, scn, 1)
	require.NoError(t, err)
	require.NotEmpty(t, w.Events)

	ash, gary, pidgey := w.Get(1), w.Get(2), w.Get(3)
	assert.Less(t, pidgey.Health, 120.0)
	assert.Less(t, gary.Health, 380.0)

	//the fire field was cast by a player in a pvp world
	assert.True(t, ash.HasCondition(combat.ConditionInFight))
	var placed bool
	for _, e := range w.Filter(arena.EventItemAdded) {
		if e.Item == combat.ItemFireFieldPvPFull {
			placed = true
		}
	}
	assert.True(t, placed)

	//pidgey walked into a fresh field, nobody is credited
	burn := pidgey.Condition(combat.ConditionBurn)
	require.NotNil(t, burn)
	assert.Equal(t, uint32(0), burn.Owner)
	assert.Equal(t, combat.OriginField, burn.Origin)
}

func TestRunUnknownCombat(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.LogLevel = "error"
	scn := arena.Scenario{
		Creatures: []arena.CreatureProfile{{ID: 1, Name: "a"}},
		Actions:   []arena.ActionProfile{{Combat: "nothing", Caster: 1, Target: 1}},
	}
	_, err := run(cfg, scn, 1)
	assert.Error(t, err)
}
