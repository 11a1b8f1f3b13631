package arena

import (
	"fmt"
	"os"
	"time"

	"github.com/OLDtherubyproject/rubyserver-sub001/pkg/combat"
	"gopkg.in/yaml.v2"
)

//Scenario is a world set up plus the actions to run against it
type Scenario struct {
	Label     string            `yaml:"Label"`
	World     string            `yaml:"World"`
	Tiles     []TileProfile     `yaml:"Tiles"`
	Creatures []CreatureProfile `yaml:"Creatures"`
	Fields    []FieldProfile    `yaml:"Fields"`
	Actions   []ActionProfile   `yaml:"Actions"`
}

type TileProfile struct {
	Pos   combat.Position `yaml:"Pos"`
	Zone  string          `yaml:"Zone"`
	Flags []string        `yaml:"Flags"`
}

type CreatureProfile struct {
	ID         uint32          `yaml:"ID"`
	Name       string          `yaml:"Name"`
	Kind       string          `yaml:"Kind"`
	Master     uint32          `yaml:"Master"`
	Pos        combat.Position `yaml:"Pos"`
	Level      int             `yaml:"Level"`
	Health     float64         `yaml:"Health"`
	Stats      StatsProfile    `yaml:"Stats"`
	Types      []string        `yaml:"Types"`
	Flags      []string        `yaml:"Flags"`
	Immune     []string        `yaml:"Immune"`
	Protected  bool            `yaml:"Protected"`
	Riding     bool            `yaml:"Riding"`
	Secure     bool            `yaml:"Secure"`
	Marked     bool            `yaml:"Marked"`
	AttackedBy []uint32        `yaml:"AttackedBy"`
}

type StatsProfile struct {
	Attack         float64 `yaml:"Attack"`
	SpecialAttack  float64 `yaml:"SpecialAttack"`
	Defense        float64 `yaml:"Defense"`
	SpecialDefense float64 `yaml:"SpecialDefense"`
}

type FieldProfile struct {
	Item  uint16          `yaml:"Item"`
	Owner uint32          `yaml:"Owner"`
	Pos   combat.Position `yaml:"Pos"`
	Age   time.Duration   `yaml:"Age"`
}

//ActionProfile is either a cast (Combat set) or a move (MoveTo set)
type ActionProfile struct {
	Combat string           `yaml:"Combat"`
	Caster uint32           `yaml:"Caster"`
	Target uint32           `yaml:"Target"`
	Pos    *combat.Position `yaml:"Pos"`
	Mover  uint32           `yaml:"Mover"`
	MoveTo *combat.Position `yaml:"MoveTo"`
}

func LoadScenario(path string) (Scenario, error) {
	var s Scenario
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read scenario %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return s, nil
}

var zoneNames = map[string]combat.ZoneType{
	"":           combat.ZoneNormal,
	"normal":     combat.ZoneNormal,
	"protection": combat.ZoneProtection,
	"nopvp":      combat.ZoneNoPvP,
	"pvp":        combat.ZonePvP,
}

var tileFlagNames = map[string]combat.TileFlag{
	"block_projectile": combat.TileBlockProjectile,
	"floor_change":     combat.TileFloorChange,
	"teleport":         combat.TileTeleport,
}

var kindNames = map[string]combat.Kind{
	"":         combat.KindCreature,
	"creature": combat.KindCreature,
	"player":   combat.KindPlayer,
	"summon":   combat.KindSummon,
}

var playerFlagNames = map[string]combat.PlayerFlag{
	"cannot_use_combat":      combat.FlagCannotUseCombat,
	"cannot_attack_player":   combat.FlagCannotAttackPlayer,
	"cannot_attack_monster":  combat.FlagCannotAttackMonster,
	"cannot_be_attacked":     combat.FlagCannotBeAttacked,
	"ignore_protection_zone": combat.FlagIgnoreProtectionZone,
}

//Build populates w. Creatures are added in order so masters must come
//before their summons. An empty World keeps w's current world type.
func (s Scenario) Build(w *World) error {
	if s.World != "" {
		t, ok := combat.StrToWorldType(s.World)
		if !ok {
			return fmt.Errorf("unknown world type %q", s.World)
		}
		w.Type = t
	}

	for _, v := range s.Tiles {
		zone, ok := zoneNames[v.Zone]
		if !ok {
			return fmt.Errorf("tile %v: unknown zone %q", v.Pos, v.Zone)
		}
		var flags combat.TileFlag
		for _, f := range v.Flags {
			tf, ok := tileFlagNames[f]
			if !ok {
				return fmt.Errorf("tile %v: unknown flag %q", v.Pos, f)
			}
			flags |= tf
		}
		w.SetTile(v.Pos, zone, flags)
	}

	for _, v := range s.Creatures {
		spec, err := v.spec()
		if err != nil {
			return err
		}
		if _, err := w.Add(spec); err != nil {
			return err
		}
	}

	for _, v := range s.Fields {
		if _, err := w.PlaceField(v.Item, v.Owner, v.Pos, v.Age); err != nil {
			return err
		}
	}
	return nil
}

func (v CreatureProfile) spec() (CreatureSpec, error) {
	kind, ok := kindNames[v.Kind]
	if !ok {
		return CreatureSpec{}, fmt.Errorf("creature %v: unknown kind %q", v.ID, v.Kind)
	}
	spec := CreatureSpec{
		ID:     v.ID,
		Name:   v.Name,
		Kind:   kind,
		Master: v.Master,
		Pos:    v.Pos,
		Level:  v.Level,
		Stats: combat.Stats{
			Attack:         v.Stats.Attack,
			SpecialAttack:  v.Stats.SpecialAttack,
			Defense:        v.Stats.Defense,
			SpecialDefense: v.Stats.SpecialDefense,
		},
		Protected:  v.Protected,
		Health:     v.Health,
		Riding:     v.Riding,
		Secure:     v.Secure,
		Marked:     v.Marked,
		AttackedBy: v.AttackedBy,
	}
	if len(v.Types) > 2 {
		return spec, fmt.Errorf("creature %v: at most two types", v.ID)
	}
	for i, name := range v.Types {
		dt, ok := combat.StrToDamageType(name)
		if !ok {
			return spec, fmt.Errorf("creature %v: unknown type %q", v.ID, name)
		}
		spec.Types[i] = dt
	}
	for _, f := range v.Flags {
		pf, ok := playerFlagNames[f]
		if !ok {
			return spec, fmt.Errorf("creature %v: unknown flag %q", v.ID, f)
		}
		spec.Flags |= pf
	}
	for _, name := range v.Immune {
		ct, ok := combat.StrToConditionType(name)
		if !ok {
			return spec, fmt.Errorf("creature %v: unknown condition %q", v.ID, name)
		}
		spec.Immune |= ct
	}
	return spec, nil
}

//Run plays the scenario actions in order against e. lookup resolves
//combat names.
func (s Scenario) Run(w *World, e *combat.Engine, lookup func(name string) *combat.Combat) error {
	for i, a := range s.Actions {
		switch {
		case a.MoveTo != nil:
			c := w.Get(a.Mover)
			if c == nil {
				return fmt.Errorf("action %v: unknown creature %v", i, a.Mover)
			}
			w.Move(c, *a.MoveTo)

		case a.Combat != "":
			c := lookup(a.Combat)
			if c == nil {
				return fmt.Errorf("action %v: unknown combat %q", i, a.Combat)
			}
			var caster combat.Creature
			if a.Caster != 0 {
				cc := w.Get(a.Caster)
				if cc == nil {
					return fmt.Errorf("action %v: unknown caster %v", i, a.Caster)
				}
				caster = cc
			}

			if a.Pos != nil {
				if c.Area != nil {
					e.DoAreaCombat(c, caster, *a.Pos)
				} else if top := w.Tile(*a.Pos).TopCreature(); top != nil {
					e.DoCombat(c, caster, top)
				}
				continue
			}
			t := w.Get(a.Target)
			if t == nil {
				return fmt.Errorf("action %v: unknown target %v", i, a.Target)
			}
			e.Execute(c, caster, t)

		default:
			return fmt.Errorf("action %v: neither a cast nor a move", i)
		}
	}
	return nil
}
