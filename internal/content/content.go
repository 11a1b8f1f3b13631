//Package content loads combat definitions from yaml and compiles them into
//engine combats. Combats sharing a shape share one area.
package content

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/OLDtherubyproject/rubyserver-sub001/pkg/combat"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

//Scripts resolves script function names into callback ports
type Scripts interface {
	Has(fn string) bool
	Value(fn string, mode combat.FormulaMode) combat.ValueCallback
	Tile(fn string) combat.TileCallback
	Target(fn string) combat.TargetCallback
}

type Definition struct {
	Name            string         `yaml:"Name"`
	Type            string         `yaml:"Type"`
	Origin          string         `yaml:"Origin"`
	Effect          string         `yaml:"Effect"` //health, condition, dispel or null; derived when empty
	ImpactEffect    uint16         `yaml:"ImpactEffect"`
	DistanceEffect  uint16         `yaml:"DistanceEffect"`
	ImpactSound     uint16         `yaml:"ImpactSound"`
	DistanceSound   uint16         `yaml:"DistanceSound"`
	Aggressive      *bool          `yaml:"Aggressive"` //defaults to true
	CasterOrTopMost bool           `yaml:"CasterOrTopMost"`
	BlockedByArmor  bool           `yaml:"BlockedByArmor"`
	Item            uint16         `yaml:"Item"`
	Dispel          []string       `yaml:"Dispel"`
	Base            float64        `yaml:"Base"`
	Stat            string         `yaml:"Stat"`
	Value           string         `yaml:"Value"`   //value script function
	Formula         string         `yaml:"Formula"` //arguments passed to Value, default "value"
	OnTile          string         `yaml:"OnTile"`
	OnTarget        string         `yaml:"OnTarget"`
	Conditions      []ConditionDef `yaml:"Conditions"`
	Area            *AreaDef       `yaml:"Area"`
	Ring            *RingDef       `yaml:"Ring"`
	Disc            *DiscDef       `yaml:"Disc"`
}

type ConditionDef struct {
	Type     string        `yaml:"Type"`
	Ticks    int           `yaml:"Ticks"`
	Interval time.Duration `yaml:"Interval"`
	Value    float64       `yaml:"Value"`
}

type AreaDef struct {
	Rows  int              `yaml:"Rows"`
	Cells []int            `yaml:"Cells"`
	Ext   *combat.Template `yaml:"Ext"`
}

type RingDef struct {
	Length int `yaml:"Length"`
	Spread int `yaml:"Spread"`
}

type DiscDef struct {
	Radius int `yaml:"Radius"`
}

//Library is the set of loaded combats by name
type Library struct {
	Log *zap.SugaredLogger

	scripts Scripts
	combats map[string]*combat.Combat
	areas   map[string]*combat.AreaCombat
}

func NewLibrary(log *zap.SugaredLogger, scripts Scripts) *Library {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Library{
		Log:     log,
		scripts: scripts,
		combats: make(map[string]*combat.Combat),
		areas:   make(map[string]*combat.AreaCombat),
	}
}

func (l *Library) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read combats %s: %w", path, err)
	}
	if err := l.Load(data); err != nil {
		return fmt.Errorf("combats %s: %w", path, err)
	}
	return nil
}

//Load compiles a yaml list of definitions and adds them to the library
func (l *Library) Load(data []byte) error {
	var defs []Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	for _, d := range defs {
		if _, dup := l.combats[d.Name]; dup {
			return fmt.Errorf("duplicated combat %q", d.Name)
		}
		c, err := l.Compile(d)
		if err != nil {
			return err
		}
		l.combats[d.Name] = c
		l.Log.Debugw("combat loaded", "combat", d.Name, "effect", c.Effect, "area", c.Area != nil)
	}
	return nil
}

//Get returns the combat called name, nil if there is none
func (l *Library) Get(name string) *combat.Combat {
	return l.combats[name]
}

func (l *Library) Names() []string {
	r := make([]string, 0, len(l.combats))
	for k := range l.combats {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

//Compile turns one definition into a combat. Unknown names are errors; a
//malformed shape or formula leaves that part of the combat doing nothing.
func (l *Library) Compile(d Definition) (*combat.Combat, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("combat without a name")
	}
	var p combat.CombatParams
	var ok bool

	if d.Type != "" {
		if p.DamageType, ok = combat.StrToDamageType(d.Type); !ok {
			return nil, fmt.Errorf("combat %q: unknown damage type %q", d.Name, d.Type)
		}
	}
	p.Origin = combat.OriginSpell
	if d.Origin != "" {
		if p.Origin, ok = combat.StrToCombatOrigin(d.Origin); !ok {
			return nil, fmt.Errorf("combat %q: unknown origin %q", d.Name, d.Origin)
		}
	}
	if d.Stat != "" {
		if p.DrivingStat, ok = combat.StrToCombatStat(d.Stat); !ok {
			return nil, fmt.Errorf("combat %q: unknown stat %q", d.Name, d.Stat)
		}
	}
	for _, v := range d.Dispel {
		t, ok := combat.StrToConditionType(v)
		if !ok {
			return nil, fmt.Errorf("combat %q: unknown dispel %q", d.Name, v)
		}
		p.DispelType |= t
	}
	for _, v := range d.Conditions {
		t, ok := combat.StrToConditionType(v.Type)
		if !ok {
			return nil, fmt.Errorf("combat %q: unknown condition %q", d.Name, v.Type)
		}
		p.Conditions = append(p.Conditions, &combat.Condition{
			Type:     t,
			Ticks:    v.Ticks,
			Interval: v.Interval,
			Value:    v.Value,
		})
	}

	p.ImpactEffect = combat.MagicEffect(d.ImpactEffect)
	p.DistanceEffect = combat.DistanceEffect(d.DistanceEffect)
	p.ImpactSound = combat.SoundEffect(d.ImpactSound)
	p.DistanceSound = combat.SoundEffect(d.DistanceSound)
	p.Aggressive = d.Aggressive == nil || *d.Aggressive
	p.TargetCasterOrTopMost = d.CasterOrTopMost
	p.BlockedByArmor = d.BlockedByArmor
	p.ItemID = d.Item
	p.BaseValue = d.Base

	l.bindScripts(d, &p)

	c := combat.NewCombat(d.Name, p, l.area(d))
	if d.Effect != "" {
		if c.Effect, ok = combat.StrToEffectKind(d.Effect); !ok {
			return nil, fmt.Errorf("combat %q: unknown effect %q", d.Name, d.Effect)
		}
	}
	return c, nil
}

func (l *Library) bindScripts(d Definition, p *combat.CombatParams) {
	fn := func(name string) bool {
		if name == "" {
			return false
		}
		if l.scripts == nil || !l.scripts.Has(name) {
			l.Log.Warnw("script function not found", "combat", d.Name, "fn", name)
			return false
		}
		return true
	}

	if fn(d.Value) {
		mode := combat.FormulaValue
		if d.Formula != "" {
			m, err := combat.StrToFormulaMode(d.Formula)
			if err != nil {
				l.Log.Warnw("value callback disabled", "combat", d.Name, "err", err)
				mode = combat.FormulaUndefined
			} else {
				mode = m
			}
		}
		if mode != combat.FormulaUndefined {
			p.ValueCallback = l.scripts.Value(d.Value, mode)
		}
	}
	if fn(d.OnTile) {
		p.TileCallback = l.scripts.Tile(d.OnTile)
	}
	if fn(d.OnTarget) {
		p.TargetCallback = l.scripts.Target(d.OnTarget)
	}
}

//area returns the shared area of d, an empty area when the shape is
//malformed and nil when d has no shape
func (l *Library) area(d Definition) *combat.AreaCombat {
	var key string
	var build func() (*combat.AreaCombat, error)
	switch {
	case d.Area != nil:
		a := *d.Area
		key = fmt.Sprintf("area:%v:%v", a.Rows, a.Cells)
		t := combat.Template{Rows: a.Rows, Cells: a.Cells}
		build = func() (*combat.AreaCombat, error) { return combat.BuildFromTemplate(t) }
		if a.Ext != nil {
			ext := *a.Ext
			key += fmt.Sprintf(":ext:%v:%v", ext.Rows, ext.Cells)
			build = func() (*combat.AreaCombat, error) { return combat.BuildWithExt(t, ext) }
		}
	case d.Ring != nil:
		key = fmt.Sprintf("ring:%v:%v", d.Ring.Length, d.Ring.Spread)
		r := *d.Ring
		build = func() (*combat.AreaCombat, error) { return combat.BuildRing(r.Length, r.Spread) }
	case d.Disc != nil:
		key = fmt.Sprintf("disc:%v", d.Disc.Radius)
		r := d.Disc.Radius
		build = func() (*combat.AreaCombat, error) { return combat.BuildDisc(r) }
	default:
		return nil
	}

	if a, ok := l.areas[key]; ok {
		return a
	}
	a, err := build()
	if err != nil {
		l.Log.Warnw("area disabled", "combat", d.Name, "err", err)
		a = &combat.AreaCombat{}
	}
	l.areas[key] = a
	return a
}
