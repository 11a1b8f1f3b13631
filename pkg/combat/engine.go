package combat

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//Config holds the engine tunables
type Config struct {
	ProtectionLevel int           //players below this level cannot fight players
	FieldGrace      time.Duration //fields younger than this never credit their owner
	ViewportX       int           //observer margin added around an area
	ViewportY       int
	MaxCallDepth    int //nested callback limit, 0 for the default
}

const defaultMaxCallDepth = 16

func DefaultConfig() Config {
	return Config{
		ProtectionLevel: 1,
		FieldGrace:      5 * time.Second,
		ViewportX:       8,
		ViewportY:       6,
		MaxCallDepth:    defaultMaxCallDepth,
	}
}

//Deps are the collaborators the engine reads and mutates
type Deps struct {
	World     World
	Entities  Entities
	Items     Items
	Broadcast Broadcaster
	Policy    Policy

	Log  *zap.SugaredLogger
	Rand *rand.Rand
	Now  func() time.Time
}

//Engine resolves combats. It is driven from the simulation tick and is not
//safe for concurrent use.
type Engine struct {
	Log    *zap.SugaredLogger
	Rand   *rand.Rand
	Config Config

	World     World
	Entities  Entities
	Items     Items
	Broadcast Broadcaster
	Policy    Policy
	Now       func() time.Time

	guard callGuard
	hooks map[DamageHookType][]damageHook
}

func New(cfg Config, d Deps) *Engine {
	e := &Engine{
		Log:       d.Log,
		Rand:      d.Rand,
		Config:    cfg,
		World:     d.World,
		Entities:  d.Entities,
		Items:     d.Items,
		Broadcast: d.Broadcast,
		Policy:    d.Policy,
		Now:       d.Now,
		hooks:     make(map[DamageHookType][]damageHook),
	}
	if e.Log == nil {
		e.Log = zap.NewNop().Sugar()
	}
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	return e
}

//castLog tags every line of one cast with a trace id
func (e *Engine) castLog(c *Combat, caster Creature) *zap.SugaredLogger {
	l := e.Log.With("cast", uuid.NewString(), "combat", c.Name)
	if caster != nil {
		l = l.With("caster", caster.Name())
	}
	return l
}
