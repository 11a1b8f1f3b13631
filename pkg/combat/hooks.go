package combat

type DamageHookType string

const (
	PreDamageHook  DamageHookType = "PRE_DAMAGE"
	PostDamageHook DamageHookType = "POST_DAMAGE"
)

//DamageHookFunc sees every health change. A pre damage hook may modify d
//before it is applied; a post damage hook sees what was applied. Returning
//true removes the hook.
type DamageHookFunc func(caster, target Creature, d *CombatDamage) bool

type damageHook struct {
	key string
	f   DamageHookFunc
}

//AddDamageHook adds a hook to the engine. Hook will be called based on the type of hook
func (e *Engine) AddDamageHook(f DamageHookFunc, key string, hook DamageHookType) {
	if e.hooks == nil {
		e.hooks = make(map[DamageHookType][]damageHook)
	}
	e.hooks[hook] = append(e.hooks[hook], damageHook{key: key, f: f})
	e.Log.Debugf("new damage hook added %v (%v)", key, hook)
}

//RemoveDamageHook drops every hook registered under key
func (e *Engine) RemoveDamageHook(key string) {
	for t, hooks := range e.hooks {
		var next []damageHook
		for _, h := range hooks {
			if h.key != key {
				next = append(next, h)
			}
		}
		e.hooks[t] = next
	}
}

func (e *Engine) executeDamageHooks(t DamageHookType, caster, target Creature, d *CombatDamage) {
	var next []damageHook
	for _, h := range e.hooks[t] {
		if !h.f(caster, target, d) {
			next = append(next, h)
		} else {
			e.Log.Debugf("damage hook %v expired", h.key)
		}
	}
	e.hooks[t] = next
}
