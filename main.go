package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/OLDtherubyproject/rubyserver-sub001/internal/arena"
	"github.com/OLDtherubyproject/rubyserver-sub001/internal/config"
	"github.com/OLDtherubyproject/rubyserver-sub001/internal/content"
	"github.com/OLDtherubyproject/rubyserver-sub001/internal/logging"
	"github.com/OLDtherubyproject/rubyserver-sub001/internal/script"
	"github.com/OLDtherubyproject/rubyserver-sub001/pkg/combat"
)

func main() {
	cfgPath := flag.String("c", "", "engine config (toml); defaults when empty")
	scnPath := flag.String("p", "scenario.yaml", "which scenario to run")
	debug := flag.String("d", "", "output level: debug, info, warn; overrides the config")
	f := flag.String("o", "", "detailed log file")
	showCaller := flag.Bool("x", false, "show caller in debug log")
	seed := flag.Int64("s", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *debug != "" {
		cfg.Logging.LogLevel = *debug
	}
	if *f != "" {
		cfg.Logging.LogFile = *f
		os.Remove(*f)
	}
	if *showCaller {
		cfg.Logging.LogShowCaller = true
	}

	scn, err := arena.LoadScenario(*scnPath)
	if err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	w, err := run(cfg, scn, *seed)
	if err != nil {
		log.Fatal(err)
	}
	elapsed := time.Since(start)

	for _, e := range w.Events {
		fmt.Println(e)
	}
	summary(w)
	fmt.Printf("Running scenario %v (%v), %v actions, %v events. Sim took %s\n", *scnPath, scn.Label, len(scn.Actions), len(w.Events), elapsed)
}

//run wires config, scripts, content and the scenario world into one engine
//and plays the scenario
func run(cfg *config.Config, scn arena.Scenario, seed int64) (*arena.World, error) {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	host := script.New(logger, script.Options{
		CallStackSize: cfg.Lua.CallStackSize,
		Timeout:       cfg.Lua.Timeout,
	})
	defer host.Close()
	for _, p := range cfg.Lua.Scripts {
		if err := host.LoadFile(p); err != nil {
			return nil, err
		}
	}

	lib := content.NewLibrary(logger, host)
	for _, p := range cfg.Content.Combats {
		if err := lib.LoadFile(p); err != nil {
			return nil, err
		}
	}

	w := arena.New(logger)
	if w.Type, err = cfg.WorldType(); err != nil {
		return nil, err
	}
	if err := scn.Build(w); err != nil {
		return nil, err
	}

	e := combat.New(cfg.Engine(), combat.Deps{
		World:     w,
		Entities:  w,
		Items:     w,
		Broadcast: w,
		Log:       logger,
		Rand:      rand.New(rand.NewSource(seed)),
		Now:       w.Now,
	})
	w.OnStep = e.OnStepInField
	host.Bind(e, lib.Get)

	logger.Infow("scenario start", "label", scn.Label, "world", w.Type, "combats", len(lib.Names()), "seed", seed)
	if err := scn.Run(w, e, lib.Get); err != nil {
		return nil, err
	}
	return w, nil
}

func summary(w *arena.World) {
	ids := w.IDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		c := w.Get(id)
		fmt.Printf("%v (%v) hp %.2f/%.2f at %v", c.Name(), id, c.Health, c.MaxHealth, c.Position())
		for _, cond := range c.Conditions {
			fmt.Printf(" [%v owner %v]", cond.Type, cond.Owner)
		}
		fmt.Println()
	}
}
