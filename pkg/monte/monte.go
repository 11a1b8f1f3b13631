package monte

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/OLDtherubyproject/rubyserver-sub001/pkg/combat"
	"go.uber.org/zap"
)

//Profile is the yaml description of one formula input
type Profile struct {
	Label       string       `yaml:"Label"`
	Caster      StatsProfile `yaml:"Caster"`
	Target      StatsProfile `yaml:"Target"`
	Base        float64      `yaml:"Base"`
	Stat        string       `yaml:"Stat"`
	CasterTypes []string     `yaml:"CasterTypes"`
	Type        string       `yaml:"Type"`
}

type StatsProfile struct {
	Attack         float64 `yaml:"Attack"`
	SpecialAttack  float64 `yaml:"SpecialAttack"`
	Defense        float64 `yaml:"Defense"`
	SpecialDefense float64 `yaml:"SpecialDefense"`
}

func (s StatsProfile) stats() combat.Stats {
	return combat.Stats{
		Attack:         s.Attack,
		SpecialAttack:  s.SpecialAttack,
		Defense:        s.Defense,
		SpecialDefense: s.SpecialDefense,
	}
}

//Input converts the profile to a formula input
func (p Profile) Input() (combat.FormulaInput, error) {
	in := combat.FormulaInput{
		Caster: p.Caster.stats(),
		Target: p.Target.stats(),
		Base:   p.Base,
	}
	var ok bool
	if p.Stat != "" {
		if in.Stat, ok = combat.StrToCombatStat(p.Stat); !ok {
			return in, fmt.Errorf("unknown stat %q", p.Stat)
		}
	}
	if p.Type != "" {
		if in.DamageType, ok = combat.StrToDamageType(p.Type); !ok {
			return in, fmt.Errorf("unknown damage type %q", p.Type)
		}
	}
	if len(p.CasterTypes) > 2 {
		return in, fmt.Errorf("at most two caster types, got %v", len(p.CasterTypes))
	}
	for i, v := range p.CasterTypes {
		if in.CasterTypes[i], ok = combat.StrToDamageType(v); !ok {
			return in, fmt.Errorf("unknown caster type %q", v)
		}
	}
	return in, nil
}

type Simulator struct {
	Log      *zap.SugaredLogger
	Progress io.Writer //progress dots, nil for silent

	in   combat.FormulaInput
	seed int64
}

//New samples in; worker i draws from a source seeded with seed+i
func New(log *zap.SugaredLogger, in combat.FormulaInput, seed int64) *Simulator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Simulator{Log: log, in: in, seed: seed}
}

type SimResult struct {
	Hist     []float64
	BinStart int64
	Min      float64
	Max      float64
	Mean     float64
	SD       float64
}

//SimDmgDist draws n damage values with w workers and bins them by b
func (s *Simulator) SimDmgDist(n, b, w int64) SimResult {
	r := SimResult{}
	if n <= 0 || b <= 0 || w <= 0 {
		return r
	}

	s.Log.Debugw("starting dmg sim", "n", n, "b", b, "w", w)

	var progress, sum, ss float64
	data := make([]float64, 0, n)
	r.Min = math.MaxFloat64
	r.Max = -math.MaxFloat64

	count := n

	resp := make(chan float64, n)
	req := make(chan bool)
	done := make(chan bool)
	for i := int64(0); i < w; i++ {
		go s.worker(s.seed+i, resp, req, done)
	}

	//use a go routine to send out a job whenever a worker is done
	go func() {
		var wip int64
		for wip < n {
			req <- true
			wip++
		}
	}()

	s.progress("\tProgress: 0")

	for count > 0 {
		val := <-resp
		count--

		data = append(data, val)
		sum += val
		if val < r.Min {
			r.Min = val
		}
		if val > r.Max {
			r.Max = val
		}

		if (1 - float64(count)/float64(n)) > (progress + 0.01) {
			progress = (1 - float64(count)/float64(n))
			s.progress(fmt.Sprintf(".%.0f", 100*progress))
		}
	}
	s.progress("...100%\n")

	close(done)

	r.Mean = sum / float64(n)
	bin := float64(b)
	r.BinStart = int64(math.Floor(r.Min/bin)) * b
	numBin := int64(math.Floor((r.Max-float64(r.BinStart))/bin)) + 1

	r.Hist = make([]float64, numBin)

	for _, v := range data {
		ss += (v - r.Mean) * (v - r.Mean)
		steps := int64(math.Floor((v - float64(r.BinStart)) / bin))
		r.Hist[steps]++
	}

	r.SD = math.Sqrt(ss / float64(n))

	return r
}

func (s *Simulator) progress(msg string) {
	if s.Progress != nil {
		fmt.Fprint(s.Progress, msg)
	}
}

func (s *Simulator) worker(seed int64, resp chan float64, req chan bool, done chan bool) {
	rand := rand.New(rand.NewSource(seed))
	for {
		select {
		case <-req:
			resp <- combat.ComputeDamage(rand, s.in)
		case <-done:
			return
		}
	}
}

//Median estimates the median from the histogram
func (r SimResult) Median(b int64) float64 {
	var total, cumul float64
	for _, v := range r.Hist {
		total += v
	}
	if total == 0 {
		return 0
	}
	for i, v := range r.Hist {
		cumul += v / total
		if cumul >= 0.5 {
			return float64(r.BinStart + b*int64(i))
		}
	}
	return float64(r.BinStart + b*int64(len(r.Hist)-1))
}
