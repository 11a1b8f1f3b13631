package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/OLDtherubyproject/rubyserver-sub001/internal/logging"
	"github.com/OLDtherubyproject/rubyserver-sub001/pkg/monte"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gopkg.in/yaml.v2"
)

func main() {
	var cfg monte.Profile

	t := flag.Int64("t", 1000000, "how many draws, default 1mil")
	prf := flag.String("p", "formula.yaml", "which profile to use; default formula.yaml")
	worker := flag.Int64("w", 24, "number of workers, default 24")
	bin := flag.Int64("b", 1, "bin size, default 1")
	seed := flag.Int64("s", time.Now().UnixNano(), "random seed")
	out := flag.String("o", "out.html", "output file; default out.html")
	debug := flag.String("d", "info", "output level: debug, info, warn")
	flag.Parse()

	source, err := os.ReadFile(*prf)
	if err != nil {
		log.Fatal(err)
	}
	err = yaml.Unmarshal(source, &cfg)
	if err != nil {
		log.Fatal(err)
	}
	in, err := cfg.Input()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(logging.LogConfig{LogLevel: *debug})
	if err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	sim := monte.New(logger, in, *seed)
	sim.Progress = os.Stdout
	r := sim.SimDmgDist(*t, *bin, *worker)
	elapsed := time.Since(start)
	fmt.Printf("Profile %v done in %s\n", *prf, elapsed)

	graph, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer graph.Close()
	if err := render(graph, cfg.Label, *prf, *t, *bin, r); err != nil {
		log.Fatal(err)
	}
}

func render(w io.Writer, label, prf string, n, binSize int64, r monte.SimResult) error {
	page := components.NewPage()
	page.PageTitle = "damage distribution"

	var bins []int64
	var items []opts.BarData
	for i, v := range r.Hist {
		bins = append(bins, r.BinStart+binSize*int64(i))
		items = append(items, opts.BarData{Value: v})
	}

	legend := fmt.Sprintf("min: %.2f, max %.2f, mean: %.2f, med: %.2f, sd: %.2f", r.Min, r.Max, r.Mean, r.Median(binSize), r.SD)
	title := prf
	if label != "" {
		title = label
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%v (n = %v)", title, n),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Freq",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Damage",
		}),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "5%", Right: "0%", Orient: "vertical", Data: []string{legend}}),
	)
	bar.SetXAxis(bins).AddSeries(legend, items)

	page.AddCharts(bar)
	return page.Render(w)
}
