// plotprob creates a plot of the de novo mutation probability as a
// function of the number of child reads supporting an alternative
// nucleotide, at fixed coverage with concordant parents.
package main

import (
	"flag"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/wangdi2014/novo-muta/nuc"
	"github.com/wangdi2014/novo-muta/trio"
)

func main() {
	coverage := flag.Int("coverage", 40, "reads per individual")
	errorRate := flag.Float64("error", 0.005, "sequencing error rate")
	out := flag.String("o", "probability.png", "output file")
	flag.Parse()

	params := trio.DefaultParams()
	params.SequencingErrorRate = *errorRate
	model, err := trio.New(params)
	if err != nil {
		panic(err)
	}

	cov := uint32(*coverage)
	pts := make(plotter.XYs, *coverage+1)
	for k := uint32(0); k <= cov; k++ {
		data := nuc.ReadDataVector{
			{cov - k, 0, k, 0}, // child: k reads support G over A
			{cov, 0, 0, 0},
			{cov, 0, 0, 0},
		}
		p := model.MutationProbability(data)
		fmt.Println(k, p)
		pts[k].X = float64(k)
		pts[k].Y = p
	}

	pl := plot.New()
	pl.X.Label.Text = "alternative reads in child"
	pl.Y.Label.Text = "mutation probability"

	if err := plotutil.AddLinePoints(pl, "trio", pts); err != nil {
		panic(err)
	}

	if err := pl.Save(4*vg.Inch, 4*vg.Inch, *out); err != nil {
		panic(err)
	}
}
