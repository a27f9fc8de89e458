// countsprob computes empirical mutation probabilities from a
// simulation counts file (trio index, mutation count, no-mutation
// count per line) and prints one probability per line, optionally with
// a Wilson score interval.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/wangdi2014/novo-muta/empirical"
)

func main() {
	in := flag.String("in", "", "input counts file (default stdin)")
	out := flag.String("out", "", "output file (default stdout)")
	confidence := flag.Float64("ci", 0, "also print a Wilson interval at this confidence level, e.g. 0.95")
	flag.Parse()

	fin := os.Stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		fin = f
	}

	records, err := empirical.Parse(fin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fout := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		fout = f
	}

	w := bufio.NewWriter(fout)
	defer w.Flush()
	for _, r := range records {
		if *confidence > 0 {
			lo, hi := r.Interval(*confidence)
			fmt.Fprintf(w, "%g\t%g\t%g\n", r.Probability(), lo, hi)
		} else {
			fmt.Fprintf(w, "%g\n", r.Probability())
		}
	}
}
