// Package empirical computes empirical mutation probabilities from
// simulation count files. Each record carries, for one trio signature,
// the number of simulated trios with and without a mutation; the
// empirical probability converges to the analytic one as the number of
// trials grows.
package empirical

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gonum/mathext"
)

// Record holds the simulation counts of one trio signature.
type Record struct {
	// Index is the trio's index in the reference trio enumeration.
	Index int
	// Mutations is the number of simulated trios with a mutation.
	Mutations int
	// NoMutations is the number of simulated trios without one.
	NoMutations int
}

// Total returns the number of simulated trios for the record.
func (r Record) Total() int {
	return r.Mutations + r.NoMutations
}

// Probability returns the empirical mutation probability, 0 for an
// empty record.
func (r Record) Probability() float64 {
	n := r.Total()
	if n == 0 {
		return 0
	}
	return float64(r.Mutations) / float64(n)
}

// Interval returns the Wilson score interval of the empirical
// probability at the given confidence level (e.g. 0.95).
func (r Record) Interval(confidence float64) (lo, hi float64) {
	n := float64(r.Total())
	if n == 0 {
		return 0, 1
	}
	z := mathext.NormalQuantile(0.5 + confidence/2)
	p := r.Probability()
	d := 1 + z*z/n
	center := (p + z*z/(2*n)) / d
	half := z * math.Sqrt(p*(1-p)/n+z*z/(4*n*n)) / d
	lo = center - half
	hi = center + half
	if lo < 0 {
		lo = 0
	}
	if hi > 1 {
		hi = 1
	}
	return lo, hi
}

// Parse reads records from a three-column text file: trio index,
// mutation count, no-mutation count.
func Parse(rd io.Reader) ([]Record, error) {
	records := make([]Record, 0, 1024)
	scanner := bufio.NewScanner(rd)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 columns, got %d", lineno, len(fields))
		}
		var vals [3]int
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad count %q: %v", lineno, f, err)
			}
			if i > 0 && v < 0 {
				return nil, fmt.Errorf("line %d: negative count %d", lineno, v)
			}
			vals[i] = v
		}
		records = append(records, Record{Index: vals[0], Mutations: vals[1], NoMutations: vals[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
