// Package em implements expectation-maximization fitting of the
// sequencing error rate from many sites' trio read counts.
package em

import (
	"errors"
	"math"

	"github.com/exascience/pargo/parallel"
	"github.com/op/go-logging"

	"github.com/wangdi2014/novo-muta/nuc"
	"github.com/wangdi2014/novo-muta/trio"
)

var log = logging.MustGetLogger("em")

// ErrNotConverged is returned when the estimate keeps moving after the
// iteration limit.
var ErrNotConverged = errors.New("em: no convergence within the iteration limit")

const (
	// DefaultTolerance is the absolute tolerance on the sequencing
	// error rate used to detect convergence.
	DefaultTolerance = 1e-10
	// DefaultMaxIterations bounds the EM loop.
	DefaultMaxIterations = 100
)

// SufficientStatistics accumulates, across sites, the expected
// quantities needed to re-estimate the sequencing error rate.
type SufficientStatistics struct {
	expected int
	total    trio.SiteStatistics
	sites    int
}

// NewSufficientStatistics creates an accumulator for the given number
// of sites.
func NewSufficientStatistics(nSites int) *SufficientStatistics {
	return &SufficientStatistics{expected: nSites}
}

// Clear resets all accumulators to zero.
func (s *SufficientStatistics) Clear() {
	s.total = trio.SiteStatistics{}
	s.sites = 0
}

// Update runs the expectation step: per-site expected statistics under
// the current model, summed into the accumulator. Sites are processed
// in parallel; the reduction is a plain sum, so its order does not
// matter beyond floating-point noise below the convergence tolerance.
func (s *SufficientStatistics) Update(m *trio.Model, sites []nuc.ReadDataVector) {
	if len(sites) != s.expected {
		log.Warningf("accumulator sized for %d sites, updating with %d", s.expected, len(sites))
	}
	m.UpdateMatrices()
	res := parallel.RangeReduce(0, len(sites), 0, func(low, high int) interface{} {
		var acc trio.SiteStatistics
		for i := low; i < high; i++ {
			st := m.SiteStatistics(sites[i])
			acc.Add(st)
		}
		return acc
	}, func(left, right interface{}) interface{} {
		acc := left.(trio.SiteStatistics)
		acc.Add(right.(trio.SiteStatistics))
		return acc
	})
	s.total.Add(res.(trio.SiteStatistics))
	s.sites += len(sites)
}

// MaxSequencingErrorRate closes the maximum-likelihood formula over
// the accumulated statistics: the expected fraction of miscalled
// reads, capped at the kernel bound.
func (s *SufficientStatistics) MaxSequencingErrorRate() float64 {
	if s.total.Reads == 0 {
		return 0
	}
	rate := s.total.ErrorReads / s.total.Reads
	if rate > 0.75 {
		rate = 0.75
	}
	return rate
}

// ErrorReads returns the accumulated expected number of miscalled
// reads.
func (s *SufficientStatistics) ErrorReads() float64 { return s.total.ErrorReads }

// Reads returns the accumulated total number of reads.
func (s *SufficientStatistics) Reads() float64 { return s.total.Reads }

// GermlineMutations returns the accumulated expected number of sites
// with a germline mutation.
func (s *SufficientStatistics) GermlineMutations() float64 { return s.total.GermlineMutations }

// SomaticMutations returns the accumulated expected number of sites
// with a somatic mutation.
func (s *SufficientStatistics) SomaticMutations() float64 { return s.total.SomaticMutations }

// MutationProbabilitySum returns the accumulated per-site mutation
// probabilities.
func (s *SufficientStatistics) MutationProbabilitySum() float64 { return s.total.Probability }

// Sites returns the number of sites accumulated since the last Clear.
func (s *SufficientStatistics) Sites() int { return s.sites }

// Result is the outcome of an EM run.
type Result struct {
	// SequencingErrorRate is the final estimate.
	SequencingErrorRate float64
	// Iterations is the number of E/M cycles performed.
	Iterations int
	// Converged reports whether the estimate stabilized within the
	// tolerance.
	Converged bool
}

// Estimate refits the model's sequencing error rate by alternating
// expectation and maximization steps until the estimate moves less
// than the tolerance, committing each intermediate estimate into the
// model. Non-positive tolerance or iteration limits select the
// defaults. If the limit is reached first, the last estimate is
// returned together with ErrNotConverged.
func Estimate(m *trio.Model, sites []nuc.ReadDataVector, tolerance float64, maxIterations int) (Result, error) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	stats := NewSufficientStatistics(len(sites))
	res := Result{SequencingErrorRate: m.SequencingErrorRate()}
	for i := 0; i < maxIterations; i++ {
		stats.Clear()
		stats.Update(m, sites)
		if stats.Reads() == 0 {
			log.Warning("no reads in the input sites, keeping the current rate")
			res.Converged = true
			return res, nil
		}
		maximized := stats.MaxSequencingErrorRate()
		res.Iterations = i + 1
		log.Debugf("iteration %d: e=%g (germline=%g, somatic=%g)",
			res.Iterations, maximized, stats.GermlineMutations(), stats.SomaticMutations())
		if math.Abs(maximized-m.SequencingErrorRate()) <= tolerance {
			res.SequencingErrorRate = m.SequencingErrorRate()
			res.Converged = true
			return res, nil
		}
		if err := m.SetSequencingErrorRate(maximized); err != nil {
			return res, err
		}
		res.SequencingErrorRate = maximized
	}
	return res, ErrNotConverged
}
