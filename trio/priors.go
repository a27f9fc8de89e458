package trio

import (
	"math"

	"github.com/gonum/matrix/mat64"

	"github.com/wangdi2014/novo-muta/nuc"
)

// updatePriors recomputes the population genotype priors. The prior of
// an ordered mother-father pair is the Dirichlet-multinomial
// probability of drawing its four parental alleles in order with
// alpha = theta * frequencies; the 256 ordered four-tuples cover the
// sample space exactly, so the priors sum to one.
func (m *Model) updatePriors() {
	if m.priorsDone {
		return
	}
	if m.populationPriors == nil {
		m.populationPriors = mat64.NewDense(1, nuc.NGenotypePair, nil)
		m.populationPriorsSingle = mat64.NewDense(1, nuc.NGenotype, nil)
	}
	for s := 0; s < nuc.NGenotypePair; s++ {
		mg, fg := nuc.PairGenotypes(s)
		m1, m2 := nuc.GenotypeAlleles(mg)
		f1, f2 := nuc.GenotypeAlleles(fg)
		var counts [nuc.NNuc]int
		counts[m1]++
		counts[m2]++
		counts[f1]++
		counts[f2]++
		m.populationPriors.Set(0, s, m.spectrumProbability(counts))
	}
	for g := 0; g < nuc.NGenotype; g++ {
		a, b := nuc.GenotypeAlleles(g)
		var counts [nuc.NNuc]int
		counts[a]++
		counts[b]++
		m.populationPriorsSingle.Set(0, g, m.spectrumProbability(counts))
	}
	m.priorsDone = true
}

// spectrumProbability returns the probability of drawing the given
// ordered allele counts from a Dirichlet-compound categorical
// distribution with alpha = theta * frequencies.
func (m *Model) spectrumProbability(counts [nuc.NNuc]int) float64 {
	theta := m.params.PopulationMutationRate
	n := 0
	for _, c := range counts {
		n += c
	}
	lp, _ := math.Lgamma(theta)
	lt, _ := math.Lgamma(theta + float64(n))
	lp -= lt
	for i, c := range counts {
		if c == 0 {
			continue
		}
		alpha := theta * m.params.NucleotideFrequencies[i]
		if alpha == 0 {
			// an allele with zero frequency was drawn
			return 0
		}
		l1, _ := math.Lgamma(alpha + float64(c))
		l0, _ := math.Lgamma(alpha)
		lp += l1 - l0
	}
	return math.Exp(lp)
}
