package trio

import (
	"math"

	"github.com/gonum/matrix/mat64"

	"github.com/wangdi2014/novo-muta/nuc"
)

// readProportions returns the expected read proportions for a genotype
// under the given per-read error rate: a read picks one of the two
// alleles with equal probability and is then miscalled with
// probability rate, uniformly over the three other nucleotides.
func readProportions(g int, rate float64) (p [nuc.NNuc]float64) {
	a, b := nuc.GenotypeAlleles(g)
	for c := 0; c < nuc.NNuc; c++ {
		p[c] = rate / 3
	}
	if a == b {
		p[a] = 1 - rate
	} else {
		p[a] = 0.5 - rate/3
		p[b] = 0.5 - rate/3
	}
	return p
}

// updateAlphas recomputes the 16x4 Dirichlet parameter matrix of the
// sequencing likelihood.
func (m *Model) updateAlphas() {
	if m.alphasDone {
		return
	}
	if m.alphas == nil {
		m.alphas = mat64.NewDense(nuc.NGenotype, nuc.NNuc, nil)
	}
	phi := m.params.DirichletDispersion
	for g := 0; g < nuc.NGenotype; g++ {
		p := readProportions(g, m.params.SequencingErrorRate)
		for c := 0; c < nuc.NNuc; c++ {
			m.alphas.Set(g, c, phi*p[c])
		}
	}
	m.alphasDone = true
}

// logDirichletMultinomial returns the log probability of the observed
// read counts under a Dirichlet-multinomial with the given parameters.
func logDirichletMultinomial(alpha []float64, counts nuc.ReadData) float64 {
	n := counts.Total()
	if n == 0 {
		return 0
	}
	res, _ := math.Lgamma(float64(n) + 1)
	sumAlpha := 0.0
	for c := 0; c < nuc.NNuc; c++ {
		sumAlpha += alpha[c]
		lc, _ := math.Lgamma(float64(counts[c]) + 1)
		res -= lc
		if counts[c] > 0 {
			l1, _ := math.Lgamma(alpha[c] + float64(counts[c]))
			l0, _ := math.Lgamma(alpha[c])
			res += l1 - l0
		}
	}
	l0, _ := math.Lgamma(sumAlpha)
	l1, _ := math.Lgamma(sumAlpha + float64(n))
	return res + l0 - l1
}

// sequencingProbabilityMat returns a fresh 3x16 matrix of sequencing
// likelihoods, one row per trio member. Each row is rescaled by its
// maximum to avoid underflow; the common factor cancels in the final
// probability ratio. A member with zero reads gets a uniform row.
func (m *Model) sequencingProbabilityMat(data nuc.ReadDataVector) *mat64.Dense {
	m.updateAlphas()
	seq := mat64.NewDense(nuc.NTrio, nuc.NGenotype, nil)
	var logs [nuc.NGenotype]float64
	for i := 0; i < nuc.NTrio; i++ {
		max := math.Inf(-1)
		for g := 0; g < nuc.NGenotype; g++ {
			logs[g] = logDirichletMultinomial(m.alphas.RawRowView(g), data[i])
			if logs[g] > max {
				max = logs[g]
			}
		}
		for g := 0; g < nuc.NGenotype; g++ {
			seq.Set(i, g, math.Exp(logs[g]-max))
		}
	}
	return seq
}
