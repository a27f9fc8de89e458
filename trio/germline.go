package trio

import (
	"math"

	"github.com/gonum/matrix/mat64"

	"github.com/wangdi2014/novo-muta/nuc"
)

// jukesCantorMatch returns exp(-4/3 * rate), the probability that an
// allele passes through the mutation channel unchanged.
func jukesCantorMatch(rate float64) float64 {
	return math.Exp(-4.0 / 3.0 * rate)
}

// germlineMutation returns the probability of the child inheriting the
// given nucleotide from a parent with the given genotype. The
// single-allele kernel decomposes as k(x|y) = e*delta(x,y) + (1-e)/4;
// with noMutation set only the identity part contributes.
func germlineMutation(childNuc, parentGenotype int, match float64, noMutation bool) float64 {
	a, b := nuc.GenotypeAlleles(parentGenotype)
	p := 0.0
	for _, y := range [2]int{a, b} {
		if noMutation {
			if childNuc == y {
				p += 0.5 * match
			}
			continue
		}
		k := (1 - match) / nuc.NNuc
		if childNuc == y {
			k += match
		}
		p += 0.5 * k
	}
	return p
}

// updateGermline recomputes the germline transition matrices and the
// derived match probabilities.
func (m *Model) updateGermline() {
	if m.germlineDone {
		return
	}
	e := jukesCantorMatch(m.params.GermlineMutationRate)
	m.homozygousMatch = 0.25 + 0.75*e
	m.heterozygousMatch = 0.25 + 0.25*e
	m.noMatch = 0.25 - 0.25*e

	if m.germlineSingle == nil {
		m.germlineSingle = mat64.NewDense(nuc.NNuc, nuc.NGenotype, nil)
		m.germlineSingleNoMut = mat64.NewDense(nuc.NNuc, nuc.NGenotype, nil)
		m.germlineMat = mat64.NewDense(nuc.NGenotype, nuc.NGenotypePair, nil)
		m.germlineMatNoMut = mat64.NewDense(nuc.NGenotype, nuc.NGenotypePair, nil)
	}
	for x := 0; x < nuc.NNuc; x++ {
		for g := 0; g < nuc.NGenotype; g++ {
			m.germlineSingle.Set(x, g, germlineMutation(x, g, e, false))
			m.germlineSingleNoMut.Set(x, g, germlineMutation(x, g, e, true))
		}
	}
	// Lift to the full tree: the child genotype is an ordered pair of
	// a maternal and a paternal allele.
	for cg := 0; cg < nuc.NGenotype; cg++ {
		x, y := nuc.GenotypeAlleles(cg)
		for s := 0; s < nuc.NGenotypePair; s++ {
			mg, fg := nuc.PairGenotypes(s)
			m.germlineMat.Set(cg, s, m.germlineSingle.At(x, mg)*m.germlineSingle.At(y, fg))
			m.germlineMatNoMut.Set(cg, s, m.germlineSingleNoMut.At(x, mg)*m.germlineSingleNoMut.At(y, fg))
		}
	}
	m.germlineDone = true
}
