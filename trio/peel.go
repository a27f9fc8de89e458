package trio

import (
	"github.com/gonum/matrix/mat64"

	"github.com/wangdi2014/novo-muta/nuc"
)

// TreePeel stores the upward partial likelihoods of one branch of the
// computation. Each level is written exactly once from the level below
// and the branch's transition kernels.
type TreePeel struct {
	// Genotype holds, per trio member, the likelihood of each true
	// genotype after summing out the somatic layer.
	Genotype [nuc.NTrio][nuc.NGenotype]float64
	// ChildGermline holds, per parent pair, the child likelihood
	// after summing out the child genotype.
	ChildGermline [nuc.NGenotypePair]float64
	// Root holds the full joint term per parent pair.
	Root [nuc.NGenotypePair]float64
	// Sum is the root likelihood of the branch.
	Sum float64
}

// ReadDependentData caches everything that depends on one site's read
// counts. It is created fresh for every MutationProbability call and
// discarded when the call returns.
type ReadDependentData struct {
	// Sequencing is the 3x16 rescaled likelihood matrix.
	Sequencing *mat64.Dense
	// Denominator uses the full transition kernels at both layers.
	Denominator TreePeel
	// NoMutation forbids mutation at both layers.
	NoMutation TreePeel
	// NoGermline forbids germline mutation only.
	NoGermline TreePeel
	// NoSomatic forbids somatic mutation only.
	NoSomatic TreePeel
}

// Peel runs the tree-peeling for all branches of one site.
func (m *Model) Peel(data nuc.ReadDataVector) *ReadDependentData {
	m.UpdateMatrices()
	rdd := &ReadDependentData{Sequencing: m.sequencingProbabilityMat(data)}
	m.peel(rdd.Sequencing, m.somaticMat, m.germlineMat, &rdd.Denominator)
	m.peel(rdd.Sequencing, m.somaticMatDiag, m.germlineMatNoMut, &rdd.NoMutation)
	m.peel(rdd.Sequencing, m.somaticMat, m.germlineMatNoMut, &rdd.NoGermline)
	m.peel(rdd.Sequencing, m.somaticMatDiag, m.germlineMat, &rdd.NoSomatic)
	return rdd
}

// peel propagates partial likelihoods bottom-up: sequencing through
// the somatic layer per member, the child through the germline
// transition, and everything into the population prior at the root.
func (m *Model) peel(seq, somatic, germline *mat64.Dense, tp *TreePeel) {
	for i := 0; i < nuc.NTrio; i++ {
		srow := seq.RawRowView(i)
		for g := 0; g < nuc.NGenotype; g++ {
			s := 0.0
			for h := 0; h < nuc.NGenotype; h++ {
				s += somatic.At(g, h) * srow[h]
			}
			tp.Genotype[i][g] = s
		}
	}
	for s := 0; s < nuc.NGenotypePair; s++ {
		v := 0.0
		for cg := 0; cg < nuc.NGenotype; cg++ {
			v += germline.At(cg, s) * tp.Genotype[nuc.Child][cg]
		}
		tp.ChildGermline[s] = v
	}
	sum := 0.0
	for s := 0; s < nuc.NGenotypePair; s++ {
		mg, fg := nuc.PairGenotypes(s)
		r := m.populationPriors.At(0, s) * tp.ChildGermline[s] *
			tp.Genotype[nuc.Mother][mg] * tp.Genotype[nuc.Father][fg]
		tp.Root[s] = r
		sum += r
	}
	tp.Sum = sum
}

// MutationProbability returns the probability that the site carries a
// de novo germline or somatic mutation given the trio's read counts.
// A site with no reads at all, or a zero root likelihood, yields 0.
func (m *Model) MutationProbability(data nuc.ReadDataVector) float64 {
	if data.Total() == 0 {
		return 0
	}
	rdd := m.Peel(data)
	return branchProbability(rdd.NoMutation.Sum, rdd.Denominator.Sum)
}

// branchProbability returns 1 - noMutation/denominator clamped to
// [0, 1], with 0 on a degenerate denominator.
func branchProbability(noMutation, denominator float64) float64 {
	if denominator <= 0 {
		log.Warningf("degenerate root likelihood %g", denominator)
		return 0
	}
	p := 1 - noMutation/denominator
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
