package trio

import (
	"github.com/wangdi2014/novo-muta/nuc"
)

// SiteStatistics holds the posterior-weighted quantities one site
// contributes to the expectation step of the sequencing-error fit.
type SiteStatistics struct {
	// ErrorReads is the expected number of miscalled reads.
	ErrorReads float64
	// Reads is the total number of reads at the site.
	Reads float64
	// GermlineMutations is the posterior probability of at least one
	// germline mutation.
	GermlineMutations float64
	// SomaticMutations is the posterior probability of at least one
	// somatic mutation.
	SomaticMutations float64
	// Probability is the site's de novo mutation probability.
	Probability float64
}

// Add accumulates another site's statistics.
func (s *SiteStatistics) Add(o SiteStatistics) {
	s.ErrorReads += o.ErrorReads
	s.Reads += o.Reads
	s.GermlineMutations += o.GermlineMutations
	s.SomaticMutations += o.SomaticMutations
	s.Probability += o.Probability
}

// SiteStatistics computes the expected sufficient statistics of one
// site under the current parameters.
func (m *Model) SiteStatistics(data nuc.ReadDataVector) (st SiteStatistics) {
	if data.Total() == 0 {
		return st
	}
	rdd := m.Peel(data)
	den := rdd.Denominator.Sum
	if den <= 0 {
		return st
	}
	st.Probability = branchProbability(rdd.NoMutation.Sum, den)
	st.GermlineMutations = branchProbability(rdd.NoGermline.Sum, den)
	st.SomaticMutations = branchProbability(rdd.NoSomatic.Sum, den)

	post := m.somaticPosteriors(rdd)
	rate := m.params.SequencingErrorRate
	for i := 0; i < nuc.NTrio; i++ {
		st.Reads += float64(data[i].Total())
		for h := 0; h < nuc.NGenotype; h++ {
			w := post[i][h]
			if w == 0 {
				continue
			}
			a, b := nuc.GenotypeAlleles(h)
			p := readProportions(h, rate)
			for c := 0; c < nuc.NNuc; c++ {
				n := float64(data[i][c])
				if n == 0 {
					continue
				}
				// probability that a read calling c came through
				// the error channel, averaged over the allele it
				// was drawn from
				mis := 0.0
				if c != a {
					mis += 0.5
				}
				if c != b {
					mis += 0.5
				}
				if mis > 0 {
					st.ErrorReads += w * n * mis * (rate / 3) / p[c]
				}
			}
		}
	}
	return st
}

// somaticPosteriors returns, per trio member, the posterior
// distribution over the genotype of the sequenced cells. The outside
// message of a member multiplies the prior with the upward likelihoods
// of the other two members; pushing it through the somatic transition
// and the member's own sequencing likelihood gives the posterior.
func (m *Model) somaticPosteriors(rdd *ReadDependentData) (post [nuc.NTrio][nuc.NGenotype]float64) {
	den := &rdd.Denominator
	var outside [nuc.NTrio][nuc.NGenotype]float64
	for s := 0; s < nuc.NGenotypePair; s++ {
		mg, fg := nuc.PairGenotypes(s)
		prior := m.populationPriors.At(0, s)
		if prior == 0 {
			continue
		}
		lm := den.Genotype[nuc.Mother][mg]
		lf := den.Genotype[nuc.Father][fg]
		pmf := prior * lm * lf
		for cg := 0; cg < nuc.NGenotype; cg++ {
			outside[nuc.Child][cg] += pmf * m.germlineMat.At(cg, s)
		}
		outside[nuc.Mother][mg] += prior * lf * den.ChildGermline[s]
		outside[nuc.Father][fg] += prior * lm * den.ChildGermline[s]
	}
	for i := 0; i < nuc.NTrio; i++ {
		srow := rdd.Sequencing.RawRowView(i)
		sum := 0.0
		for h := 0; h < nuc.NGenotype; h++ {
			v := 0.0
			for g := 0; g < nuc.NGenotype; g++ {
				v += outside[i][g] * m.somaticMat.At(g, h)
			}
			v *= srow[h]
			post[i][h] = v
			sum += v
		}
		if sum <= 0 {
			continue
		}
		for h := 0; h < nuc.NGenotype; h++ {
			post[i][h] /= sum
		}
	}
	return post
}
