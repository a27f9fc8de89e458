package trio

import (
	"math"
	"testing"

	"github.com/gonum/matrix/mat64"
	"github.com/op/go-logging"

	"github.com/wangdi2014/novo-muta/nuc"
)

// smallDiff is a threshold for testing numeric results.
const smallDiff = 1e-9

func init() {
	logging.SetLevel(logging.ERROR, "trio")
}

func TestDefaultParams(tst *testing.T) {
	m := Default()
	p := m.Params()
	if p.SequencingErrorRate != 0.005 || p.DirichletDispersion != 1000 {
		tst.Error("Unexpected default parameters: ", p)
	}
	if m.PopulationMutationRate() != 0.001 {
		tst.Error("Unexpected theta: ", m.PopulationMutationRate())
	}
}

func TestValidate(tst *testing.T) {
	bad := []func(*Params){
		func(p *Params) { p.PopulationMutationRate = 0 },
		func(p *Params) { p.PopulationMutationRate = -1 },
		func(p *Params) { p.GermlineMutationRate = -1e-9 },
		func(p *Params) { p.GermlineMutationRate = 1.5 },
		func(p *Params) { p.SomaticMutationRate = -0.1 },
		func(p *Params) { p.SequencingErrorRate = 0 },
		func(p *Params) { p.SequencingErrorRate = 0.9 },
		func(p *Params) { p.DirichletDispersion = 0 },
		func(p *Params) { p.NucleotideFrequencies = [nuc.NNuc]float64{0.5, 0.5, 0.5, 0.5} },
		func(p *Params) { p.NucleotideFrequencies = [nuc.NNuc]float64{1.25, -0.25, 0, 0} },
	}
	for i, f := range bad {
		p := DefaultParams()
		f(&p)
		if _, err := New(p); err == nil {
			tst.Errorf("case %d: expected construction error for %+v", i, p)
		}
	}
}

func TestSetterValidation(tst *testing.T) {
	m := Default()
	if err := m.SetSequencingErrorRate(-1); err == nil {
		tst.Error("Expected error for negative rate")
	}
	if m.SequencingErrorRate() != 0.005 {
		tst.Error("Rejected setter must not modify the model")
	}
	if err := m.SetNucleotideFrequencies([nuc.NNuc]float64{1, 1, 1, 1}); err == nil {
		tst.Error("Expected error for non-normalized frequencies")
	}
	if err := m.SetDirichletDispersion(-5); err == nil {
		tst.Error("Expected error for negative dispersion")
	}
}

func TestEquals(tst *testing.T) {
	a := Default()
	b := Default()
	if !a.Equals(a) {
		tst.Error("Equals must be reflexive")
	}
	if !a.Equals(b) || !b.Equals(a) {
		tst.Error("Equals must be symmetric for identical models")
	}

	// noise below the tolerance
	if err := b.SetGermlineMutationRate(a.GermlineMutationRate() + 1e-13); err != nil {
		tst.Fatal("Error: ", err)
	}
	if !a.Equals(b) {
		tst.Error("Equals must tolerate noise below the epsilon")
	}

	if err := b.SetGermlineMutationRate(1e-4); err != nil {
		tst.Fatal("Error: ", err)
	}
	if a.Equals(b) {
		tst.Error("Models with different rates must not be equal")
	}
}

func TestCacheInvalidation(tst *testing.T) {
	m := Default()

	priors := mat64.DenseCopyOf(m.PopulationPriors())
	if err := m.SetPopulationMutationRate(0.01); err != nil {
		tst.Fatal("Error: ", err)
	}
	if mat64.EqualApprox(priors, m.PopulationPriors(), 1e-12) {
		tst.Error("Priors must change with the population mutation rate")
	}

	germline := mat64.DenseCopyOf(m.GermlineProbabilityMat())
	if err := m.SetGermlineMutationRate(1e-3); err != nil {
		tst.Fatal("Error: ", err)
	}
	if mat64.EqualApprox(germline, m.GermlineProbabilityMat(), 1e-12) {
		tst.Error("Germline matrix must change with the germline mutation rate")
	}

	somatic := mat64.DenseCopyOf(m.SomaticProbabilityMat())
	if err := m.SetSomaticMutationRate(1e-3); err != nil {
		tst.Fatal("Error: ", err)
	}
	if mat64.EqualApprox(somatic, m.SomaticProbabilityMat(), 1e-12) {
		tst.Error("Somatic matrix must change with the somatic mutation rate")
	}

	alphas := mat64.DenseCopyOf(m.Alphas())
	if err := m.SetSequencingErrorRate(0.01); err != nil {
		tst.Fatal("Error: ", err)
	}
	if mat64.EqualApprox(alphas, m.Alphas(), 1e-12) {
		tst.Error("Alphas must change with the sequencing error rate")
	}

	alphas = mat64.DenseCopyOf(m.Alphas())
	if err := m.SetDirichletDispersion(500); err != nil {
		tst.Fatal("Error: ", err)
	}
	if mat64.EqualApprox(alphas, m.Alphas(), 1e-12) {
		tst.Error("Alphas must change with the dispersion")
	}

	priors = mat64.DenseCopyOf(m.PopulationPriors())
	if err := m.SetNucleotideFrequencies([nuc.NNuc]float64{0.4, 0.1, 0.1, 0.4}); err != nil {
		tst.Fatal("Error: ", err)
	}
	if mat64.EqualApprox(priors, m.PopulationPriors(), 1e-12) {
		tst.Error("Priors must change with the nucleotide frequencies")
	}
}

func TestPriorsNormalized(tst *testing.T) {
	m := Default()
	sum := 0.0
	for s := 0; s < nuc.NGenotypePair; s++ {
		p := m.PopulationPriors().At(0, s)
		if p < 0 {
			tst.Error("Negative prior at pair", s)
		}
		sum += p
	}
	if math.Abs(sum-1) > smallDiff {
		tst.Error("Pair priors sum to", sum)
	}

	sum = 0.0
	for g := 0; g < nuc.NGenotype; g++ {
		sum += m.PopulationPriorsSingle().At(0, g)
	}
	if math.Abs(sum-1) > smallDiff {
		tst.Error("Single priors sum to", sum)
	}
}

func TestMatchProbabilities(tst *testing.T) {
	m := Default()
	hom, het, no := m.HomozygousMatch(), m.HeterozygousMatch(), m.NoMatch()
	if math.Abs(hom+3*no-1) > smallDiff {
		tst.Error("Expected hom + 3*no == 1, got", hom+3*no)
	}
	if math.Abs(het-(hom+no)/2) > smallDiff {
		tst.Error("Expected het == (hom+no)/2, got", het)
	}

	if err := m.SetGermlineMutationRate(0); err != nil {
		tst.Fatal("Error: ", err)
	}
	if m.HomozygousMatch() != 1 || m.NoMatch() != 0 {
		tst.Error("Zero rate must give a perfect match: ", m.HomozygousMatch(), m.NoMatch())
	}
}

func TestTransitionsNormalized(tst *testing.T) {
	m := Default()

	single := m.GermlineProbabilityMatSingle()
	for g := 0; g < nuc.NGenotype; g++ {
		sum := 0.0
		for x := 0; x < nuc.NNuc; x++ {
			sum += single.At(x, g)
		}
		if math.Abs(sum-1) > smallDiff {
			tst.Errorf("Child allele kernel for genotype %s sums to %v", nuc.GenotypeString(g), sum)
		}
	}

	germline := m.GermlineProbabilityMat()
	for s := 0; s < nuc.NGenotypePair; s++ {
		sum := 0.0
		for cg := 0; cg < nuc.NGenotype; cg++ {
			sum += germline.At(cg, s)
		}
		if math.Abs(sum-1) > smallDiff {
			tst.Errorf("Germline transition for pair %d sums to %v", s, sum)
		}
	}

	somatic := m.SomaticProbabilityMat()
	for g := 0; g < nuc.NGenotype; g++ {
		sum := 0.0
		for h := 0; h < nuc.NGenotype; h++ {
			sum += somatic.At(g, h)
		}
		if math.Abs(sum-1) > smallDiff {
			tst.Errorf("Somatic transition for genotype %s sums to %v", nuc.GenotypeString(g), sum)
		}
	}
}

func TestAlphas(tst *testing.T) {
	m := Default()
	alphas := m.Alphas()
	phi := m.DirichletDispersion()
	for g := 0; g < nuc.NGenotype; g++ {
		sum := 0.0
		for c := 0; c < nuc.NNuc; c++ {
			a := alphas.At(g, c)
			if a <= 0 {
				tst.Errorf("Non-positive alpha for genotype %s", nuc.GenotypeString(g))
			}
			sum += a
		}
		if math.Abs(sum-phi) > smallDiff {
			tst.Errorf("Alphas for genotype %s sum to %v, expected %v", nuc.GenotypeString(g), sum, phi)
		}
	}
}
