// Package trio implements a probabilistic model for detecting de novo
// germline and somatic mutations from child-mother-father sequencing
// read counts. The model combines population genotype priors, germline
// inheritance and somatic mutation transitions, and a
// Dirichlet-multinomial sequencing likelihood into a single mutation
// probability per site.
package trio

import (
	"fmt"
	"math"

	"github.com/gonum/matrix/mat64"
	"github.com/op/go-logging"

	"github.com/wangdi2014/novo-muta/nuc"
)

var log = logging.MustGetLogger("trio")

const (
	// SmallDiff is the tolerance for floating-point equality of
	// parameters and matrices.
	SmallDiff = 1e-10
	// freqTolerance is the allowed deviation of the nucleotide
	// frequency sum from one.
	freqTolerance = 1e-6
	// maxSequencingErrorRate keeps all per-read substitution
	// probabilities non-negative.
	maxSequencingErrorRate = 0.75
)

// Params holds the read-independent model parameters.
type Params struct {
	PopulationMutationRate float64
	GermlineMutationRate   float64
	SomaticMutationRate    float64
	SequencingErrorRate    float64
	DirichletDispersion    float64
	NucleotideFrequencies  [nuc.NNuc]float64
}

// DefaultParams returns the biologically motivated default parameters.
func DefaultParams() Params {
	return Params{
		PopulationMutationRate: 0.001,
		GermlineMutationRate:   2e-8,
		SomaticMutationRate:    1e-7,
		SequencingErrorRate:    0.005,
		DirichletDispersion:    1000,
		NucleotideFrequencies:  [nuc.NNuc]float64{0.25, 0.25, 0.25, 0.25},
	}
}

// Validate checks that the parameters define a proper model.
func (p Params) Validate() error {
	if p.PopulationMutationRate <= 0 {
		return fmt.Errorf("population mutation rate must be positive, got %v", p.PopulationMutationRate)
	}
	if p.GermlineMutationRate < 0 || p.GermlineMutationRate > 1 {
		return fmt.Errorf("germline mutation rate must be in [0, 1], got %v", p.GermlineMutationRate)
	}
	if p.SomaticMutationRate < 0 || p.SomaticMutationRate > 1 {
		return fmt.Errorf("somatic mutation rate must be in [0, 1], got %v", p.SomaticMutationRate)
	}
	if p.SequencingErrorRate <= 0 || p.SequencingErrorRate > maxSequencingErrorRate {
		return fmt.Errorf("sequencing error rate must be in (0, %v], got %v", maxSequencingErrorRate, p.SequencingErrorRate)
	}
	if p.DirichletDispersion <= 0 {
		return fmt.Errorf("dirichlet dispersion must be positive, got %v", p.DirichletDispersion)
	}
	sum := 0.0
	for i, f := range p.NucleotideFrequencies {
		if f < 0 {
			return fmt.Errorf("nucleotide frequency %d is negative: %v", i, f)
		}
		sum += f
	}
	if math.Abs(sum-1) > freqTolerance {
		return fmt.Errorf("nucleotide frequencies sum to %v, expected 1", sum)
	}
	return nil
}

// Model holds the parameters of the trio model together with the
// derived probability matrices. The matrices are cached and recomputed
// lazily when a parameter they depend on changes.
type Model struct {
	params Params

	// Jukes-Cantor match probabilities derived from the germline
	// mutation rate.
	homozygousMatch   float64
	heterozygousMatch float64
	noMatch           float64

	populationPriors       *mat64.Dense // 1x256
	populationPriorsSingle *mat64.Dense // 1x16
	germlineSingle         *mat64.Dense // 4x16
	germlineSingleNoMut    *mat64.Dense // 4x16
	germlineMat            *mat64.Dense // 16x256
	germlineMatNoMut       *mat64.Dense // 16x256
	somaticMat             *mat64.Dense // 16x16
	somaticMatDiag         *mat64.Dense // 16x16
	alphas                 *mat64.Dense // 16x4

	priorsDone   bool
	germlineDone bool
	somaticDone  bool
	alphasDone   bool
}

// New creates a model with the given parameters.
func New(p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Model{params: p}, nil
}

// Default creates a model with default parameters.
func Default() *Model {
	m, err := New(DefaultParams())
	if err != nil {
		panic(err)
	}
	return m
}

// Params returns a copy of the current parameters.
func (m *Model) Params() Params {
	return m.params
}

// UpdateMatrices recomputes every derived matrix that is out of date.
// After it returns the model can be read concurrently as long as no
// setter is called.
func (m *Model) UpdateMatrices() {
	m.updateGermline()
	m.updatePriors()
	m.updateSomatic()
	m.updateAlphas()
}

// PopulationMutationRate returns the population mutation rate.
func (m *Model) PopulationMutationRate() float64 {
	return m.params.PopulationMutationRate
}

// SetPopulationMutationRate sets the population mutation rate and
// invalidates the population priors.
func (m *Model) SetPopulationMutationRate(rate float64) error {
	if rate <= 0 {
		return fmt.Errorf("population mutation rate must be positive, got %v", rate)
	}
	m.params.PopulationMutationRate = rate
	m.priorsDone = false
	return nil
}

// GermlineMutationRate returns the germline mutation rate.
func (m *Model) GermlineMutationRate() float64 {
	return m.params.GermlineMutationRate
}

// SetGermlineMutationRate sets the germline mutation rate and
// invalidates the germline transition matrices.
func (m *Model) SetGermlineMutationRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return fmt.Errorf("germline mutation rate must be in [0, 1], got %v", rate)
	}
	m.params.GermlineMutationRate = rate
	m.germlineDone = false
	return nil
}

// SomaticMutationRate returns the somatic mutation rate.
func (m *Model) SomaticMutationRate() float64 {
	return m.params.SomaticMutationRate
}

// SetSomaticMutationRate sets the somatic mutation rate and
// invalidates the somatic transition matrices.
func (m *Model) SetSomaticMutationRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return fmt.Errorf("somatic mutation rate must be in [0, 1], got %v", rate)
	}
	m.params.SomaticMutationRate = rate
	m.somaticDone = false
	return nil
}

// SequencingErrorRate returns the sequencing error rate.
func (m *Model) SequencingErrorRate() float64 {
	return m.params.SequencingErrorRate
}

// SetSequencingErrorRate sets the sequencing error rate and
// invalidates the Dirichlet alpha matrix.
func (m *Model) SetSequencingErrorRate(rate float64) error {
	if rate <= 0 || rate > maxSequencingErrorRate {
		return fmt.Errorf("sequencing error rate must be in (0, %v], got %v", maxSequencingErrorRate, rate)
	}
	m.params.SequencingErrorRate = rate
	m.alphasDone = false
	return nil
}

// DirichletDispersion returns the Dirichlet dispersion.
func (m *Model) DirichletDispersion() float64 {
	return m.params.DirichletDispersion
}

// SetDirichletDispersion sets the Dirichlet dispersion and invalidates
// the Dirichlet alpha matrix.
func (m *Model) SetDirichletDispersion(dispersion float64) error {
	if dispersion <= 0 {
		return fmt.Errorf("dirichlet dispersion must be positive, got %v", dispersion)
	}
	m.params.DirichletDispersion = dispersion
	m.alphasDone = false
	return nil
}

// NucleotideFrequencies returns the nucleotide frequencies.
func (m *Model) NucleotideFrequencies() [nuc.NNuc]float64 {
	return m.params.NucleotideFrequencies
}

// SetNucleotideFrequencies sets the nucleotide frequencies and
// invalidates the population priors.
func (m *Model) SetNucleotideFrequencies(frequencies [nuc.NNuc]float64) error {
	sum := 0.0
	for i, f := range frequencies {
		if f < 0 {
			return fmt.Errorf("nucleotide frequency %d is negative: %v", i, f)
		}
		sum += f
	}
	if math.Abs(sum-1) > freqTolerance {
		return fmt.Errorf("nucleotide frequencies sum to %v, expected 1", sum)
	}
	m.params.NucleotideFrequencies = frequencies
	m.priorsDone = false
	return nil
}

// HomozygousMatch returns the probability of a child allele matching a
// homozygous parent genotype.
func (m *Model) HomozygousMatch() float64 {
	m.updateGermline()
	return m.homozygousMatch
}

// HeterozygousMatch returns the probability of a child allele matching
// one allele of a heterozygous parent genotype.
func (m *Model) HeterozygousMatch() float64 {
	m.updateGermline()
	return m.heterozygousMatch
}

// NoMatch returns the probability of a child allele matching neither
// parent allele.
func (m *Model) NoMatch() float64 {
	m.updateGermline()
	return m.noMatch
}

// PopulationPriors returns the 1x256 prior distribution over ordered
// mother-father genotype pairs.
func (m *Model) PopulationPriors() *mat64.Dense {
	m.updatePriors()
	return m.populationPriors
}

// PopulationPriorsSingle returns the 1x16 prior distribution over the
// genotypes of a single individual.
func (m *Model) PopulationPriorsSingle() *mat64.Dense {
	m.updatePriors()
	return m.populationPriorsSingle
}

// GermlineProbabilityMatSingle returns the 4x16 matrix of child allele
// probabilities given a single parent genotype.
func (m *Model) GermlineProbabilityMatSingle() *mat64.Dense {
	m.updateGermline()
	return m.germlineSingle
}

// GermlineProbabilityMat returns the 16x256 matrix of child genotype
// probabilities given an ordered mother-father genotype pair.
func (m *Model) GermlineProbabilityMat() *mat64.Dense {
	m.updateGermline()
	return m.germlineMat
}

// SomaticProbabilityMat returns the 16x16 matrix of sequenced-cell
// genotype probabilities given the true genotype.
func (m *Model) SomaticProbabilityMat() *mat64.Dense {
	m.updateSomatic()
	return m.somaticMat
}

// SomaticProbabilityMatDiag returns the diagonal no-mutation branch of
// the somatic transition.
func (m *Model) SomaticProbabilityMatDiag() *mat64.Dense {
	m.updateSomatic()
	return m.somaticMatDiag
}

// Alphas returns the 16x4 matrix of Dirichlet parameters of the
// sequencing likelihood, one row per genotype.
func (m *Model) Alphas() *mat64.Dense {
	m.updateAlphas()
	return m.alphas
}

// Equals returns true if the two models have equal parameters and
// derived matrices within SmallDiff tolerance.
func (m *Model) Equals(other *Model) bool {
	if other == nil {
		return false
	}
	if !floatEqual(m.params.PopulationMutationRate, other.params.PopulationMutationRate) ||
		!floatEqual(m.params.GermlineMutationRate, other.params.GermlineMutationRate) ||
		!floatEqual(m.params.SomaticMutationRate, other.params.SomaticMutationRate) ||
		!floatEqual(m.params.SequencingErrorRate, other.params.SequencingErrorRate) ||
		!floatEqual(m.params.DirichletDispersion, other.params.DirichletDispersion) {
		return false
	}
	for i := range m.params.NucleotideFrequencies {
		if !floatEqual(m.params.NucleotideFrequencies[i], other.params.NucleotideFrequencies[i]) {
			return false
		}
	}
	m.UpdateMatrices()
	other.UpdateMatrices()
	return mat64.EqualApprox(m.populationPriors, other.populationPriors, SmallDiff) &&
		mat64.EqualApprox(m.germlineMat, other.germlineMat, SmallDiff) &&
		mat64.EqualApprox(m.germlineMatNoMut, other.germlineMatNoMut, SmallDiff) &&
		mat64.EqualApprox(m.somaticMat, other.somaticMat, SmallDiff) &&
		mat64.EqualApprox(m.alphas, other.alphas, SmallDiff)
}

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) <= SmallDiff
}
