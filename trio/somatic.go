package trio

import (
	"github.com/gonum/matrix/mat64"

	"github.com/wangdi2014/novo-muta/nuc"
)

// somaticMutation is the single-allele kernel of the somatic layer.
func somaticMutation(to, from int, match float64) float64 {
	p := (1 - match) / nuc.NNuc
	if to == from {
		p += match
	}
	return p
}

// updateSomatic recomputes the somatic transition matrices. The two
// alleles of a genotype mutate independently; the no-mutation branch
// keeps both alleles intact and is therefore diagonal.
func (m *Model) updateSomatic() {
	if m.somaticDone {
		return
	}
	e := jukesCantorMatch(m.params.SomaticMutationRate)
	if m.somaticMat == nil {
		m.somaticMat = mat64.NewDense(nuc.NGenotype, nuc.NGenotype, nil)
		m.somaticMatDiag = mat64.NewDense(nuc.NGenotype, nuc.NGenotype, nil)
	}
	for g := 0; g < nuc.NGenotype; g++ {
		y1, y2 := nuc.GenotypeAlleles(g)
		for h := 0; h < nuc.NGenotype; h++ {
			x1, x2 := nuc.GenotypeAlleles(h)
			m.somaticMat.Set(g, h, somaticMutation(x1, y1, e)*somaticMutation(x2, y2, e))
			if g == h {
				m.somaticMatDiag.Set(g, h, e*e)
			} else {
				m.somaticMatDiag.Set(g, h, 0)
			}
		}
	}
	m.somaticDone = true
}
