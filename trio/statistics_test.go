package trio

import (
	"math"
	"testing"

	"github.com/wangdi2014/novo-muta/nuc"
)

func TestSiteStatisticsConcordant(tst *testing.T) {
	m := Default()
	data := nuc.ReadDataVector{{40, 0, 0, 0}, {40, 0, 0, 0}, {40, 0, 0, 0}}
	st := m.SiteStatistics(data)

	if st.Reads != 120 {
		tst.Error("Expected 120 reads, got", st.Reads)
	}
	if st.ErrorReads < 0 || st.ErrorReads > 1.2 {
		tst.Error("Expected few expected errors for concordant reads, got", st.ErrorReads)
	}
	p := m.MutationProbability(data)
	if math.Abs(st.Probability-p) > smallDiff {
		tst.Error("Statistics and MutationProbability disagree: ", st.Probability, p)
	}
	for name, v := range map[string]float64{
		"germline": st.GermlineMutations,
		"somatic":  st.SomaticMutations,
	} {
		if v < 0 || v > 1 {
			tst.Errorf("Posterior %q out of range: %v", name, v)
		}
		if v > st.Probability+smallDiff {
			tst.Errorf("Posterior %q exceeds the total mutation probability", name)
		}
	}
}

func TestSiteStatisticsErrorReads(tst *testing.T) {
	m := Default()
	// two discordant reads per member at 40x, A-homozygous signal
	data := nuc.ReadDataVector{{38, 1, 1, 0}, {38, 1, 1, 0}, {38, 1, 1, 0}}
	st := m.SiteStatistics(data)

	if st.Reads != 120 {
		tst.Error("Expected 120 reads, got", st.Reads)
	}
	if st.ErrorReads < 3 || st.ErrorReads > 9 {
		tst.Error("Expected roughly six miscalled reads, got", st.ErrorReads)
	}
}

func TestSiteStatisticsZeroSite(tst *testing.T) {
	m := Default()
	var data nuc.ReadDataVector
	st := m.SiteStatistics(data)
	if st != (SiteStatistics{}) {
		tst.Error("Expected zero statistics for an empty site, got", st)
	}
}

func TestSiteStatisticsAdd(tst *testing.T) {
	a := SiteStatistics{ErrorReads: 1, Reads: 10, Probability: 0.5}
	b := SiteStatistics{ErrorReads: 2, Reads: 30, Probability: 0.25}
	a.Add(b)
	if a.ErrorReads != 3 || a.Reads != 40 || a.Probability != 0.75 {
		tst.Error("Unexpected sum: ", a)
	}
}
