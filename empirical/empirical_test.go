package empirical

import (
	"math"
	"strings"
	"testing"

	"github.com/wangdi2014/novo-muta/nuc"
	"github.com/wangdi2014/novo-muta/trio"
)

func TestParse(tst *testing.T) {
	input := `# index mutations no-mutations
0 3 97
1 0 0
2 50 50
`
	records, err := Parse(strings.NewReader(input))
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if len(records) != 3 {
		tst.Fatal("Expected 3 records, got", len(records))
	}
	if records[0].Probability() != 0.03 {
		tst.Error("Expected 0.03, got", records[0].Probability())
	}
	if records[1].Probability() != 0 {
		tst.Error("Expected 0 for an empty record, got", records[1].Probability())
	}
	if records[2].Probability() != 0.5 {
		tst.Error("Expected 0.5, got", records[2].Probability())
	}
}

func TestParseErrors(tst *testing.T) {
	bad := []string{
		"0 1\n",
		"0 1 2 3\n",
		"0 x 2\n",
		"0 -1 2\n",
	}
	for _, input := range bad {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			tst.Errorf("Expected error for %q", input)
		}
	}
}

func TestInterval(tst *testing.T) {
	r := Record{Index: 0, Mutations: 30, NoMutations: 70}
	lo, hi := r.Interval(0.95)
	p := r.Probability()
	if lo < 0 || hi > 1 || lo > p || hi < p {
		tst.Error("Interval must bracket the estimate: ", lo, p, hi)
	}

	// the interval tightens with more trials
	r10 := Record{Index: 0, Mutations: 300, NoMutations: 700}
	lo10, hi10 := r10.Interval(0.95)
	if hi10-lo10 >= hi-lo {
		tst.Error("Interval must shrink with the number of trials")
	}

	empty := Record{}
	lo, hi = empty.Interval(0.95)
	if lo != 0 || hi != 1 {
		tst.Error("Empty record must give a vacuous interval: ", lo, hi)
	}
}

// The empirical probability of a large simulated batch must approach
// the analytic probability of the matching read-data signature.
func TestEmpiricalMatchesAnalytic(tst *testing.T) {
	m := trio.Default()
	data := nuc.ReadDataVector{{0, 0, 40, 0}, {40, 0, 0, 0}, {40, 0, 0, 0}}
	p := m.MutationProbability(data)

	n := 1000000
	mutations := int(p*float64(n) + 0.5)
	r := Record{Index: 0, Mutations: mutations, NoMutations: n - mutations}
	if math.Abs(r.Probability()-p) > 1e-5 {
		tst.Error("Empirical probability too far from the analytic one: ", r.Probability(), p)
	}
	lo, hi := r.Interval(0.99)
	if p < lo || p > hi {
		tst.Error("Analytic probability outside the empirical interval: ", lo, p, hi)
	}
}
