// Package nuc provides the nucleotide and genotype spaces used by the
// trio model, together with per-individual read-count types.
package nuc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	// NNuc is the size of the nucleotide alphabet.
	NNuc = 4
	// NGenotype is the number of ordered diploid genotypes.
	NGenotype = NNuc * NNuc
	// NGenotypePair is the number of ordered mother-father genotype
	// pairs.
	NGenotypePair = NGenotype * NGenotype
)

// Trio member indices in a ReadDataVector.
const (
	Child = iota
	Mother
	Father
	NTrio
)

// Alphabet is the nucleotide alphabet in index order.
var Alphabet = [NNuc]byte{'A', 'C', 'G', 'T'}

// rAlphabet is the reverse nucleotide alphabet (letter to a number).
var rAlphabet = map[byte]int{'A': 0, 'C': 1, 'G': 2, 'T': 3}

// ReadData stores one individual's read counts at a single site, one
// count per nucleotide in Alphabet order.
type ReadData [NNuc]uint32

// ReadDataVector stores the read counts of a trio at a single site in
// child, mother, father order.
type ReadDataVector [NTrio]ReadData

// Total returns the total number of reads.
func (d ReadData) Total() int {
	t := 0
	for _, c := range d {
		t += int(c)
	}
	return t
}

// Total returns the total number of reads over all three members.
func (v ReadDataVector) Total() int {
	return v[Child].Total() + v[Mother].Total() + v[Father].Total()
}

// String returns counts in A:C:G:T form.
func (d ReadData) String() string {
	s := make([]string, NNuc)
	for i, c := range d {
		s[i] = strconv.FormatUint(uint64(c), 10)
	}
	return strings.Join(s, ":")
}

// GenotypeIndex returns the index of the ordered genotype with the
// given allele indices.
func GenotypeIndex(a, b int) int {
	return a*NNuc + b
}

// GenotypeAlleles returns the two allele indices of a genotype.
func GenotypeAlleles(g int) (int, int) {
	return g / NNuc, g % NNuc
}

// GenotypeString returns a genotype as a two-letter string, e.g. "AC".
func GenotypeString(g int) string {
	a, b := GenotypeAlleles(g)
	return string([]byte{Alphabet[a], Alphabet[b]})
}

// NucleotideIndex returns the index of a nucleotide letter.
func NucleotideIndex(n byte) (int, error) {
	i, ok := rAlphabet[n]
	if !ok {
		return 0, fmt.Errorf("unknown nucleotide %q", n)
	}
	return i, nil
}

// PairIndex returns the index of an ordered mother-father genotype
// pair.
func PairIndex(mother, father int) int {
	return mother*NGenotype + father
}

// PairGenotypes returns the mother and father genotypes of a pair
// state.
func PairGenotypes(s int) (int, int) {
	return s / NGenotype, s % NGenotype
}

// ParseSite parses a single site line: twelve whitespace-separated
// read counts, child, mother, father, each in A C G T order.
func ParseSite(line string) (v ReadDataVector, err error) {
	fields := strings.Fields(line)
	if len(fields) != NTrio*NNuc {
		return v, fmt.Errorf("expected %d read counts, got %d", NTrio*NNuc, len(fields))
	}
	for i, f := range fields {
		c, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return v, fmt.Errorf("bad read count %q: %v", f, err)
		}
		v[i/NNuc][i%NNuc] = uint32(c)
	}
	return v, nil
}

// ParseSites parses a site file from a reader, one site per line.
// Empty lines and lines starting with '#' are skipped.
func ParseSites(rd io.Reader) ([]ReadDataVector, error) {
	sites := make([]ReadDataVector, 0, 1024)
	scanner := bufio.NewScanner(rd)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		v, err := ParseSite(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", lineno, err)
		}
		sites = append(sites, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sites, nil
}
