/*

Novo-muta estimates the probability of a de novo germline or somatic
mutation for child-mother-father trios from per-site nucleotide read
counts, and refits the sequencing error rate from the data with
expectation-maximization.

The basic usage looks like this:

	novo-muta sites.txt

, where each line of sites.txt carries twelve whitespace-separated
read counts: child, mother, father, each in A C G T order. Per-site
mutation probabilities are written one per line; the refined
sequencing error rate is reported at the end.

To see all the options run:

	novo-muta --help

*/
package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"github.com/wangdi2014/novo-muta/checkpoint"
	"github.com/wangdi2014/novo-muta/em"
	"github.com/wangdi2014/novo-muta/nuc"
	"github.com/wangdi2014/novo-muta/trio"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("novo-muta")
var formatter = logging.MustStringFormatter(`%{message}`)

// checkpointKey identifies the estimation state in the bolt database.
var checkpointKey = []byte("em")

// command-line options
var (
	// application
	app = kingpin.New("novo-muta", "trio de novo mutation probability with EM error-rate fitting").Version(version)

	// input sites
	sitesFileName = app.Arg("sites", "per-site trio read counts (12 columns: child, mother, father x A C G T)").Required().ExistingFile()

	// model parameters
	populationRate = app.Flag("theta", "population mutation rate").Default("0.001").Float64()
	germlineRate   = app.Flag("germline", "germline mutation rate").Default("2e-8").Float64()
	somaticRate    = app.Flag("somatic", "somatic mutation rate").Default("1e-7").Float64()
	errorRate      = app.Flag("error", "initial sequencing error rate").Default("0.005").Float64()
	dispersion     = app.Flag("dispersion", "dirichlet dispersion of the sequencing likelihood").Default("1000").Float64()
	freqA          = app.Flag("freq-a", "frequency of nucleotide A").Default("0.25").Float64()
	freqC          = app.Flag("freq-c", "frequency of nucleotide C").Default("0.25").Float64()
	freqG          = app.Flag("freq-g", "frequency of nucleotide G").Default("0.25").Float64()
	freqT          = app.Flag("freq-t", "frequency of nucleotide T").Default("0.25").Float64()

	// estimation parameters
	tolerance = app.Flag("tol", "absolute convergence tolerance on the error rate").Default("1e-10").Float64()
	maxIter   = app.Flag("maxiter", "maximum number of EM iterations").Default("100").Int()
	noEM      = app.Flag("noem", "only compute per-site probabilities, skip the error-rate fit").Bool()

	// input/output
	outF        = app.Flag("out", "write per-site mutation probabilities to a file").String()
	checkpointF = app.Flag("checkpoint", "bolt database file for resuming the estimation").String()
	outLogF     = app.Flag("log", "write log to a file").String()
	logLevel    = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
)

func run() {
	startTime := time.Now()

	params := trio.Params{
		PopulationMutationRate: *populationRate,
		GermlineMutationRate:   *germlineRate,
		SomaticMutationRate:    *somaticRate,
		SequencingErrorRate:    *errorRate,
		DirichletDispersion:    *dispersion,
		NucleotideFrequencies:  [nuc.NNuc]float64{*freqA, *freqC, *freqG, *freqT},
	}
	model, err := trio.New(params)
	if err != nil {
		log.Fatal(err)
	}

	sitesFile, err := os.Open(*sitesFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer sitesFile.Close()

	sites, err := nuc.ParseSites(sitesFile)
	if err != nil {
		log.Fatal(err)
	}
	if len(sites) == 0 {
		log.Fatal("No sites in the input file")
	}
	log.Infof("Read %d sites", len(sites))

	f := os.Stdout
	if *outF != "" {
		f, err = os.Create(*outF)
		if err != nil {
			log.Fatal("Error creating output file:", err)
		}
		defer f.Close()
	}

	w := bufio.NewWriter(f)
	for _, site := range sites {
		fmt.Fprintf(w, "%g\n", model.MutationProbability(site))
	}
	if err := w.Flush(); err != nil {
		log.Fatal("Error writing probabilities:", err)
	}

	if *noEM {
		return
	}

	var db *bolt.DB
	if *checkpointF != "" {
		db, err = bolt.Open(*checkpointF, 0666, nil)
		if err != nil {
			log.Fatal("Error opening checkpoint database:", err)
		}
		defer db.Close()

		state, err := checkpoint.Load(db, checkpointKey)
		if err != nil {
			log.Fatal("Error reading checkpoint:", err)
		}
		if state != nil && !state.Final {
			log.Noticef("Resuming estimation from e=%g", state.SequencingErrorRate)
			if err := model.SetSequencingErrorRate(state.SequencingErrorRate); err != nil {
				log.Fatal("Bad checkpoint state:", err)
			}
		}
	}

	res, err := em.Estimate(model, sites, *tolerance, *maxIter)
	if db != nil {
		saveErr := checkpoint.Save(db, checkpointKey, &checkpoint.State{
			SequencingErrorRate: res.SequencingErrorRate,
			Iteration:           res.Iterations,
			Final:               res.Converged,
		})
		if saveErr != nil {
			log.Error("Error saving checkpoint:", saveErr)
		}
	}
	if err != nil {
		log.Fatalf("Estimation failed after %d iterations (e=%g): %v",
			res.Iterations, res.SequencingErrorRate, err)
	}

	log.Noticef("^E:\t%g (%d iterations)", res.SequencingErrorRate, res.Iterations)
	log.Noticef("Running time: %v", time.Since(startTime))
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLevel(level, "novo-muta")
	logging.SetLevel(level, "trio")
	logging.SetLevel(level, "em")
	logging.SetLevel(level, "checkpoint")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	run()
}
