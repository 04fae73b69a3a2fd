package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/tdeville/resol/internal/dimacs"
	"github.com/tdeville/resol/internal/sat"
)

type config struct {
	inputFile  string
	printModel bool
	drat       bool
}

func parseConfig() *config {
	cfg := &config{}
	flag.BoolVar(&cfg.printModel, "p", false, "print a model when the instance is proven satisfiable")
	flag.BoolVar(&cfg.printModel, "print-model", false, "print a model when the instance is proven satisfiable")
	flag.BoolVar(&cfg.drat, "d", false, "print a proof of unsatisfiability in DRAT format")
	flag.BoolVar(&cfg.drat, "drat", false, "print a proof of unsatisfiability in DRAT format")
	flag.Parse()

	cfg.inputFile = flag.Arg(0)
	return cfg
}

// input returns the reader over the DIMACS CNF input: the instance file when
// one was given (unpacked if its suffix calls for it), stdin otherwise.
func input(cfg *config) (io.ReadCloser, error) {
	if cfg.inputFile == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return dimacs.Open(cfg.inputFile)
}

func run(cfg *config) error {
	in, err := input(cfg)
	if err != nil {
		return fmt.Errorf("could not read instance: %s", err)
	}
	defer in.Close()

	opts := sat.Options{}
	if cfg.drat {
		opts.Proof = os.Stdout
	}

	solver, err := dimacs.Load(in, opts)
	if err != nil {
		return fmt.Errorf("could not parse instance: %s", err)
	}

	fmt.Printf("c variables: %d\n", solver.NbVars())

	t := time.Now()
	satisfiable := solver.Solve()
	elapsed := time.Since(t)

	if satisfiable {
		fmt.Println("s SATISFIABLE")
		if cfg.printModel {
			printModel(solver)
		}
	} else {
		fmt.Println("s UNSATISFIABLE")
	}

	printSeparator()
	fmt.Printf("c nb_conflicts %d\n", solver.NbConflicts)
	fmt.Printf("c nb_restarts  %d\n", solver.NbRestarts)
	fmt.Printf("c elapsed time %.3f s\n", elapsed.Seconds())
	fmt.Printf("c removed %d\n", solver.Removed)
	printBorder()

	return nil
}

func printModel(solver *sat.Solver) {
	sb := strings.Builder{}
	sb.WriteString("v")
	for v := sat.Variable(1); int(v) <= solver.NbVars(); v++ {
		switch solver.Value(sat.PositiveLiteral(v)) {
		case sat.True:
			fmt.Fprintf(&sb, " %d", v)
		case sat.False:
			fmt.Fprintf(&sb, " -%d", v)
		default:
			log.Fatal("the problem is supposed to be solved, but a variable is unassigned")
		}
	}
	sb.WriteString(" 0")
	fmt.Println(sb.String())
}

func printHeader() {
	printBorder()
	fmt.Println("c This is the `resol` SAT solver version 0.1.0")
	printSeparator()
	fmt.Println("c A conflict driven clause learning solver for propositional logic")
	printBorder()
}

func printSeparator() {
	fmt.Println("c ------------------------------------------------------------------------------")
}

func printBorder() {
	fmt.Println("c ******************************************************************************")
}

func main() {
	printHeader()
	cfg := parseConfig()
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}
