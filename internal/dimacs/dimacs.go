// Package dimacs loads DIMACS CNF instances into the solver, transparently
// decompressing bz2, gzip, and xz/lzma instance files.
package dimacs

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rhartert/dimacs"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"

	"github.com/tdeville/resol/internal/sat"
)

// Open opens the given instance file. Files ending in .bz2, .gz, .gzip, .xz,
// or .lzma (case insensitive) are decompressed on the fly; any other file is
// assumed to be in plain text (.cnf, .dimacs, .txt, ...).
func Open(filename string) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	canonical := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(canonical, ".bz2"):
		return readCloser{bzip2.NewReader(file), file}, nil
	case strings.HasSuffix(canonical, ".gz"), strings.HasSuffix(canonical, ".gzip"):
		r, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("error reading gzip file %q: %w", filename, err)
		}
		return readCloser{r, file}, nil
	case strings.HasSuffix(canonical, ".xz"):
		r, err := xz.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("error reading xz file %q: %w", filename, err)
		}
		return readCloser{r, file}, nil
	case strings.HasSuffix(canonical, ".lzma"):
		r, err := lzma.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("error reading lzma file %q: %w", filename, err)
		}
		return readCloser{r, file}, nil
	default:
		return file, nil
	}
}

// readCloser pairs a decompressing reader with the file it reads from.
type readCloser struct {
	io.Reader
	closer io.Closer
}

func (rc readCloser) Close() error {
	return rc.closer.Close()
}

// Load parses the DIMACS CNF formula from r and returns a solver, configured
// with the given options, loaded with the instance's clauses.
func Load(r io.Reader, opts sat.Options) (*sat.Solver, error) {
	b := &builder{opts: opts}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, err
	}
	if b.solver == nil {
		return nil, fmt.Errorf("header line not found")
	}
	return b.solver, nil
}

// builder implements dimacs.Builder: the solver is created when the problem
// line is read, and every clause is handed over as it is parsed.
type builder struct {
	opts      sat.Options
	solver    *sat.Solver
	nbClauses int
}

func (b *builder) Problem(problem string, nbVars int, nbClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("instances of type %q are not supported", problem)
	}
	b.solver = sat.New(nbVars, b.opts)
	b.nbClauses = nbClauses
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	if b.solver == nil {
		return fmt.Errorf("clause line found before the header")
	}
	return b.solver.AddProblemClause(tmpClause)
}

func (b *builder) Comment(_ string) error {
	return nil // ignore comments
}
