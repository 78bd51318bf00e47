package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/sanity-io/litter"

	"github.com/zephyrtronium/curves"
)

func main() {
	log.SetFlags(0)
	var (
		inv      invocation
		p        printer
		watching bool
	)
	def := defaultConfig()
	flag.StringVar(&inv.conf, "config", "", "YAML sampling configuration file")
	flag.StringVar(&inv.in, "in", "", "expression file, or - for stdin (default stdin if no args or configured expression)")
	flag.StringVar(&inv.flags.Variable, "var", def.Variable, "name of the free variable")
	flag.Float64Var(&inv.flags.Domain.XMin, "xmin", def.Domain.XMin, "first abscissa")
	flag.Float64Var(&inv.flags.Domain.XMax, "xmax", def.Domain.XMax, "last abscissa")
	flag.IntVar(&inv.flags.Domain.Count, "n", def.Domain.Count, "number of points to sample, including both ends")
	flag.IntVar(&inv.flags.Workers, "workers", def.Workers, "sampling goroutines (default number of CPUs)")
	flag.StringVar(&inv.flags.Format, "format", def.Format, "output format, text or json")
	flag.StringVar(&p.verb, "fmt", "%g", "number formatting string for text output")
	flag.BoolVar(&p.echo, "echo", false, "print the parse tree before the points")
	flag.BoolVar(&p.dump, "dump", false, "dump the parsed expression structure")
	flag.BoolVar(&watching, "watch", false, "resample whenever the -config or -in file changes")
	flag.Parse()

	inv.args = flag.Args()
	inv.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { inv.set[f.Name] = true })
	if !watching {
		inv.stdin = os.Stdin
	}
	p.w = os.Stdout

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	run := func(ctx context.Context) error {
		cfg, err := inv.load()
		if err != nil {
			return err
		}
		return p.run(ctx, cfg)
	}

	if !watching {
		if err := run(ctx); err != nil {
			log.Fatal(err)
		}
		return
	}
	files := inv.watched()
	if len(files) == 0 {
		log.Fatal("-watch requires -config or -in")
	}
	if err := watch(ctx, files, run); err != nil {
		log.Fatal(err)
	}
}

// printer samples configured expressions and writes the results.
type printer struct {
	w    io.Writer
	verb string
	echo bool
	dump bool
}

func (p *printer) run(ctx context.Context, cfg config) error {
	e, err := curves.Parse(cfg.Expression, cfg.Variable)
	if err != nil {
		var ierr curves.InputError
		if errors.As(err, &ierr) {
			// Point at the offending rune under the source.
			return fmt.Errorf("%s\n%s^\n%w", cfg.Expression, strings.Repeat(" ", ierr.Offset()), err)
		}
		return err
	}
	if p.echo {
		fmt.Fprintln(p.w, e)
	}
	if p.dump {
		fmt.Fprintln(p.w, litter.Options{HomePackage: "curves"}.Sdump(e))
	}
	s := curves.Sampler{Workers: cfg.Workers}
	pts, err := s.Sample(ctx, e, cfg.Domain)
	if err != nil {
		return err
	}
	if cfg.Format == "json" {
		return writeJSON(p.w, pts)
	}
	verb := p.verb
	if verb == "" {
		verb = "%g"
	}
	return writeText(p.w, pts, verb)
}
