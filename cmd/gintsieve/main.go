// Command gintsieve generates Gaussian primes with norm up to x using
// sieving methods, and exposes the moat explorers and distribution analyses
// as subcommands.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gausslab/gintsieve/analysis"
	"github.com/gausslab/gintsieve/internal/progress"
	"github.com/gausslab/gintsieve/moat"
	"github.com/gausslab/gintsieve/sieve"
)

var (
	verbose     bool
	printPrimes bool
	printArray  bool
	write       bool
	countOnly   bool
	donut       bool
	octant      bool
	sector      bool
	block       bool
)

// positional arguments, filled by type heuristic: integer tokens land in
// x, y, dx, dy in order; decimal tokens land in alpha, beta.
type sieveArgs struct {
	x, y, dx, dy int64
	xSet, ySet   bool
	dxSet, dySet bool
	alpha, beta  float64
	alphaSet     bool
	betaSet      bool
}

func parsePositionals(args []string) (*sieveArgs, error) {
	p := &sieveArgs{}
	for _, arg := range args {
		if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
			switch {
			case !p.xSet:
				p.x, p.xSet = n, true
			case !p.ySet:
				p.y, p.ySet = n, true
			case !p.dxSet:
				p.dx, p.dxSet = n, true
			case !p.dySet:
				p.dy, p.dySet = n, true
			default:
				return nil, fmt.Errorf("too many integer arguments: %q", arg)
			}
			continue
		}
		if f, err := strconv.ParseFloat(arg, 64); err == nil {
			switch {
			case !p.alphaSet:
				p.alpha, p.alphaSet = f, true
			case !p.betaSet:
				p.beta, p.betaSet = f, true
			default:
				return nil, fmt.Errorf("too many decimal arguments: %q", arg)
			}
			continue
		}
		return nil, fmt.Errorf("cannot understand input %q", arg)
	}
	if !p.xSet {
		return nil, fmt.Errorf("norm bound x is required")
	}
	return p, nil
}

// runnable is the slice of the sieve surface the driver needs; the sieve
// objects are distinct types, so each flavor wraps into one of these.
type runnable interface {
	Run() error
	Count() int64
	PrintPrimes(w io.Writer)
	PrintSieveArray(w io.Writer)
	WritePrimes(dir string) (string, error)
}

func pickSieve(p *sieveArgs) (runnable, string, error) {
	switch {
	case sector:
		if !p.alphaSet || !p.betaSet {
			return nil, "", fmt.Errorf("provide angle values alpha and beta to use the sector sieve")
		}
		s, err := sieve.NewSectorSieve(p.x, p.alpha, p.beta, verbose)
		return s, "sector", err
	case block && donut:
		if !p.ySet || !p.dxSet || !p.dySet {
			return nil, "", fmt.Errorf("provide coordinates x, y, dx, and dy to use the block sieve")
		}
		s, err := sieve.NewBlockDonutSieve(p.x, p.y, p.dx, p.dy, verbose)
		return s, "block donut", err
	case block:
		if !p.ySet || !p.dxSet || !p.dySet {
			return nil, "", fmt.Errorf("provide coordinates x, y, dx, and dy to use the block sieve")
		}
		s, err := sieve.NewBlockSieve(p.x, p.y, p.dx, p.dy, verbose)
		return s, "block", err
	case octant && !donut:
		s, err := sieve.NewOctantSieve(p.x, verbose)
		return s, "octant", err
	default:
		s, err := sieve.NewOctantDonutSieve(p.x, verbose)
		return s, "octant donut", err
	}
}

func runSieve(cmd *cobra.Command, args []string) error {
	p, err := parsePositionals(args)
	if err != nil {
		return err
	}
	s, name, err := pickSieve(p)
	if err != nil {
		return err
	}
	if verbose {
		log.Infof("calling the %s sieve", name)
	}
	start := time.Now()
	if err := s.Run(); err != nil {
		return err
	}
	if printArray {
		s.PrintSieveArray(os.Stdout)
	}
	if countOnly {
		fmt.Println(s.Count())
		return nil
	}
	if write {
		path, err := s.WritePrimes("")
		if err != nil {
			return err
		}
		if verbose {
			log.Infof("wrote primes to %s", path)
		}
	}
	if printPrimes || (!printArray && !write) {
		s.PrintPrimes(os.Stdout)
	}
	if verbose {
		log.Infof("found %s primes in %.3fs",
			progress.FormatNumber(s.Count()), time.Since(start).Seconds())
	}
	return nil
}

func newMoatCmd() *cobra.Command {
	var (
		jump      float64
		bound     int64
		vertical  bool
		segmented bool
		realPart  int64
	)
	cmd := &cobra.Command{
		Use:   "moat",
		Short: "Explore connected components of the Gaussian prime graph under bounded jumps",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case vertical:
				m, err := moat.NewVerticalMoat(realPart, jump, verbose)
				if err != nil {
					return err
				}
				res, err := m.Run()
				if err != nil {
					return err
				}
				fmt.Printf("Gaussian moat present; block stopped at (%d, %d) after visiting %d primes\n",
					res.FinalX, res.FinalY, res.Visited)
			case segmented:
				m, err := moat.NewSegmentedMoat(bound, jump, verbose)
				if err != nil {
					return err
				}
				res, err := m.Run()
				if err != nil {
					return err
				}
				fmt.Printf("components: %d, origin component size: %d, largest: %d\n",
					res.Components, res.OriginSize, res.Largest)
			default:
				m, err := moat.NewOctantMoat(bound, jump, verbose)
				if err != nil {
					return err
				}
				comp := m.ExploreComponent(1, 1)
				fmt.Printf("component of 1+1i: %d primes\n", len(comp))
				if max, ok := m.ComponentMax(); ok {
					fmt.Printf("farthest element: %v (norm %d)\n", max, max.Norm())
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64VarP(&jump, "jump", "j", 2, "maximum Euclidean hop length")
	cmd.Flags().Int64VarP(&bound, "bound", "n", 1_000_000, "norm bound of the sieved region")
	cmd.Flags().BoolVar(&vertical, "vertical", false, "slide a block along a fixed real part")
	cmd.Flags().BoolVar(&segmented, "segmented", false, "count components with the segmented explorer")
	cmd.Flags().Int64VarP(&realPart, "real-part", "r", 10000, "anchor real part for the vertical moat")
	return cmd
}

func newHistCmd() *cobra.Command {
	var bins int
	cmd := &cobra.Command{
		Use:   "hist x",
		Short: "Histogram of Gaussian prime angles over the first octant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("cannot understand norm bound %q", args[0])
			}
			counts, err := analysis.AngularDistribution(x, bins)
			if err != nil {
				return err
			}
			for i, c := range counts {
				fmt.Printf("%d %d\n", i, c)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&bins, "bins", "k", 32, "number of angular bins")
	return cmd
}

func newRaceCmd() *cobra.Command {
	var bins int
	cmd := &cobra.Command{
		Use:   "race x alpha beta gamma delta",
		Short: "Cumulative prime-count race between two angular sectors",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("cannot understand norm bound %q", args[0])
			}
			angles := make([]float64, 4)
			for i, arg := range args[1:] {
				angles[i], err = strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("cannot understand angle %q", arg)
				}
			}
			r, err := analysis.NewSectorRace(x, bins, angles[0], angles[1], angles[2], angles[3])
			if err != nil {
				return err
			}
			for i, v := range r.NormData() {
				fmt.Printf("%d %d\n", i, v)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&bins, "bins", "k", 100, "number of norm bins")
	return cmd
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)

	root := &cobra.Command{
		Use:   "gintsieve x [y dx dy alpha beta]",
		Short: "Generate Gaussian primes with norm up to x using sieving methods",
		Long: `Generate Gaussian primes with norm up to x using sieving methods.

Positional arguments are filled by type: integer tokens become x, y, dx, dy
in order; decimal tokens become the sector angles alpha and beta.`,
		Args:          cobra.ArbitraryArgs,
		RunE:          runSieve,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.InfoLevel)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "display sieving progress")
	root.Flags().BoolVarP(&printPrimes, "printprimes", "p", false, "print the real and imag part of primes found by the sieve")
	root.Flags().BoolVarP(&printArray, "printarray", "a", false, "print a text representation of the sieve array")
	root.Flags().BoolVarP(&write, "write", "w", false, "write primes to csv file in current directory")
	root.Flags().BoolVarP(&countOnly, "count", "c", false, "count the number of generated primes and exit")
	root.Flags().BoolVarP(&octant, "octant", "o", false, "octant sieve (the default)")
	root.Flags().BoolVarP(&sector, "sector", "s", false, "sector sieve between angles alpha and beta")
	root.Flags().BoolVarP(&block, "block", "b", false, "block sieve over x <= real < x+dx, y <= imag < y+dy")
	root.Flags().BoolVarP(&donut, "donut", "d", false, "use the donut-accelerated sieve when compatible")

	root.AddCommand(newMoatCmd(), newHistCmd(), newRaceCmd())

	// Usage goes to stderr and help is exit code 1, like any other run that
	// produced no primes.
	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stderr)
		defaultHelp(cmd, args)
		os.Exit(1)
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\nUse -h for help.\n", err)
		os.Exit(1)
	}
}
