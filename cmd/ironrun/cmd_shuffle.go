package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chr1sbest/ironrun/internal/shuffle"
)

func shuffleCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("shuffle", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, `shuffle  Print a deterministic shuffle

Usage:
  ironrun shuffle [-seed N] <name>...
  ironrun shuffle [-seed N] -len N

Without names, prints the permutation of indices 0..len-1. Without -seed,
a seed is derived from the clock and reported on stderr.
`)
	}
	seedFlag := fs.String("seed", "", "32-bit shuffle seed (default: derived from the clock)")
	n := fs.Uint("len", 0, "Number of indices to shuffle when no names are given")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	var seedArg *uint32
	if *seedFlag != "" {
		v, err := strconv.ParseUint(strings.TrimSpace(*seedFlag), 10, 32)
		if err != nil {
			fmt.Fprintf(stderr, "invalid seed %q: must be an unsigned 32-bit integer\n", *seedFlag)
			return 2
		}
		s := uint32(v)
		seedArg = &s
	}
	seed := shuffle.ResolveSeed(seedArg, time.Now)
	if seedArg == nil {
		fmt.Fprintf(stderr, "seed: %d\n", seed)
	}

	names := fs.Args()
	if len(names) == 0 {
		if *n > 1<<20 {
			fmt.Fprintf(stderr, "-len %d is too large\n", *n)
			return 2
		}
		idx := shuffle.ShuffledIndices(uint32(*n), seed)
		parts := make([]string, len(idx))
		for i, v := range idx {
			parts[i] = strconv.FormatUint(uint64(v), 10)
		}
		fmt.Fprintln(stdout, strings.Join(parts, " "))
		return 0
	}

	for _, idx := range shuffle.ShuffledIndices(uint32(len(names)), seed) {
		fmt.Fprintln(stdout, names[idx])
	}
	return 0
}
