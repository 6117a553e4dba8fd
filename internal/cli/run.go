// Package cli implements the positional command line contract and an
// interactive prompt for exploring a trained model.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/bastiangx/wordchain/pkg/chain"
	"github.com/bastiangx/wordchain/pkg/corpus"
	"github.com/bastiangx/wordchain/pkg/successor"
	"github.com/bastiangx/wordchain/pkg/token"
	"github.com/charmbracelet/log"
)

// Usage is the positional synopsis printed with usage errors.
const Usage = "wordchain <file> <seed> <k> [one|all]"

// ErrUsage reports malformed positional arguments.
var ErrUsage = errors.New("usage: " + Usage)

// IsUsageError reports whether err stems from bad arguments rather than
// from the training file.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrUsage) ||
		errors.Is(err, chain.ErrNegativeLength) ||
		errors.Is(err, chain.ErrUnknownMode)
}

// Runner executes one positional invocation.
type Runner struct {
	Out        io.Writer
	Normalizer token.Normalizer
	Rand       successor.Source
}

// Run dispatches on the number of positional arguments:
//
//	<file> <seed> <k>         top k successors of seed
//	<file> <seed> <k> <mode>  a chain of k words starting at seed
func (r *Runner) Run(args []string) error {
	if len(args) != 3 && len(args) != 4 {
		return fmt.Errorf("%w: got %d arguments", ErrUsage, len(args))
	}
	path, seed := args[0], r.Normalizer.Normalize(args[1])
	k, err := ParseLength(args[2])
	if err != nil {
		return err
	}
	if len(args) == 3 {
		return r.rank(path, seed, k)
	}
	mode, err := chain.ParseMode(args[3])
	if err != nil {
		return err
	}
	return r.chain(path, seed, k, mode)
}

// ParseLength parses a non-negative word count.
func ParseLength(s string) (int, error) {
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: k must be an integer, got %q", ErrUsage, s)
	}
	if k < 0 {
		return 0, fmt.Errorf("%w: %d", chain.ErrNegativeLength, k)
	}
	return k, nil
}

func (r *Runner) rank(path, seed string, k int) error {
	sm, err := corpus.LoadSeed(path, seed, r.Normalizer)
	if err != nil {
		return err
	}
	words := chain.Rank(sm, k)
	log.Debugf("Ranked %d of %d successors of %q", len(words), sm.Len(), seed)
	if len(words) == 0 {
		return nil
	}
	_, err = fmt.Fprintln(r.Out, chain.Join(words))
	return err
}

func (r *Runner) chain(path, seed string, k int, mode chain.Mode) error {
	m, err := corpus.LoadFile(path, r.Normalizer)
	if err != nil {
		return err
	}
	var opts []chain.Option
	if r.Rand != nil {
		opts = append(opts, chain.WithRand(r.Rand))
	}

	// Words are streamed so memory stays flat for any k.
	out := bufio.NewWriter(r.Out)
	var writeErr error
	err = chain.New(m, mode, opts...).Walk(seed, k, func(word string) bool {
		if _, writeErr = out.WriteString(word + " "); writeErr != nil {
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	if writeErr != nil {
		return fmt.Errorf("writing chain: %w", writeErr)
	}
	if k > 0 {
		if err := out.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing chain: %w", err)
		}
	}
	return out.Flush()
}
