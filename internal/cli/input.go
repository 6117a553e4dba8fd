package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/bastiangx/wordchain/internal/logger"
	"github.com/bastiangx/wordchain/pkg/chain"
	"github.com/bastiangx/wordchain/pkg/config"
	"github.com/bastiangx/wordchain/pkg/corpus"
	"github.com/bastiangx/wordchain/pkg/successor"
	"github.com/bastiangx/wordchain/pkg/token"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler reads "seed [k] [mode]" lines and prints a chain plus the
// seed's ranked successors for each. Lines starting with ':' are commands:
//
//	:words <prefix>  list known predecessors under prefix
//	:stats           print corpus counters
type InputHandler struct {
	corpus     *corpus.Model
	normalizer token.Normalizer
	rng        successor.Source
	length     int
	mode       string
	rank       int
	in         io.Reader
	out        io.Writer
	requests   int
	log        *log.Logger
}

// NewInputHandler creates a handler over corp using the generate and cli
// defaults of cfg.
func NewInputHandler(corp *corpus.Model, cfg *config.Config, in io.Reader, out io.Writer) *InputHandler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &InputHandler{
		corpus:     corp,
		normalizer: token.FromStrip(cfg.Normalize.Strip),
		rng:        chain.NewSource(cfg.Generate.RandomSeed),
		length:     cfg.Generate.DefaultLength,
		mode:       cfg.Generate.DefaultMode,
		rank:       cfg.CLI.DefaultRank,
		in:         in,
		out:        out,
		log:        logger.New("repl"),
	}
}

// Start runs the prompt loop until the input ends.
func (h *InputHandler) Start() error {
	h.log.Print("wordchain interactive")
	h.log.Print("type a seed word, optionally followed by a length and one|all (Ctrl+D to exit):")
	reader := bufio.NewReader(h.in)

	for {
		h.log.Print("> ")
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				h.log.Debugf("Handled %d requests", h.requests)
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requests++
	fields := strings.Fields(line)
	if strings.HasPrefix(fields[0], ":") {
		h.handleCommand(fields)
		return
	}
	if len(fields) > 3 {
		h.log.Errorf("Expected: seed [k] [one|all], got %d fields", len(fields))
		return
	}

	seed := h.normalizer.Normalize(fields[0])
	k := h.length
	label := h.mode
	if len(fields) > 1 {
		n, err := ParseLength(fields[1])
		if err != nil {
			h.log.Errorf("Invalid length: %v", err)
			return
		}
		k = n
	}
	if len(fields) > 2 {
		label = fields[2]
	}
	mode, err := chain.ParseMode(label)
	if err != nil {
		h.log.Errorf("%v", err)
		return
	}

	start := time.Now()
	gen := chain.New(h.corpus, mode, chain.WithRand(h.rng))
	words, err := gen.Generate(seed, k)
	if err != nil {
		h.log.Errorf("Generating chain: %v", err)
		return
	}
	h.log.Debugf("Took [ %v ] for %s chain of %d from '%s'", time.Since(start), gen.Mode(), k, seed)

	fmt.Fprintln(h.out, chain.Join(words))
	h.printSuccessors(seed)
}

func (h *InputHandler) printSuccessors(seed string) {
	sm, ok := h.corpus.Get(seed)
	if !ok || sm.IsEmpty() {
		h.log.Warnf("No successors observed for '%s'", seed)
		return
	}
	entries := sm.Ranked()
	if len(entries) > h.rank {
		entries = entries[:h.rank]
	}
	fmt.Fprintf(h.out, "Top %d of %d successors of '%s':\n", len(entries), sm.Len(), seed)
	for i, e := range entries {
		word := wordStyle.Render(e.Word)
		fmt.Fprintf(h.out, "%2d. %-24s (count: %8s, p=%.3f)\n", i+1, word, formatWithCommas(e.Count), sm.Probability(e.Word))
	}
}

func (h *InputHandler) handleCommand(fields []string) {
	switch fields[0] {
	case ":words":
		prefix := ""
		if len(fields) > 1 {
			prefix = h.normalizer.Normalize(fields[1])
		}
		words := h.corpus.Words(prefix, h.rank*4)
		if len(words) == 0 {
			h.log.Warnf("No words found for prefix: '%s'", prefix)
			return
		}
		fmt.Fprintln(h.out, strings.Join(words, " "))
	case ":stats":
		stats := h.corpus.Stats()
		keys := make([]string, 0, len(stats))
		for key := range stats {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(h.out, "%-16s %s\n", key, formatWithCommas(stats[key]))
		}
	default:
		h.log.Errorf("Unknown command: %s", fields[0])
	}
}

// formatWithCommas formats an integer with comma separators
func formatWithCommas(n int) string {
	str := fmt.Sprintf("%d", n)
	if n < 1000 && n > -1000 {
		return str
	}
	sign := ""
	if n < 0 {
		sign, str = "-", str[1:]
	}
	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return sign + b.String()
}
