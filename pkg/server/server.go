package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/wordchain/internal/logger"
	"github.com/bastiangx/wordchain/internal/utils"
	"github.com/bastiangx/wordchain/pkg/chain"
	"github.com/bastiangx/wordchain/pkg/config"
	"github.com/bastiangx/wordchain/pkg/corpus"
	"github.com/bastiangx/wordchain/pkg/successor"
	"github.com/bastiangx/wordchain/pkg/token"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	codeBadRequest = 400
	codeInternal   = 500
	defaultWords   = 10
)

// Server answers msgpack requests against a loaded corpus model.
type Server struct {
	corpus   *corpus.Model
	cfg      *config.Config
	norm     token.Normalizer
	rng      successor.Source
	decoder  *msgpack.Decoder
	encoder  *msgpack.Encoder
	out      *bufio.Writer
	log      *log.Logger
	requests int
}

// NewServer creates a server using stdin/stdout for IPC.
func NewServer(corp *corpus.Model, cfg *config.Config) *Server {
	return NewServerWithIO(corp, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w.
func NewServerWithIO(corp *corpus.Model, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	out := bufio.NewWriter(w)
	return &Server{
		corpus:  corp,
		cfg:     cfg,
		norm:    token.FromStrip(cfg.Normalize.Strip),
		rng:     chain.NewSource(cfg.Generate.RandomSeed),
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		encoder: msgpack.NewEncoder(out),
		out:     out,
		log:     logger.New("server"),
	}
}

// Start sends the ready message and serves requests until the input ends.
func (s *Server) Start() error {
	s.log.Debug("Starting server")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			s.log.Errorf("Reading request stream: %v", err)
			return err
		}
		s.requests++
		if err := s.handleRequest(raw); err != nil {
			return err
		}
	}
}

// handleRequest dispatches one raw request. Only write failures are returned.
func (s *Server) handleRequest(raw msgpack.RawMessage) error {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.log.Errorf("Unmarshaling request: %v", err)
		return s.sendError("", "invalid request", codeBadRequest)
	}

	switch req.Action {
	case "rank":
		return s.handleRank(req)
	case "chain":
		return s.handleChain(req)
	case "words":
		return s.handleWords(req)
	case "health":
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %q", req.Action), codeBadRequest)
	}
}

func (s *Server) handleRank(req Request) error {
	if req.Seed == "" {
		return s.sendError(req.ID, "missing 'seed' parameter", codeBadRequest)
	}
	seed := s.norm.Normalize(req.Seed)
	k, err := s.limit(req.K, s.cfg.CLI.DefaultRank)
	if err != nil {
		return s.sendError(req.ID, err.Error(), codeBadRequest)
	}

	start := time.Now()
	var entries []successor.Entry
	if sm, ok := s.corpus.Get(seed); ok {
		entries = sm.Ranked()
	}
	if len(entries) > k {
		entries = entries[:k]
	}
	ranks := utils.CreateRankList(len(entries))
	ranked := make([]RankedWord, len(entries))
	for i, e := range entries {
		ranked[i] = RankedWord{Word: e.Word, Rank: ranks[i], Count: e.Count}
	}
	elapsed := time.Since(start)

	s.log.Debugf("rank %q k=%d -> %d successors in %v", seed, k, len(ranked), elapsed)
	return s.send(RankResponse{
		ID:         req.ID,
		Seed:       seed,
		Successors: ranked,
		Count:      len(ranked),
		TimeTaken:  elapsed.Microseconds(),
	})
}

func (s *Server) handleChain(req Request) error {
	if req.Seed == "" {
		return s.sendError(req.ID, "missing 'seed' parameter", codeBadRequest)
	}
	label := req.Mode
	if label == "" {
		label = s.cfg.Generate.DefaultMode
	}
	mode, err := chain.ParseMode(label)
	if err != nil {
		return s.sendError(req.ID, err.Error(), codeBadRequest)
	}
	k, err := s.limit(req.K, s.cfg.Generate.DefaultLength)
	if err != nil {
		return s.sendError(req.ID, err.Error(), codeBadRequest)
	}

	start := time.Now()
	gen := chain.New(s.corpus, mode, chain.WithRand(s.rng))
	words, err := gen.Generate(s.norm.Normalize(req.Seed), k)
	if err != nil {
		s.log.Errorf("Generating chain: %v", err)
		return s.sendError(req.ID, "chain generation failed", codeInternal)
	}
	elapsed := time.Since(start)

	return s.send(ChainResponse{
		ID:        req.ID,
		Words:     words,
		Mode:      gen.Mode().String(),
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) handleWords(req Request) error {
	k, err := s.limit(req.K, defaultWords)
	if err != nil {
		return s.sendError(req.ID, err.Error(), codeBadRequest)
	}
	prefix := s.norm.Normalize(req.Prefix)
	words := s.corpus.Words(prefix, k)
	if words == nil {
		words = []string{}
	}
	return s.send(WordsResponse{ID: req.ID, Words: words, Count: len(words)})
}

// limit resolves a requested k against a fallback and server.max_k.
func (s *Server) limit(k *int, fallback int) (int, error) {
	if k == nil {
		return utils.ClampInt(fallback, 0, s.cfg.Server.MaxK), nil
	}
	if *k < 0 {
		return 0, fmt.Errorf("'k' must be non-negative, got %d", *k)
	}
	if *k > s.cfg.Server.MaxK {
		s.log.Debugf("Capping k=%d at max_k=%d", *k, s.cfg.Server.MaxK)
	}
	return utils.ClampInt(*k, 0, s.cfg.Server.MaxK), nil
}

func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return err
	}
	return s.out.Flush()
}

func (s *Server) sendError(id, message string, code int) error {
	s.log.Debugf("Request %q failed (%d): %s", id, code, message)
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
