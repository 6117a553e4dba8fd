// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordchain command.

wordchain learns which words follow which in a plain text file and uses those
counts to rank the likely successors of a word or to generate a chain of words
from a seed. Adjacency is counted inside lines only, and every token is
normalized before it is counted or looked up.

# Usage

Print the k most probable successors of a word, space separated:

	wordchain corpus.txt the 5

Generate a chain of k words starting at a seed. "one" always takes the most
probable successor; "all" samples successors by their observed frequency:

	wordchain corpus.txt the 12 one
	wordchain corpus.txt the 12 all

A word without successors is followed by the seed again, so a chain always
has exactly k words.

Explore a corpus interactively, or serve it over msgpack IPC:

	wordchain -c corpus.txt
	wordchain -serve corpus.txt

# Configuration

Defaults live in a TOML file that is created on first run:

	[generate]
	default_mode = "one"
	default_length = 12
	random_seed = 0

	[normalize]
	strip = true

	[server]
	max_k = 256

	[cli]
	default_rank = 5

# Exit status

0 on success, 1 when the training file cannot be read, 2 on usage errors.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordchain/internal/cli"
	"github.com/bastiangx/wordchain/pkg/chain"
	"github.com/bastiangx/wordchain/pkg/config"
	"github.com/bastiangx/wordchain/pkg/corpus"
	"github.com/bastiangx/wordchain/pkg/server"
	"github.com/bastiangx/wordchain/pkg/token"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "wordchain"
	gh      = "https://github.com/bastiangx/wordchain"
)

const (
	exitFile  = 1
	exitUsage = 2
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main parses flags, loads config and hands off to the selected mode.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	configPath := flag.String("config", "", "Path to a TOML config file")
	resetConfig := flag.Bool("reset-config", false, "Rewrite the default config file and exit")
	cliMode := flag.Bool("c", false, "Interactive mode on <file>")
	serveMode := flag.Bool("serve", false, "Serve <file> over msgpack IPC on stdin/stdout")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s\n  %s [-c | -serve] <file>\n\nFlags:\n", cli.Usage, AppName)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Errorf("Failed to rebuild config: %v", err)
			os.Exit(1)
		}
		log.Print("Config rebuilt with defaults")
		os.Exit(0)
	}

	// Plain positional runs leave no state behind; only the long-running
	// modes create the default config file.
	loadConfig := config.LookupConfig
	if *cliMode || *serveMode {
		loadConfig = config.LoadConfigWithPriority
	}
	cfg, usedPath, err := loadConfig(*configPath)
	if err != nil {
		log.Warnf("Config unavailable, using built-in defaults: %v", err)
		cfg, usedPath = config.DefaultConfig(), ""
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(usedPath))
	norm := token.FromStrip(cfg.Normalize.Strip)
	log.Debugf("Normalization policy: %s", norm.Policy)

	args := flag.Args()
	if *cliMode || *serveMode {
		if *cliMode && *serveMode {
			usageExit(errors.New("-c and -serve are mutually exclusive"))
		}
		if len(args) != 1 {
			usageExit(fmt.Errorf("expected exactly one training file, got %d arguments", len(args)))
		}
		m, err := corpus.LoadFile(args[0], norm)
		if err != nil {
			fileExit(err)
		}
		log.Debug("Corpus loaded", "stats", m.Stats())

		if *cliMode {
			log.SetReportTimestamp(false)
			if err := cli.NewInputHandler(m, cfg, os.Stdin, os.Stdout).Start(); err != nil {
				log.Fatalf("CLI error: %v", err)
			}
			return
		}

		showStartupInfo(args[0], m)
		if err := server.NewServer(m, cfg).Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
		return
	}

	runner := &cli.Runner{
		Out:        os.Stdout,
		Normalizer: norm,
		Rand:       chain.NewSource(cfg.Generate.RandomSeed),
	}
	if err := runner.Run(args); err != nil {
		if cli.IsUsageError(err) {
			usageExit(err)
		}
		fileExit(err)
	}
}

func usageExit(err error) {
	log.Error(err)
	flag.Usage()
	os.Exit(exitUsage)
}

// fileExit reports a training file failure. The run never continues on an
// empty model.
func fileExit(err error) {
	var fae *corpus.FileAccessError
	if errors.As(err, &fae) {
		log.Errorf("Training file %s is unusable: %v", fae.Path, fae.Err)
		fmt.Fprintf(os.Stderr, "%s: cannot read %s\n", AppName, fae.Path)
	} else {
		log.Errorf("%v", err)
	}
	os.Exit(exitFile)
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ wordchain ] word adjacency chains from plain text")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo prints load details to stderr; stdout belongs to IPC.
func showStartupInfo(path string, m *corpus.Model) {
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel})
	if log.GetLevel() > log.InfoLevel {
		return
	}
	logger.Infof("Version: %s", Version)
	logger.Infof("Process ID: [ %d ]", os.Getpid())
	logger.Infof("corpus: ( %s )", path)
	logger.Infof("predecessors: %d, pairs: %d, lines: %d", m.Len(), m.Pairs(), m.Lines())
	logger.Info("status: ready")
}
