// Arcanum is a deterministic narrative runtime: quests, world-state
// conditions, spellcasting, and Lua-authored content.
// Usage: arcanum [--version] [--plain] [--script <file>] <content_directory>
package main

import (
	"fmt"
	"os"

	"github.com/nathoo/arcanum/cli"
	"github.com/nathoo/arcanum/engine"
	"github.com/nathoo/arcanum/loader"
	"github.com/nathoo/arcanum/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	var contentDir string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("arcanum %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}

	if contentDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: arcanum [--version] [--plain] [--script <file>] <content_directory>\n")
		os.Exit(1)
	}

	// Load and compile Lua content.
	lib, err := loader.Load(contentDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
		os.Exit(1)
	}

	session := engine.NewSession(lib.Content, loader.NewService(lib))

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		fmt.Printf("%s v%s by %s\n\n", lib.Content.Title, lib.Content.Version, lib.Content.Author)
		c := cli.New(session)
		c.In = f
		c.EchoInput = true
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		fmt.Printf("%s v%s by %s\n\n", lib.Content.Title, lib.Content.Version, lib.Content.Author)
		c := cli.New(session)
		c.Run()
		return
	}

	if err := tui.Run(session); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
