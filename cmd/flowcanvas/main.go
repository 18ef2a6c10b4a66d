// Package main provides the FlowCanvas CLI: run a pipeline graph (the
// demo pipeline or a snapshot file) and print the run report and the
// generated pipeline code.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/flowcanvas/flowcanvas/internal/adapters/collaborator/httpcall"
	"github.com/flowcanvas/flowcanvas/internal/adapters/collaborator/openai"
	"github.com/flowcanvas/flowcanvas/internal/adapters/collaborator/stub"
	"github.com/flowcanvas/flowcanvas/internal/app/usecases"
	"github.com/flowcanvas/flowcanvas/internal/infrastructure/ctxlog"
	"github.com/flowcanvas/flowcanvas/pkg/flowcanvas"
	"github.com/flowcanvas/flowcanvas/pkg/prebuilt"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("FlowCanvas %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		return
	}

	// Optional .env for OPENAI_API_KEY and friends.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	if err := run(ctx, os.Args[1:]); err != nil {
		logger.Error("flowcanvas failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cmd := "run"
	if len(args) > 0 {
		cmd = args[0]
	}

	rt := flowcanvas.NewRuntime(collaborators())

	g, err := loadGraph(rt, args)
	if err != nil {
		return err
	}

	switch cmd {
	case "run":
		result, err := rt.Run(ctx, g)
		if result != nil {
			printResult(result)
		}
		return err
	case "codegen":
		code, err := rt.Generate(g)
		if err != nil {
			return err
		}
		fmt.Print(code)
		return nil
	default:
		return fmt.Errorf("unknown command %q (expected run, codegen, or version)", cmd)
	}
}

// collaborators picks the real OpenAI client when a key is configured and
// the deterministic stub otherwise, so the demo works offline.
func collaborators() usecases.Collaborators {
	c := usecases.Collaborators{
		HTTP:   httpcall.New(30 * time.Second),
		Output: stub.NewOutput(),
	}
	if ai, err := openai.New(os.Getenv("OPENAI_API_KEY")); err == nil {
		c.AI = ai
	} else {
		c.AI = &stub.AI{}
	}
	return c
}

// loadGraph reads a snapshot path given after the command, falling back to
// the builtin demo pipeline.
func loadGraph(rt *flowcanvas.Runtime, args []string) (*flowcanvas.Graph, error) {
	if len(args) > 1 {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return nil, err
		}
		var snap flowcanvas.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parse snapshot %s: %w", args[1], err)
		}
		return rt.Restore(&snap)
	}
	return prebuilt.NewSummarizePipeline(rt.Registry(), "FlowCanvas executes workflow graphs in dependency order.")
}

func printResult(result *flowcanvas.RunResult) {
	fmt.Printf("run %s: %s (%s)\n", result.RunID, result.Status, result.Duration.Round(time.Millisecond))
	for _, n := range result.Nodes {
		line := fmt.Sprintf("  %-12s %-10s %s", n.Kind, n.Status, n.NodeID)
		if n.Error != "" {
			line += " error=" + n.Error
		}
		fmt.Println(line)
	}
	for _, id := range result.Skipped {
		fmt.Printf("  %-12s %-10s %s\n", "-", "skipped", id)
	}
}
