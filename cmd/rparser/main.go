// Command rparser loads a rhythm-game chart and re-emits it, either as
// a freshly serialized BMS file or as an HTML measure dump for visual
// inspection.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/bms"
	"github.com/rhythmus-emulator/rparser-sub000/pkg/cli"
	"github.com/rhythmus-emulator/rparser-sub000/pkg/container"
	"github.com/rhythmus-emulator/rparser-sub000/pkg/htmlexport"
	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
	"github.com/rhythmus-emulator/rparser-sub000/pkg/song"
	"github.com/rhythmus-emulator/rparser-sub000/pkg/vos"
	"github.com/rhythmus-emulator/rparser-sub000/pkg/writer"
)

func main() {
	config, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if config.ShowHelp {
		cli.PrintHelp()
		return
	}
	if config.InputPath == "" {
		cli.PrintHelp()
		os.Exit(2)
	}

	logf := logFunc(config.LogLevel)

	charts, err := loadCharts(context.Background(), config)
	if err != nil {
		log.Fatalf("rparser: %v", err)
	}
	logf("loaded %d chart(s) from %s", len(charts), config.InputPath)

	out := os.Stdout
	if config.OutputPath != "" {
		f, err := os.Create(config.OutputPath)
		if err != nil {
			log.Fatalf("rparser: %v", err)
		}
		defer f.Close()
		out = f
	}

	for i, chart := range charts {
		if i > 0 {
			fmt.Fprintln(out, "\n---")
		}
		switch config.Format {
		case "html":
			fmt.Fprintln(out, htmlexport.Export(chart))
		default:
			out.Write(writer.WriteBMS(chart))
		}
	}
}

// loadCharts loads every chart the input path resolves to: a single
// BMS-family or VOS file when AsFolder is unset, or every chart inside
// a container directory otherwise.
func loadCharts(ctx context.Context, config *cli.Config) ([]*model.Chart, error) {
	if config.AsFolder {
		store := container.NewFolderStore(config.InputPath, false)
		if err := store.Open(ctx); err != nil {
			return nil, fmt.Errorf("opening %s: %w", config.InputPath, err)
		}
		defer store.Close()

		s, err := song.Load(ctx, store)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", config.InputPath, err)
		}
		return s.Charts, nil
	}

	data, err := os.ReadFile(config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", config.InputPath, err)
	}

	switch strings.ToLower(filepath.Ext(config.InputPath)) {
	case ".vos":
		chart, err := vos.Load(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", config.InputPath, err)
		}
		return []*model.Chart{chart}, nil
	default:
		chart, warnings := bms.Load(data)
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "rparser: %s: %v\n", config.InputPath, w)
		}
		return []*model.Chart{chart}, nil
	}
}

func logFunc(level string) func(format string, args ...any) {
	if level == "debug" || level == "info" {
		return func(format string, args ...any) { log.Printf(format, args...) }
	}
	return func(string, ...any) {}
}
