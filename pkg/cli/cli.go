// Package cli parses the rparser command's arguments. Flags may
// appear anywhere on the command line; the input path is always the
// remaining bare argument.
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

func flagSet() *flag.FlagSet {
	return flag.NewFlagSet("rparser", flag.ContinueOnError)
}

// Config holds the parsed command-line configuration.
type Config struct {
	InputPath  string // chart file, or a directory when AsFolder is set
	OutputPath string // destination file; empty means stdout
	Format     string // "bms" or "html"
	AsFolder   bool   // treat InputPath as a container directory, not a single chart file
	LogLevel   string // debug, info, warn, error
	ShowHelp   bool
}

// ParseArgs parses args into a Config.
func ParseArgs(args []string) (*Config, error) {
	reordered := reorderArgs(args)

	fs := flagSet()
	config := &Config{}

	fs.StringVar(&config.OutputPath, "output", "", "出力ファイルパス（省略時は標準出力）")
	fs.StringVar(&config.OutputPath, "o", "", "出力ファイルパス（短縮形）")
	fs.StringVar(&config.Format, "format", "bms", "出力フォーマット（bms, html）")
	fs.StringVar(&config.Format, "f", "bms", "出力フォーマット（短縮形）")
	fs.BoolVar(&config.AsFolder, "folder", false, "入力パスをコンテナディレクトリとして扱う")
	fs.StringVar(&config.LogLevel, "log-level", "info", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", "info", "ログレベル（短縮形）")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reordered); err != nil {
		return nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["log-level"] && !set["l"] {
		if v := os.Getenv("LOG_LEVEL"); v != "" {
			config.LogLevel = strings.ToLower(v)
		}
	}
	if !set["format"] && !set["f"] {
		if v := os.Getenv("RPARSER_FORMAT"); v != "" {
			config.Format = strings.ToLower(v)
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	validFormats := map[string]bool{"bms": true, "html": true}
	if !validFormats[config.Format] {
		return nil, fmt.Errorf("invalid format: %s (must be bms or html)", config.Format)
	}

	if fs.NArg() > 0 {
		config.InputPath = fs.Arg(0)
	}

	return config, nil
}

// reorderArgs moves every flag (and its value, for non-boolean flags)
// ahead of the positional arguments, so ParseArgs accepts the input
// path in any position on the command line.
func reorderArgs(args []string) []string {
	var flags, positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if len(arg) > 0 && arg[0] == '-' {
			flags = append(flags, arg)

			if i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				if arg != "-h" && arg != "--help" && arg != "--folder" {
					i++
					flags = append(flags, args[i])
				}
			}
		} else {
			positional = append(positional, arg)
		}
	}

	return append(flags, positional...)
}

// PrintHelp prints the command's usage message.
func PrintHelp() {
	fmt.Fprintf(os.Stdout, `rparser - rhythm game chart converter

Usage:
  rparser [options] <chart-path>

Arguments:
  chart-path    単一のチャートファイル、または --folder 指定時はコンテナ
                ディレクトリのパス

Options:
  -o, --output <path>     出力ファイルパス（省略時は標準出力）
  -f, --format <format>   出力フォーマット: bms, html（デフォルト: bms）
  --folder                チャートパスをコンテナディレクトリとして扱う
  -l, --log-level <level> ログレベル: debug, info, warn, error（デフォルト: info）
  -h, --help              このヘルプを表示

Environment Variables:
  LOG_LEVEL               ログレベル
  RPARSER_FORMAT          出力フォーマット

Examples:
  rparser song.bms                        BMS を標準出力に再シリアライズ
  rparser --format html song.bms -o a.html  HTML エクスポートをファイルに保存
  rparser --folder ./songs/track1         ディレクトリ内の全チャートを変換
`)
}
