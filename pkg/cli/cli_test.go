package cli

import (
	"os"
	"testing"
)

func TestParseArgsValidArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected Config
	}{
		{
			name: "defaults",
			args: []string{},
			expected: Config{
				Format:   "bms",
				LogLevel: "info",
			},
		},
		{
			name: "input path only",
			args: []string{"/path/to/song.bms"},
			expected: Config{
				InputPath: "/path/to/song.bms",
				Format:    "bms",
				LogLevel:  "info",
			},
		},
		{
			name: "format flag",
			args: []string{"--format", "html"},
			expected: Config{
				Format:   "html",
				LogLevel: "info",
			},
		},
		{
			name: "format flag shorthand",
			args: []string{"-f", "html"},
			expected: Config{
				Format:   "html",
				LogLevel: "info",
			},
		},
		{
			name: "output flag",
			args: []string{"--output", "out.bms"},
			expected: Config{
				OutputPath: "out.bms",
				Format:     "bms",
				LogLevel:   "info",
			},
		},
		{
			name: "output flag shorthand",
			args: []string{"-o", "out.bms"},
			expected: Config{
				OutputPath: "out.bms",
				Format:     "bms",
				LogLevel:   "info",
			},
		},
		{
			name: "folder flag",
			args: []string{"--folder"},
			expected: Config{
				AsFolder: true,
				Format:   "bms",
				LogLevel: "info",
			},
		},
		{
			name: "log level flag",
			args: []string{"--log-level", "debug"},
			expected: Config{
				Format:   "bms",
				LogLevel: "debug",
			},
		},
		{
			name: "log level flag shorthand",
			args: []string{"-l", "error"},
			expected: Config{
				Format:   "bms",
				LogLevel: "error",
			},
		},
		{
			name: "help flag",
			args: []string{"--help"},
			expected: Config{
				Format:   "bms",
				LogLevel: "info",
				ShowHelp: true,
			},
		},
		{
			name: "help flag shorthand",
			args: []string{"-h"},
			expected: Config{
				Format:   "bms",
				LogLevel: "info",
				ShowHelp: true,
			},
		},
		{
			name: "multiple options",
			args: []string{"--format", "html", "--log-level", "warn", "--folder", "/path/to/songs"},
			expected: Config{
				InputPath: "/path/to/songs",
				Format:    "html",
				LogLevel:  "warn",
				AsFolder:  true,
			},
		},
		{
			name: "input path after flags regardless of order",
			args: []string{"-log-level", "debug", "./samples/kuma2.bms", "--format", "html"},
			expected: Config{
				InputPath: "./samples/kuma2.bms",
				Format:    "html",
				LogLevel:  "debug",
			},
		},
		{
			name: "input path first",
			args: []string{"/path/to/song.bms", "--format", "html", "--folder"},
			expected: Config{
				InputPath: "/path/to/song.bms",
				Format:    "html",
				AsFolder:  true,
				LogLevel:  "info",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if config.InputPath != tt.expected.InputPath {
				t.Errorf("InputPath = %q, want %q", config.InputPath, tt.expected.InputPath)
			}
			if config.OutputPath != tt.expected.OutputPath {
				t.Errorf("OutputPath = %q, want %q", config.OutputPath, tt.expected.OutputPath)
			}
			if config.Format != tt.expected.Format {
				t.Errorf("Format = %q, want %q", config.Format, tt.expected.Format)
			}
			if config.AsFolder != tt.expected.AsFolder {
				t.Errorf("AsFolder = %v, want %v", config.AsFolder, tt.expected.AsFolder)
			}
			if config.LogLevel != tt.expected.LogLevel {
				t.Errorf("LogLevel = %q, want %q", config.LogLevel, tt.expected.LogLevel)
			}
			if config.ShowHelp != tt.expected.ShowHelp {
				t.Errorf("ShowHelp = %v, want %v", config.ShowHelp, tt.expected.ShowHelp)
			}
		})
	}
}

func TestParseArgsInvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{
			name: "invalid log level",
			args: []string{"--log-level", "invalid"},
		},
		{
			name: "invalid log level shorthand",
			args: []string{"-l", "trace"},
		},
		{
			name: "invalid format",
			args: []string{"--format", "osu"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(tt.args)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseArgsEnvironmentVariables(t *testing.T) {
	origLogLevel := os.Getenv("LOG_LEVEL")
	origFormat := os.Getenv("RPARSER_FORMAT")
	defer func() {
		os.Setenv("LOG_LEVEL", origLogLevel)
		os.Setenv("RPARSER_FORMAT", origFormat)
	}()

	tests := []struct {
		name     string
		args     []string
		envVars  map[string]string
		expected Config
	}{
		{
			name: "LOG_LEVEL sets log level",
			args: []string{},
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			expected: Config{Format: "bms", LogLevel: "debug"},
		},
		{
			name: "RPARSER_FORMAT sets format",
			args: []string{},
			envVars: map[string]string{
				"RPARSER_FORMAT": "html",
			},
			expected: Config{Format: "html", LogLevel: "info"},
		},
		{
			name: "command line flag overrides LOG_LEVEL env var",
			args: []string{"--log-level", "error"},
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			expected: Config{Format: "bms", LogLevel: "error"},
		},
		{
			name: "command line flag overrides RPARSER_FORMAT env var",
			args: []string{"--format", "bms"},
			envVars: map[string]string{
				"RPARSER_FORMAT": "html",
			},
			expected: Config{Format: "bms", LogLevel: "info"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("LOG_LEVEL")
			os.Unsetenv("RPARSER_FORMAT")
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			config, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if config.Format != tt.expected.Format {
				t.Errorf("Format = %q, want %q", config.Format, tt.expected.Format)
			}
			if config.LogLevel != tt.expected.LogLevel {
				t.Errorf("LogLevel = %q, want %q", config.LogLevel, tt.expected.LogLevel)
			}
		})
	}
}
