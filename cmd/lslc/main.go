// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package main implements lslc, a single-file compiler front end: read
// one LSL source file, compile and optionally optimize it, and write
// the result to stdout or a named output file.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/maloquacious/semver"
	"github.com/playbymail/lslopt/internal/compiler"
	"github.com/playbymail/lslopt/internal/config"
	"github.com/playbymail/lslopt/internal/tempglobals"
	"github.com/spf13/cobra"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 1,
		Patch: 0,
		Build: semver.Commit(),
	}
	logger *slog.Logger
)

func main() {
	var input, output, configFile string
	var optimize, shrinkNames, inline bool
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	addFlags := func(cmd *cobra.Command) error {
		cmd.PersistentFlags().Bool("debug", false, "enable debug logging (same as --log-level=debug)")
		cmd.PersistentFlags().Bool("quiet", false, "only log errors (same as --log-level=error)")
		cmd.PersistentFlags().String("log-level", "error", "logging level (debug|info|warn|error)")
		cmd.PersistentFlags().Bool("log-source", false, "add file and line numbers to log messages")
		cmd.Flags().StringVar(&input, "input", input, "LSL source file to compile")
		if err := cmd.MarkFlagRequired("input"); err != nil {
			return err
		}
		cmd.Flags().StringVar(&output, "output", "", "write compiled source to this file instead of stdout")
		cmd.Flags().StringVar(&configFile, "config", "", "JSON config file with the language and optimizer toggles")
		cmd.Flags().BoolVar(&optimize, "optimize", true, "run the constant-fold, dead-code, and last-pass optimizers")
		cmd.Flags().BoolVar(&shrinkNames, "shrink-names", false, "accepted; no pass renames identifiers")
		cmd.Flags().BoolVar(&inline, "inline", false, "recognize inline markers on function definitions; no pass expands functions inline")
		return nil
	}

	cmdRoot := &cobra.Command{
		Use:           "lslc",
		Short:         "LSL script compiler",
		Long:          `Compile and optimize a single LSL source file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Root().PersistentFlags()
			logLevel, err := flags.GetString("log-level")
			if err != nil {
				return err
			}
			logSource, err := flags.GetBool("log-source")
			if err != nil {
				return err
			}
			debug, err := flags.GetBool("debug")
			if err != nil {
				return err
			}
			quiet, err := flags.GetBool("quiet")
			if err != nil {
				return err
			}
			if debug && quiet {
				return fmt.Errorf("--debug and --quiet are mutually exclusive")
			}
			var lvl slog.Level
			switch {
			case debug:
				lvl = slog.LevelDebug
			case quiet:
				lvl = slog.LevelError
			default:
				switch strings.ToLower(logLevel) {
				case "debug":
					lvl = slog.LevelDebug
				case "info":
					lvl = slog.LevelInfo
				case "warn", "warning":
					lvl = slog.LevelWarn
				case "error":
					lvl = slog.LevelError
				default:
					return fmt.Errorf("log-level: unknown value %q", logLevel)
				}
			}
			handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     lvl,
				AddSource: logSource || lvl == slog.LevelDebug,
			})
			logger = slog.New(handler)
			slog.SetDefault(logger)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configFile != "" {
				loaded, err := config.Load(configFile, false)
				if err != nil {
					logger.Error("lslc", "config", configFile, "error", err)
					return err
				}
				cfg = loaded
			}
			cfg.Options.Optimize = optimize
			cfg.Options.ShrinkNames = shrinkNames
			cfg.Options.Inline = inline

			input, err := filepath.Abs(input)
			if err != nil {
				logger.Error("lslc: invalid path", "error", err)
				return err
			}
			if sb, err := os.Stat(input); err != nil {
				logger.Error("lslc: invalid path", "error", err)
				return err
			} else if sb.IsDir() {
				return fmt.Errorf("input is a folder, not a file")
			} else if !sb.Mode().IsRegular() {
				return fmt.Errorf("input must be a regular file")
			}

			src, err := os.ReadFile(input)
			if err != nil {
				logger.Error("lslc", "error", err)
				return err
			}
			logger.Info("lslc", "input", input, "bytes", len(src))

			cache, err := tempglobals.NewCache(1)
			if err != nil {
				return err
			}
			res, err := compiler.Compile(src, cfg.Options.CompilerOptions(input), cache)
			if err != nil {
				logger.Error("lslc", "file", input, "error", err)
				return err
			}
			logger.Info("lslc", "input-bytes", res.InputSize, "output-bytes", res.OutputSize)

			if output == "" {
				fmt.Print(res.Source)
				return nil
			}
			return os.WriteFile(output, []byte(res.Source), 0644)
		},
	}
	if err := addFlags(cmdRoot); err != nil {
		logger.Error("lslc", "error", err)
		os.Exit(1)
	}
	cmdRoot.AddCommand(cmdVersion())

	if err := cmdRoot.Execute(); err != nil {
		log.Fatal(err)
	}
}

func cmdVersion() *cobra.Command {
	showBuildInfo := false
	cmd := &cobra.Command{
		Use:   "version",
		Short: "print the version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Printf("%s\n", version.String())
			} else {
				fmt.Printf("%s\n", version.Short())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showBuildInfo, "build-info", showBuildInfo, "show build information")
	return cmd
}
