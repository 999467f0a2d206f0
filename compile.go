// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/playbymail/lslopt/domains"
	"github.com/playbymail/lslopt/internal/config"
	"github.com/playbymail/lslopt/internal/reports"
	"github.com/playbymail/lslopt/internal/runners"
	"github.com/playbymail/lslopt/internal/tempglobals"
	"github.com/playbymail/lslopt/stores/sqlite"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var argsCompile struct {
	store struct {
		dir        string // directory holding the session-cache database; "" disables the cache
		forceStore bool
	}
	overrides config.Options_t
}

var cmdCompile = &cobra.Command{
	Use:   "compile path",
	Short: "compile and optimize one file or every .lsl file under a directory",
	Long:  `Compile LSL source, applying the configured language extensions and optimizer passes.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			log.Fatalf("error: expected a single file or directory argument\n")
		}
		path := args[0]

		opts := mergeOverrides(globalConfig.Options, cmd.Flags())

		cache, err := tempglobals.NewCache(128)
		if err != nil {
			log.Fatalf("error: temp-globals cache: %v\n", err)
		}

		var store *sqlite.DB
		if argsCompile.store.dir != "" {
			store, err = openOrCreateStore(argsCompile.store.dir, argsCompile.store.forceStore)
			if err != nil {
				log.Fatalf("error: session store: %v\n", err)
			}
			defer func() { _ = store.Close() }()
		}

		files, err := runners.CollectSources(path)
		if err != nil {
			log.Fatalf("error: %v\n", err)
		}

		optionsHash := hashOptions(opts)
		failed := 0
		for _, name := range files {
			rep := compileOne(name, opts, optionsHash, cache, store)
			_, _ = rep.WriteTo(os.Stdout)
			if rep.Status == reports.Failed {
				failed++
			}
		}
		if failed > 0 {
			log.Fatalf("error: %d of %d files failed to compile\n", failed, len(files))
		}
	},
}

// compileOne checks the session store (when present) for a prior
// compile of this exact file content under these exact options before
// falling back to runners.RunFile, then records the fresh outcome.
func compileOne(name string, opts config.Options_t, optionsHash string, cache *tempglobals.Cache, store *sqlite.DB) *reports.Report {
	src, err := os.ReadFile(name)
	if err != nil {
		return reports.FromError(name, err, time.Now())
	}
	checksum := hashBytes(src)

	if store != nil {
		if prior, err := store.FindByChecksum(name, checksum, optionsHash); err == nil {
			log.Printf("%s: unchanged, reusing session %s\n", name, prior.ID)
			return &reports.Report{
				Filename:  name,
				SessionID: prior.ID,
				Status:    reports.StringToEnum[prior.Status],
				When:      prior.CreatedAt,
				Input:     prior.InputBytes,
				Output:    prior.OutputBytes,
				Err:       prior.Error,
			}
		}
	}

	rep := runners.RunFile(name, opts.CompilerOptions(name), cache)
	if store != nil && rep.SessionID != "" {
		if err := recordSession(store, rep, checksum, optionsHash); err != nil {
			log.Printf("%s: error recording session: %v\n", name, err)
		}
	}
	return rep
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func hashOptions(opts config.Options_t) string {
	return hashBytes([]byte(fmt.Sprintf("%+v", opts)))
}

func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&argsCompile.store.dir, "store", "", "directory holding a session-cache database; empty disables caching")
	cmd.Flags().BoolVar(&argsCompile.store.forceStore, "force-store", false, "recreate the session store if it already exists")

	cmd.Flags().BoolVar(&argsCompile.overrides.Optimize, "optimize", false, "run the constant-fold, dead-code, and last-pass optimizers")
	cmd.Flags().BoolVar(&argsCompile.overrides.ShrinkNames, "shrink-names", false, "accepted; no pass renames identifiers")
	cmd.Flags().BoolVar(&argsCompile.overrides.Inline, "inline", false, "recognize inline markers on function definitions; no pass expands functions inline")
	cmd.Flags().BoolVar(&argsCompile.overrides.EnableSwitch, "enable-switch", false, "accept switch/case/default statements")
	cmd.Flags().BoolVar(&argsCompile.overrides.BreakCont, "break-continue", false, "accept break and continue statements")
	cmd.Flags().BoolVar(&argsCompile.overrides.ExtendedAssignment, "extended-assignment", false, "accept the &=, |=, ^=, <<= and >>= operators")
	cmd.Flags().BoolVar(&argsCompile.overrides.ExtendedGlobalExpr, "extended-global-expr", false, "accept expressions in global initializers")
	cmd.Flags().BoolVar(&argsCompile.overrides.ExtendedTypeCast, "extended-type-cast", false, "accept extended typecast syntax")
	cmd.Flags().BoolVar(&argsCompile.overrides.ExplicitCast, "explicit-cast", false, "also convert between types that have no implicit conversion, inserting a cast")
	cmd.Flags().BoolVar(&argsCompile.overrides.AllowKeyConcat, "allow-key-concat", false, "allow key values in string concatenation")
	cmd.Flags().BoolVar(&argsCompile.overrides.AllowMultiStrings, "allow-multi-strings", false, "allow adjacent string literal concatenation")
	cmd.Flags().BoolVar(&argsCompile.overrides.ProcessPre, "process-pre", false, "process preprocessor directives")
	cmd.Flags().BoolVar(&argsCompile.overrides.ErrMissingDefault, "err-missing-default", false, "error on switch statements with no default")
	cmd.Flags().BoolVar(&argsCompile.overrides.LazyLists, "lazy-lists", false, "accept list[index] reads and list[index] = value assignments")
	cmd.Flags().BoolVar(&argsCompile.overrides.DupLabels, "dup-labels", false, "allow duplicate labels across scopes")
	cmd.Flags().BoolVar(&argsCompile.overrides.FuncOverride, "func-override", false, "let a later function definition replace an earlier one with the same name")
	cmd.Flags().BoolVar(&argsCompile.overrides.EMap, "emap", false, "report errors in the machine-readable ::ERROR:: format")
}

// mergeOverrides layers every flag the caller actually set on the
// command line over the loaded configuration, leaving unset flags at
// the configured value. argsCompile.overrides is populated in place by
// pflag's BoolVar bindings; Visit tells us which of those bindings the
// user actually touched.
func mergeOverrides(base config.Options_t, flags *pflag.FlagSet) config.Options_t {
	out := base
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "optimize":
			out.Optimize = argsCompile.overrides.Optimize
		case "shrink-names":
			out.ShrinkNames = argsCompile.overrides.ShrinkNames
		case "inline":
			out.Inline = argsCompile.overrides.Inline
		case "enable-switch":
			out.EnableSwitch = argsCompile.overrides.EnableSwitch
		case "break-continue":
			out.BreakCont = argsCompile.overrides.BreakCont
		case "extended-assignment":
			out.ExtendedAssignment = argsCompile.overrides.ExtendedAssignment
		case "extended-global-expr":
			out.ExtendedGlobalExpr = argsCompile.overrides.ExtendedGlobalExpr
		case "extended-type-cast":
			out.ExtendedTypeCast = argsCompile.overrides.ExtendedTypeCast
		case "explicit-cast":
			out.ExplicitCast = argsCompile.overrides.ExplicitCast
		case "allow-key-concat":
			out.AllowKeyConcat = argsCompile.overrides.AllowKeyConcat
		case "allow-multi-strings":
			out.AllowMultiStrings = argsCompile.overrides.AllowMultiStrings
		case "process-pre":
			out.ProcessPre = argsCompile.overrides.ProcessPre
		case "err-missing-default":
			out.ErrMissingDefault = argsCompile.overrides.ErrMissingDefault
		case "lazy-lists":
			out.LazyLists = argsCompile.overrides.LazyLists
		case "dup-labels":
			out.DupLabels = argsCompile.overrides.DupLabels
		case "func-override":
			out.FuncOverride = argsCompile.overrides.FuncOverride
		case "emap":
			out.EMap = argsCompile.overrides.EMap
		}
	})
	return out
}

func openOrCreateStore(dir string, force bool) (*sqlite.DB, error) {
	store, err := sqlite.OpenStore(dir, context.Background())
	if err == nil {
		return store, nil
	}
	return sqlite.CreateStore(dir, force, context.Background())
}

// recordSession persists one file's outcome to the session store,
// keyed by the session id internal/compiler minted for that compile.
func recordSession(store *sqlite.DB, rep *reports.Report, checksum, optionsHash string) error {
	return store.InsertSession(domains.CompileSession_t{
		ID:          rep.SessionID,
		Filename:    rep.Filename,
		Checksum:    checksum,
		OptionsHash: optionsHash,
		InputBytes:  rep.Input,
		OutputBytes: rep.Output,
		Status:      rep.Status.String(),
		Error:       rep.Err,
		CreatedAt:   rep.When,
	})
}
