// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package config loads and merges the §6 Options toggle set: a JSON
// file loaded over compiled-in defaults via reflection-based non-zero
// field copying. ApplyPragmas layers `#pragma OPT ±name[,...]` inline
// overrides onto an Options_t; neither command-line front end calls it.
package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"reflect"
	"strings"

	"github.com/playbymail/lslopt/cerrs"
	"github.com/playbymail/lslopt/internal/compiler"
	"github.com/playbymail/lslopt/internal/lsltok"
	"github.com/playbymail/lslopt/internal/parser"
)

// Config holds one project's settings.
type Config struct {
	Options Options_t `json:"Options"`
	Output  Output_t  `json:"Output"`
}

// Options_t is the full §6 toggle set.
type Options_t struct {
	ExtendedGlobalExpr bool `json:"ExtendedGlobalExpr,omitempty"`
	ExtendedTypeCast   bool `json:"ExtendedTypeCast,omitempty"`
	ExtendedAssignment bool `json:"ExtendedAssignment,omitempty"`
	ExplicitCast       bool `json:"ExplicitCast,omitempty"`
	AllowKeyConcat     bool `json:"AllowKeyConcat,omitempty"`
	AllowMultiStrings  bool `json:"AllowMultiStrings,omitempty"`
	ProcessPre         bool `json:"ProcessPre,omitempty"`
	EnableSwitch       bool `json:"EnableSwitch,omitempty"`
	BreakCont          bool `json:"BreakCont,omitempty"`
	ErrMissingDefault  bool `json:"ErrMissingDefault,omitempty"`
	LazyLists          bool `json:"LazyLists,omitempty"`
	DupLabels          bool `json:"DupLabels,omitempty"`
	ShrinkNames        bool `json:"ShrinkNames,omitempty"`
	FuncOverride       bool `json:"FuncOverride,omitempty"`
	Inline             bool `json:"Inline,omitempty"`
	Optimize           bool `json:"Optimize,omitempty"`
	EMap               bool `json:"EMap,omitempty"`
	Prettify           bool `json:"Prettify,omitempty"`
}

// Output_t holds where a compile run writes its results.
type Output_t struct {
	OutputDir string `json:"OutputDir,omitempty"`
	StorePath string `json:"StorePath,omitempty"`
}

const (
	ErrIsDirectory = cerrs.Error("is directory")
	ErrIsNotAFile  = cerrs.Error("is not a file")
)

// Default returns the built-in baseline: the language-extension
// toggles that make LSL pleasant to write in (switch/break/continue,
// extended assignment) on, optimization on, everything else off.
func Default() *Config {
	return &Config{
		Options: Options_t{
			EnableSwitch:       true,
			BreakCont:          true,
			ExtendedAssignment: true,
			Optimize:           true,
		},
		Output: Output_t{
			OutputDir: ".",
			StorePath: "lslopt.db",
		},
	}
}

// Load reads name as a JSON Config, merging its non-zero fields over
// Default(). A missing file is not an error — Default() is returned
// as-is, matching the teacher's own tolerant Load.
func Load(name string, debug bool) (*Config, error) {
	if debug {
		log.Printf("[config] %q: loading configuration...\n", name)
	}
	cfg := Default()
	if sb, err := os.Stat(name); errors.Is(err, os.ErrNotExist) || os.IsNotExist(err) {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if sb.Mode().IsDir() {
		return cfg, ErrIsDirectory
	} else if !sb.Mode().IsRegular() {
		return cfg, ErrIsNotAFile
	}

	var tmp Config
	if data, err := os.ReadFile(name); err != nil {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if err = json.Unmarshal(data, &tmp); err != nil {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if debug {
		if nice, err := json.MarshalIndent(tmp, "", "  "); err == nil {
			log.Printf("[config] %s\n", nice)
		} else {
			log.Printf("[config] %q: loaded %s\n", name, string(data))
		}
	}

	copyNonZeroFields(&tmp, cfg)
	if cfg.Output.OutputDir == "" {
		cfg.Output.OutputDir = "."
	}
	return cfg, nil
}

// copyNonZeroFields recursively copies non-zero fields from src to dst
// using reflection.
func copyNonZeroFields(src, dst interface{}) {
	srcVal := reflect.ValueOf(src)
	dstVal := reflect.ValueOf(dst)

	if srcVal.Kind() == reflect.Ptr {
		srcVal = srcVal.Elem()
	}
	if dstVal.Kind() == reflect.Ptr {
		dstVal = dstVal.Elem()
	}

	if srcVal.Kind() != reflect.Struct || dstVal.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < srcVal.NumField(); i++ {
		srcField := srcVal.Field(i)
		dstField := dstVal.Field(i)

		if !srcField.CanInterface() || !dstField.CanSet() {
			continue
		}
		if srcField.IsZero() {
			continue
		}

		switch srcField.Kind() {
		case reflect.Struct:
			copyNonZeroFields(srcField.Interface(), dstField.Addr().Interface())
		default:
			dstField.Set(srcField)
		}
	}
}

// ApplyPragmas layers every `#pragma OPT ±name[,...]` line found in src
// on top of opts, matching each name case-insensitively against
// Options_t's field names. A name with no matching field is ignored —
// the real lexer's own processpre handling is what rejects malformed
// pragma syntax; this only resolves option names once processpre has
// already let the line through.
func ApplyPragmas(opts Options_t, src []byte) Options_t {
	for _, line := range strings.Split(string(src), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#pragma OPT") {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, "#pragma OPT"))
		for _, tok := range strings.Split(rest, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			enable := true
			switch tok[0] {
			case '+':
				tok = tok[1:]
			case '-':
				enable = false
				tok = tok[1:]
			}
			setOption(&opts, tok, enable)
		}
	}
	return opts
}

func setOption(opts *Options_t, name string, enable bool) {
	v := reflect.ValueOf(opts).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if strings.EqualFold(t.Field(i).Name, name) {
			v.Field(i).SetBool(enable)
			return
		}
	}
}

// ParserOptions translates the loaded toggle set into the subset
// internal/parser (and, transitively, internal/lsltok) consumes.
func (o Options_t) ParserOptions(filename string) parser.Options {
	return parser.Options{
		Options: lsltok.Options{
			ProcessPre:         o.ProcessPre,
			EnableInline:       o.Inline,
			ExtendedAssignment: o.ExtendedAssignment,
			EnableSwitch:       o.EnableSwitch,
			BreakCont:          o.BreakCont,
			AllowMultiStrings:  o.AllowMultiStrings,
		},
		ExtendedGlobalExpr: o.ExtendedGlobalExpr,
		ExtendedTypeCast:   o.ExtendedTypeCast,
		ExplicitCast:       o.ExplicitCast,
		AllowKeyConcat:     o.AllowKeyConcat,
		ErrMissingDefault:  o.ErrMissingDefault,
		LazyLists:          o.LazyLists,
		DupLabels:          o.DupLabels,
		FuncOverride:       o.FuncOverride,
		EMap:               o.EMap,
		Filename:           filename,
	}
}

// CompilerOptions translates the loaded toggle set into
// internal/compiler.Options, fully resolved for one named file.
func (o Options_t) CompilerOptions(filename string) compiler.Options {
	return compiler.Options{
		Options:     o.ParserOptions(filename),
		ShrinkNames: o.ShrinkNames,
		Inline:      o.Inline,
		Optimize:    o.Optimize,
		ListAdd:     o.Optimize,
	}
}
