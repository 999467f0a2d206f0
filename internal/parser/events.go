// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package parser

import (
	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/stdlib"
)

func eventSignature(name string) ([]ast.Type, bool) {
	ev, ok := stdlib.Events[name]
	if !ok {
		return nil, false
	}
	return ev.ParamTypes, true
}
