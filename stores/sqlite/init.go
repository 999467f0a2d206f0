// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package sqlite

// initialization functions

import (
	_ "embed"
	"errors"
	"log"

	"github.com/playbymail/lslopt/domains"
)

//go:embed schema.sql
var schemaDDL string

// CreateSchema confirms foreign keys are enabled, then creates the
// compile_sessions table.
func (db *DB) CreateSchema() error {
	checkPragma := "PRAGMA" + " foreign_keys = ON"
	if rslt, err := db.db.Exec(checkPragma); err != nil {
		log.Printf("[sqldb] error: foreign keys are disabled\n")
		return domains.ErrForeignKeysDisabled
	} else if rslt == nil {
		log.Printf("[sqldb] error: foreign keys pragma failed\n")
		return domains.ErrPragmaReturnedNil
	}

	if _, err := db.db.Exec(schemaDDL); err != nil {
		log.Printf("[sqldb] failed to initialize schema\n")
		log.Printf("[sqldb] %v\n", err)
		return errors.Join(domains.ErrCreateSchema, err)
	}
	return nil
}
