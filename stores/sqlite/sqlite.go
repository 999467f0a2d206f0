// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package sqlite implements the compile-session store: a single-table
// SQLite log of every file compiled, with its checksum, resolved
// options hash, input/output byte counts, and outcome. Hand-written
// database/sql queries, no code generator.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/playbymail/lslopt/cerrs"
	"github.com/playbymail/lslopt/domains"

	_ "modernc.org/sqlite"
)

type DB struct {
	db  *sql.DB
	ctx context.Context
}

// CreateStore creates a new store in path's directory. Returns an
// error if path is not a directory, or if the database already
// exists and force is false.
func CreateStore(path string, force bool, ctx context.Context) (*DB, error) {
	log.Printf("store: %q\n", path)
	absPath, err := filepath.Abs(path)
	if err != nil {
		log.Printf("store: %q: %s\n", absPath, err)
		return nil, err
	} else if sb, err := os.Stat(absPath); err != nil {
		log.Printf("store: %q: %s\n", absPath, err)
		return nil, err
	} else if !sb.IsDir() {
		log.Printf("store: %q: %s\n", absPath, err)
		return nil, cerrs.ErrNotDirectory
	}

	dbPath := filepath.Join(absPath, "lslopt.db")

	if _, err := os.Stat(dbPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else {
		if !force {
			return nil, domains.ErrDatabaseExists
		}
		log.Printf("store: removing %s\n", dbPath)
		if err := os.Remove(dbPath); err != nil {
			return nil, err
		}
	}

	log.Printf("store: creating %s\n", dbPath)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	store := &DB{db: db, ctx: ctx}
	if err := store.CreateSchema(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// OpenStore opens an existing store in path's directory. Returns an
// error if path is not a directory, or if the database doesn't exist.
func OpenStore(path string, ctx context.Context) (*DB, error) {
	log.Printf("store: %q\n", path)
	absPath, err := filepath.Abs(path)
	if err != nil {
		log.Printf("store: %q: %s\n", absPath, err)
		return nil, err
	} else if sb, err := os.Stat(absPath); err != nil {
		log.Printf("store: %q: %s\n", absPath, err)
		return nil, err
	} else if !sb.IsDir() {
		log.Printf("store: %q: %s\n", absPath, err)
		return nil, cerrs.ErrNotDirectory
	}

	dbPath := filepath.Join(absPath, "lslopt.db")
	if _, err := os.Stat(dbPath); err != nil {
		log.Printf("store: %q: %s\n", dbPath, err)
		return nil, err
	}

	log.Printf("store: opening %s\n", dbPath)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	return &DB{db: db, ctx: ctx}, nil
}

func (db *DB) Close() error {
	var err error
	if db != nil && db.db != nil {
		err = db.db.Close()
		db.db = nil
	}
	return err
}
