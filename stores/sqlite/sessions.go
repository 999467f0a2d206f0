// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package sqlite

import (
	"database/sql"
	"time"

	"github.com/playbymail/lslopt/domains"
)

// InsertSession records one compile session.
func (db *DB) InsertSession(s domains.CompileSession_t) error {
	_, err := db.db.ExecContext(db.ctx, `
		INSERT INTO compile_sessions
			(id, filename, checksum, options_hash, input_bytes, output_bytes, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Filename, s.Checksum, s.OptionsHash, s.InputBytes, s.OutputBytes, s.Status, s.Error,
		s.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// GetSession looks up one session by id.
func (db *DB) GetSession(id string) (*domains.CompileSession_t, error) {
	var s domains.CompileSession_t
	var created string
	row := db.db.QueryRowContext(db.ctx, `
		SELECT id, filename, checksum, options_hash, input_bytes, output_bytes, status, error, created_at
		FROM compile_sessions WHERE id = ?`, id)
	err := row.Scan(&s.ID, &s.Filename, &s.Checksum, &s.OptionsHash, &s.InputBytes, &s.OutputBytes,
		&s.Status, &s.Error, &created)
	if err == sql.ErrNoRows {
		return nil, domains.ErrSessionNotFound
	} else if err != nil {
		return nil, err
	}
	s.CreatedAt, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByChecksum returns the most recent session for a given filename
// and source checksum, used to skip recompiling an unchanged file with
// unchanged options. Returns domains.ErrSessionNotFound if there is
// none.
func (db *DB) FindByChecksum(filename, checksum, optionsHash string) (*domains.CompileSession_t, error) {
	var s domains.CompileSession_t
	var created string
	row := db.db.QueryRowContext(db.ctx, `
		SELECT id, filename, checksum, options_hash, input_bytes, output_bytes, status, error, created_at
		FROM compile_sessions
		WHERE filename = ? AND checksum = ? AND options_hash = ?
		ORDER BY created_at DESC LIMIT 1`, filename, checksum, optionsHash)
	err := row.Scan(&s.ID, &s.Filename, &s.Checksum, &s.OptionsHash, &s.InputBytes, &s.OutputBytes,
		&s.Status, &s.Error, &created)
	if err == sql.ErrNoRows {
		return nil, domains.ErrSessionNotFound
	} else if err != nil {
		return nil, err
	}
	s.CreatedAt, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
