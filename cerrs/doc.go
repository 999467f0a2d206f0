// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package cerrs defines constant error types using a custom Error string type.
// It centralizes common error messages used throughout the application for
// CLI, config, and compile-session-store failures such as invalid paths,
// missing source files, and parse errors. The Error type supports comparison
// via errors.Is().
package cerrs
