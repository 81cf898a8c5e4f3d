package cmd

import "errors"

// Sentinel errors for the init command.
var (
	ErrWriteConfig = errors.New("write configuration file")
	ErrFileExists  = errors.New("file exists (use --force to overwrite)")
)
