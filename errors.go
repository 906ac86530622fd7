package confkit

import "errors"

var (
	// ErrNotFound indicates the storage file does not exist.
	ErrNotFound = errors.New("config file not found")

	// ErrEncode indicates the config instance could not be converted to its
	// intermediary representation. Save skips the file write when it occurs.
	ErrEncode = errors.New("config encode failed")

	// ErrDecode indicates bytes or an intermediary document could not be
	// converted back to a config instance.
	ErrDecode = errors.New("config decode failed")

	// ErrValidation indicates a decoded or built config instance was
	// rejected by a registered validator.
	ErrValidation = errors.New("config validation failed")

	// ErrFileSize indicates the storage file exceeds Options.MaxFileSize.
	ErrFileSize = errors.New("config file exceeds maximum size")

	// ErrNilCodec is returned by New when no codec is supplied.
	ErrNilCodec = errors.New("codec cannot be nil")

	// ErrNilDerive is returned by New when no builder derivation is supplied.
	ErrNilDerive = errors.New("builder derivation cannot be nil")

	// ErrEmptyPath is returned by New when the storage path is empty.
	ErrEmptyPath = errors.New("storage path cannot be empty")
)
