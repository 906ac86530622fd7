package confkit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// load reads and decodes the storage file. ok reports whether a usable
// instance was produced; err carries genuine stream failures (permissions,
// oversized file). Malformed or schema-incompatible content is absence, not
// an error, and never modifies the file.
func (m *Manager[C, B, F]) load() (cfg C, ok bool, err error) {
	info, err := os.Stat(m.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, false, nil
		}
		return cfg, false, fmt.Errorf("failed to stat config file '%s': %w", m.path, err)
	}
	if info.IsDir() {
		return cfg, false, fmt.Errorf("config path '%s' is a directory", m.path)
	}
	if m.opts.MaxFileSize > 0 && info.Size() > m.opts.MaxFileSize {
		return cfg, false, fmt.Errorf("%w: '%s' is %d bytes, limit %d",
			ErrFileSize, m.path, info.Size(), m.opts.MaxFileSize)
	}

	file, err := os.Open(m.path)
	if err != nil {
		return cfg, false, fmt.Errorf("failed to open config file '%s': %w", m.path, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if m.opts.MaxFileSize > 0 {
		reader = io.LimitReader(file, m.opts.MaxFileSize)
	}

	doc, err := m.codec.Read(reader)
	if err != nil {
		m.logger.Warn("config file is malformed", "path", m.path, "error", err)
		return cfg, false, nil
	}

	decoded, err := m.codec.Decode(doc)
	if err != nil {
		m.logger.Warn("config document does not match schema",
			"path", m.path, "error", err)
		return cfg, false, nil
	}

	if err := m.validate(decoded); err != nil {
		m.logger.Warn("decoded config failed validation",
			"path", m.path, "error", err)
		return cfg, false, nil
	}

	return decoded, true, nil
}

// persist encodes cfg and replaces the storage file atomically. Encode and
// serialization failures skip the write entirely so a previously valid file
// is never truncated or corrupted.
func (m *Manager[C, B, F]) persist(cfg C) error {
	doc, err := m.codec.Encode(cfg)
	if err != nil {
		m.logger.Error("config encode failed, skipping write",
			"path", m.path, "error", err)
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	// Serialize to memory first; the file is only touched once the full
	// byte stream exists.
	var buf bytes.Buffer
	if err := m.codec.Write(&buf, doc); err != nil {
		m.logger.Error("config serialization failed, skipping write",
			"path", m.path, "error", err)
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	return atomicWriteFile(m.path, buf.Bytes(), m.opts.FileMode, m.opts.DirMode)
}

// atomicWriteFile writes data to a temp file in the target directory and
// renames it over path, so readers observe either the old or the new content.
func atomicWriteFile(path string, data []byte, fileMode, dirMode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("failed to create config directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary config file in '%s': %w", dir, err)
	}

	tempPath := tempFile.Name()
	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temp config file '%s': %w", tempPath, err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temp config file '%s': %w", tempPath, err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp config file '%s': %w", tempPath, err)
	}

	if err := os.Chmod(tempPath, fileMode); err != nil {
		return fmt.Errorf("failed to set permissions on temp config file '%s': %w", tempPath, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file '%s' to '%s': %w", tempPath, path, err)
	}
	renamed = true

	return nil
}
