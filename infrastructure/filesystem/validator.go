package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"video-trimmer/domain/video"
)

// DefaultExtensions are the container extensions accepted as input
var DefaultExtensions = []string{".mp4"}

// Validator implements video.FileValidator
type Validator struct {
	extensions []string
}

// ValidatorOption is a functional option for configuring Validator
type ValidatorOption func(*Validator)

// WithExtensions replaces the accepted extensions. Matching is case-insensitive.
func WithExtensions(exts ...string) ValidatorOption {
	return func(v *Validator) {
		v.extensions = v.extensions[:0]
		for _, ext := range exts {
			v.extensions = append(v.extensions, strings.ToLower(ext))
		}
	}
}

// NewValidator creates a validator accepting DefaultExtensions
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		extensions: append([]string(nil), DefaultExtensions...),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate checks existence, file type, extension and readability, in that
// order, returning the first failure.
func (v *Validator) Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", video.ErrNotFound, path)
		}
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: cannot stat %s", video.ErrPermissionDenied, path)
		}
		return fmt.Errorf("cannot stat %s: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", video.ErrNotAFile, path)
	}

	if !v.acceptsExtension(path) {
		return fmt.Errorf("%w: expected %s, got %s", video.ErrUnsupportedFormat, strings.Join(v.extensions, ", "), path)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: no read access to %s", video.ErrPermissionDenied, path)
		}
		return fmt.Errorf("cannot open %s: %w", path, err)
	}
	f.Close()

	return nil
}

func (v *Validator) acceptsExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, accepted := range v.extensions {
		if ext == accepted {
			return true
		}
	}
	return false
}

// Ensure Validator implements video.FileValidator
var _ video.FileValidator = (*Validator)(nil)
