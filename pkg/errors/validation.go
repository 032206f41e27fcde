package errors

import (
	"strings"
	"unicode"
)

// MaxDimension is the largest width or height accepted for a layout.
const MaxDimension = 1 << 15

// ValidateSize checks layout dimensions.
// Both sides must be positive and at most MaxDimension.
func ValidateSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidSize, "size must be positive, got %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return New(ErrCodeInvalidSize, "size %dx%d exceeds maximum of %d", width, height, MaxDimension)
	}
	return nil
}

// NodeSeparator joins node names into identifiers. It equals tree.Separator.
const NodeSeparator = "/"

// ValidateNodeName validates a node name read from user input.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No NodeSeparator, which would make the joined identifier ambiguous
//   - No control characters
//   - Maximum length of 1024 characters
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "node name cannot be empty")
	}
	if len(name) > 1024 {
		return New(ErrCodeInvalidInput, "node name too long (max 1024 characters)")
	}
	if strings.Contains(name, NodeSeparator) {
		return New(ErrCodeInvalidInput, "node name %q must not contain %q", name, NodeSeparator)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node name contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates a local path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ParseS3URL splits an s3://bucket/prefix URL into its parts.
func ParseS3URL(raw string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return "", "", New(ErrCodeInvalidSource, "S3 URL must start with s3://")
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", New(ErrCodeInvalidSource, "S3 URL is missing a bucket name")
	}
	if strings.ContainsAny(bucket, " \\") {
		return "", "", New(ErrCodeInvalidSource, "invalid bucket name: %q", bucket)
	}
	return bucket, prefix, nil
}
