package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	maxRepoLength = 512
	maxPathLength = 1024
)

// ValidateRepo validates a repository identity used to key persisted
// cluster state. Identities are URLs or paths, so slashes and colons are
// allowed; control characters and traversal sequences are not.
func ValidateRepo(repo string) error {
	if strings.TrimSpace(repo) == "" {
		return New(ErrCodeInvalidInput, "repository cannot be empty")
	}
	if len(repo) > maxRepoLength {
		return New(ErrCodeInvalidInput, "repository too long (max %d characters)", maxRepoLength)
	}
	for _, r := range repo {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "repository contains invalid control characters")
		}
	}
	for _, seg := range strings.FieldsFunc(repo, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return New(ErrCodeInvalidInput, "repository cannot contain path traversal sequences (..)")
		}
	}
	return nil
}

// clusterIDRegex matches ids produced by the cluster builder.
var clusterIDRegex = regexp.MustCompile(`^cluster-[^\x00-\x1f]+$`)

// ValidateClusterID validates a cluster identifier.
func ValidateClusterID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "cluster id cannot be empty")
	}
	if !clusterIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid cluster id: %q", id)
	}
	return nil
}

// ValidatePath validates an input or output file path given on the
// command line or in configuration.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}
