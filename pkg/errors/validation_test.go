package errors

import (
	"strings"
	"testing"
)

func TestValidateRepo(t *testing.T) {
	tests := []struct {
		name    string
		repo    string
		wantErr bool
	}{
		{"url", "https://github.com/acme/api", false},
		{"local path", "/home/me/src/api", false},
		{"windows path", `C:\src\api`, false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"control char", "acme\napi", true},
		{"traversal", "acme/../etc", true},
		{"dots inside name", "acme/api..v2", false},
		{"too long", strings.Repeat("a", 513), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepo(tt.repo)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRepo(%q) error = %v, wantErr %v", tt.repo, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v, want INVALID_INPUT", GetCode(err))
			}
		})
	}
}

func TestValidateClusterID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"cluster-src", false},
		{"cluster-src/components/ui", false},
		{"cluster-root", false},
		{"", true},
		{"src", true},
		{"cluster-", true},
		{"cluster-a\tb", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if err := ValidateClusterID(tt.id); (err != nil) != tt.wantErr {
				t.Errorf("ValidateClusterID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "graph.json", false},
		{"absolute", "/tmp/graph.json", false},
		{"empty", "", true},
		{"null byte", "a\x00b", true},
		{"too long", strings.Repeat("a", 1025), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePath(tt.path); (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://localhost:8080", false},
		{"ftp://example.com", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if err := ValidateURL(tt.url); (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
