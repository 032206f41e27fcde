package errors

import (
	"strings"
	"testing"
)

func TestValidateSize(t *testing.T) {
	tests := []struct {
		w, h    int
		wantErr bool
	}{
		{800, 600, false},
		{1, 1, false},
		{0, 600, true},
		{800, -1, true},
		{MaxDimension + 1, 10, true},
	}
	for _, tt := range tests {
		err := ValidateSize(tt.w, tt.h)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSize(%d, %d) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidSize) {
			t.Errorf("ValidateSize(%d, %d) code = %q", tt.w, tt.h, GetCode(err))
		}
	}
}

func TestValidateNodeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "src", false},
		{"unicode", "données", false},
		{"empty", "", true},
		{"control", "a\nb", true},
		{"too long", strings.Repeat("x", 1025), true},
		{"separator", "a/b", true},
		{"trailing separator", "a/", true},
		{"backslash", `a\b`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateNodeName(%q) code = %q, want INVALID_INPUT", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"/home/user/project", false},
		{"relative/dir", false},
		{"", true},
		{"bad\x00path", true},
	}
	for _, tt := range tests {
		if err := ValidatePath(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		input          string
		bucket, prefix string
		wantErr        bool
	}{
		{"s3://bucket", "bucket", "", false},
		{"s3://bucket/logs/2024/", "bucket", "logs/2024/", false},
		{"https://bucket/x", "", "", true},
		{"s3:///prefix", "", "", true},
	}
	for _, tt := range tests {
		bucket, prefix, err := ParseS3URL(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseS3URL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if bucket != tt.bucket || prefix != tt.prefix {
			t.Errorf("ParseS3URL(%q) = %q, %q; want %q, %q", tt.input, bucket, prefix, tt.bucket, tt.prefix)
		}
	}
}
