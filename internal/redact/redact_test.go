package redact

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "postgres url credentials",
			input:    "dial postgres://vision:s3cret@db:5432/vision failed",
			expected: "dial postgres://" + RedactedCredentialPlaceholder + "@db:5432/vision failed",
		},
		{
			name:     "key value password",
			input:    "host=db user=vision password=s3cret dbname=vision",
			expected: "host=db user=vision password=" + RedactedCredentialPlaceholder + " dbname=vision",
		},
		{
			name:     "email address",
			input:    "Email ana@x.com already exists",
			expected: "Email " + RedactedEmailPlaceholder + " already exists",
		},
		{
			name:     "nothing sensitive",
			input:    "no rows in result set",
			expected: "no rows in result set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, String(tt.input))
		})
	}
}

func TestRedactError(t *testing.T) {
	assert.Equal(t, "", Error(nil))
	assert.Equal(t,
		"login for "+RedactedEmailPlaceholder+" failed",
		Error(errors.New("login for bob@example.org failed")))
}

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "a***@x.com", Email("ana@x.com"))
	assert.Equal(t, RedactedEmailPlaceholder, Email("not-an-email"))
	assert.Equal(t, RedactedEmailPlaceholder, Email("@x.com"))
}

func TestRedactDatabaseURL(t *testing.T) {
	assert.Equal(t,
		"postgres://vision:xxxxx@db:5432/vision?sslmode=disable",
		DatabaseURL("postgres://vision:s3cret@db:5432/vision?sslmode=disable"))
	assert.Equal(t, "/var/lib/vision/vision.db", DatabaseURL("/var/lib/vision/vision.db"))
}
