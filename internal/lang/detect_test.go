package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "cmd/main.go", want: "Go"},
		{path: "app.tsx", want: "TypeScript"},
		{path: "SCRIPT.PY", want: "Python"},
		{path: "lib.rs", want: "Rust"},
		{path: "Service.java", want: "Java"},
		{path: "style.css", want: ""},
		{path: "README", want: ""},
		{path: "-", want: ""},
		{path: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Detect(tt.path), tt.path)
	}
}
