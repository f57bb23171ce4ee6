package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want string
	}{
		{name: "general", kind: KindGeneral, want: filepath.Join("keystores", "gateway.keystore")},
		{name: "credential", kind: KindCredential, want: filepath.Join("keystores", "gateway-credentials.keystore")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Path("keystores", "gateway", tt.kind))
		})
	}
}
