package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quill/internal/core/services"
)

func TestNewPorts(t *testing.T) {
	store := memory.NewNoteStore()
	session := services.NewSession(store)

	ports := NewPorts(session, store)

	require.NotNil(t, ports)
	assert.Equal(t, session, ports.Notes)
	assert.Equal(t, store, ports.Watcher)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{name: "nil ports", ports: nil, want: ErrInvalidPorts},
		{name: "missing notes", ports: &Ports{}, want: ErrMissingNoteService},
		{name: "watcher optional", ports: &Ports{Notes: services.NewSession(memory.NewNoteStore())}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
