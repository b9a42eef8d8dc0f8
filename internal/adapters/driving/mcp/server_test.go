package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil note service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingNoteService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, _ := newTestServer(t)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	ports := &Ports{}
	assert.ErrorIs(t, ports.Validate(), ErrMissingNoteService)
}

func TestServer_Connect(t *testing.T) {
	ctx := context.Background()
	server, store := newTestServer(t, sampleNotes()...)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport)
	require.NoError(t, err)
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer cs.Close()

	init := cs.InitializeResult()
	require.NotNil(t, init.ServerInfo)
	assert.Equal(t, "quill", init.ServerInfo.Name)
	assert.Equal(t, "Quill notes", init.ServerInfo.Title)
	assert.Equal(t, Version, init.ServerInfo.Version)
	assert.Contains(t, init.Instructions, "search_notes")

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "append_note",
		Arguments: map[string]any{"id": "n1", "text": ", bread"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	for _, n := range store.Snapshot() {
		if n.ID == "n1" {
			assert.Equal(t, "milk, eggs, bread", n.Body)
		}
	}
}
