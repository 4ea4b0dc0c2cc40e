package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomCommands_ValueScan(t *testing.T) {
	commands := CustomCommands{
		{Trigger: "!help", Response: "Use /panel"},
		{Trigger: "!ip", Response: "play.example.net"},
	}

	value, err := commands.Value()
	require.NoError(t, err)

	var scanned CustomCommands
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, commands, scanned)
}

func TestCustomCommands_NilValueIsEmptyArray(t *testing.T) {
	var commands CustomCommands

	value, err := commands.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)
}

func TestCustomCommands_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    CustomCommands
		wantErr bool
	}{
		{name: "nil becomes empty", src: nil, want: CustomCommands{}},
		{name: "json null becomes empty", src: []byte("null"), want: CustomCommands{}},
		{name: "string source", src: `[{"trigger":"a","response":"b"}]`, want: CustomCommands{{Trigger: "a", Response: "b"}}},
		{name: "unsupported type", src: 42, wantErr: true},
		{name: "invalid json", src: []byte("{"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got CustomCommands
			err := got.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDefaultGuildConfig(t *testing.T) {
	config := NewDefaultGuildConfig("123", "")
	assert.Equal(t, "123", config.GuildID)
	assert.Equal(t, DefaultServerAddress, config.ServerAddress)
	assert.NotNil(t, config.Commands)
	assert.Empty(t, config.Commands)

	custom := NewDefaultGuildConfig("123", "mc.example.org")
	assert.Equal(t, "mc.example.org", custom.ServerAddress)
}
