package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mcpanel/core"
	"mcpanel/models"
	"mcpanel/services/guildconfigs"
	"mcpanel/services/minecraft"
	"mcpanel/usecases"
)

func newTestUseCase() (*BotUseCase, *guildconfigs.MockGuildConfigsService, *minecraft.MockStatusProber) {
	guildConfigsService := &guildconfigs.MockGuildConfigsService{}
	prober := &minecraft.MockStatusProber{}
	return NewBotUseCase(guildConfigsService, prober, "https://panel.example.com"), guildConfigsService, prober
}

func TestBotUseCase_ProcessSlashCommand_Panel(t *testing.T) {
	useCase, guildConfigsService, _ := newTestUseCase()

	reply, err := useCase.ProcessSlashCommand(context.Background(), "guild-1", CommandPanel)

	require.NoError(t, err)
	assert.True(t, reply.Ephemeral)
	assert.Contains(t, reply.Content, "https://panel.example.com")
	guildConfigsService.AssertNotCalled(t, "GetGuildConfig", mock.Anything, mock.Anything)
}

func TestBotUseCase_ProcessSlashCommand_Help(t *testing.T) {
	useCase, _, _ := newTestUseCase()

	reply, err := useCase.ProcessSlashCommand(context.Background(), "guild-1", CommandHelp)

	require.NoError(t, err)
	assert.False(t, reply.Ephemeral)
	assert.Contains(t, reply.Content, "/panel")
}

func TestBotUseCase_ProcessSlashCommand_Server(t *testing.T) {
	useCase, guildConfigsService, prober := newTestUseCase()
	guildConfigsService.On("GetGuildConfig", mock.Anything, "guild-1").
		Return(&models.GuildConfig{GuildID: "guild-1", ServerAddress: "mc.example.com"}, nil)

	reply, err := useCase.ProcessSlashCommand(context.Background(), "guild-1", CommandServer)

	require.NoError(t, err)
	assert.Contains(t, reply.Content, "mc.example.com")
	prober.AssertNotCalled(t, "Probe", mock.Anything, mock.Anything)
}

func TestBotUseCase_ProcessSlashCommand_Status(t *testing.T) {
	tests := []struct {
		name     string
		snapshot models.StatusSnapshot
		contains []string
	}{
		{
			name: "online",
			snapshot: models.StatusSnapshot{
				Online:      true,
				PlayerCount: 3,
				MaxPlayers:  20,
				VersionName: "1.21",
				MOTD:        "Welcome *friends*",
			},
			contains: []string{"ONLINE", "3/20", "1.21", `Welcome \*friends\*`},
		},
		{
			name:     "offline or timed out",
			snapshot: models.OfflineSnapshot(),
			contains: []string{"OFFLINE", "mc.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useCase, guildConfigsService, prober := newTestUseCase()
			guildConfigsService.On("GetGuildConfig", mock.Anything, "guild-1").
				Return(&models.GuildConfig{GuildID: "guild-1", ServerAddress: "mc.example.com"}, nil)
			prober.On("Probe", mock.Anything, "mc.example.com").Return(tt.snapshot)

			reply, err := useCase.ProcessSlashCommand(context.Background(), "guild-1", CommandStatus)

			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, reply.Content, s)
			}
		})
	}
}

func TestBotUseCase_ProcessSlashCommand_StatusStoreFailure(t *testing.T) {
	useCase, guildConfigsService, _ := newTestUseCase()
	guildConfigsService.On("GetGuildConfig", mock.Anything, "guild-1").
		Return(nil, core.StoreError("get guild config", errors.New("connection refused")))

	reply, err := useCase.ProcessSlashCommand(context.Background(), "guild-1", CommandStatus)

	assert.Nil(t, reply)
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}

func TestBotUseCase_ProcessSlashCommand_OutsideGuild(t *testing.T) {
	useCase, guildConfigsService, _ := newTestUseCase()

	reply, err := useCase.ProcessSlashCommand(context.Background(), "", CommandStatus)

	require.NoError(t, err)
	assert.True(t, reply.Ephemeral)
	guildConfigsService.AssertNotCalled(t, "GetGuildConfig", mock.Anything, mock.Anything)
}

func TestBotUseCase_ProcessSlashCommand_Unknown(t *testing.T) {
	useCase, _, _ := newTestUseCase()

	reply, err := useCase.ProcessSlashCommand(context.Background(), "guild-1", "teleport")

	require.NoError(t, err)
	assert.True(t, reply.Ephemeral)
}

func TestBotUseCase_ProcessMessageEvent(t *testing.T) {
	t.Run("replies on match", func(t *testing.T) {
		useCase, guildConfigsService, _ := newTestUseCase()
		guildConfigsService.On("MatchMessage", mock.Anything, "guild-1", "!ip").Return(mo.Some("mc.example.com"), nil)

		reply, err := useCase.ProcessMessageEvent(context.Background(), models.DiscordMessageEvent{
			GuildID: "guild-1", ChannelID: "c", MessageID: "m", AuthorID: "u", Content: "!ip",
		})

		require.NoError(t, err)
		assert.Equal(t, mo.Some("mc.example.com"), reply)
	})

	t.Run("no match", func(t *testing.T) {
		useCase, guildConfigsService, _ := newTestUseCase()
		guildConfigsService.On("MatchMessage", mock.Anything, "guild-1", "hello").Return(mo.None[string](), nil)

		reply, err := useCase.ProcessMessageEvent(context.Background(), models.DiscordMessageEvent{
			GuildID: "guild-1", Content: "hello",
		})

		require.NoError(t, err)
		assert.True(t, reply.IsAbsent())
	})

	t.Run("ignores bots", func(t *testing.T) {
		useCase, guildConfigsService, _ := newTestUseCase()

		reply, err := useCase.ProcessMessageEvent(context.Background(), models.DiscordMessageEvent{
			GuildID: "guild-1", AuthorBot: true, Content: "!ip",
		})

		require.NoError(t, err)
		assert.True(t, reply.IsAbsent())
		guildConfigsService.AssertNotCalled(t, "MatchMessage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ignores direct messages", func(t *testing.T) {
		useCase, guildConfigsService, _ := newTestUseCase()

		reply, err := useCase.ProcessMessageEvent(context.Background(), models.DiscordMessageEvent{Content: "!ip"})

		require.NoError(t, err)
		assert.True(t, reply.IsAbsent())
		guildConfigsService.AssertNotCalled(t, "MatchMessage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		useCase, guildConfigsService, _ := newTestUseCase()
		guildConfigsService.On("MatchMessage", mock.Anything, "guild-1", "!ip").Return(nil, core.ErrStoreUnavailable)

		_, err := useCase.ProcessMessageEvent(context.Background(), models.DiscordMessageEvent{GuildID: "guild-1", Content: "!ip"})

		assert.ErrorIs(t, err, core.ErrStoreUnavailable)
	})
}

func TestFormatStatusReply_Truncation(t *testing.T) {
	useCase, guildConfigsService, prober := newTestUseCase()
	guildConfigsService.On("GetGuildConfig", mock.Anything, "guild-1").
		Return(&models.GuildConfig{GuildID: "guild-1", ServerAddress: "mc.example.com"}, nil)
	prober.On("Probe", mock.Anything, "mc.example.com").
		Return(models.StatusSnapshot{Online: true, MOTD: strings.Repeat("a", 3000)})

	reply, err := useCase.ProcessSlashCommand(context.Background(), "guild-1", CommandStatus)

	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(reply.Content)), 2000)
}

func TestIsDeferred(t *testing.T) {
	assert.True(t, IsDeferred(CommandStatus))
	assert.False(t, IsDeferred(CommandPanel))
	assert.False(t, IsDeferred(CommandServer))
}

func TestBotUseCase_ImplementsInterface(t *testing.T) {
	var _ usecases.BotUseCaseInterface = &BotUseCase{}
	var _ usecases.BotUseCaseInterface = &MockBotUseCase{}
}
