package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantID  string
		wantErr bool
		check   func(t *testing.T, v any)
	}{
		{
			name:   "git defaults id to type",
			cfg:    Config{Type: TypeGit},
			wantID: "git",
			check: func(t *testing.T, v any) {
				assert.IsType(t, &GitProvider{}, v)
			},
		},
		{
			name:   "filestat",
			cfg:    Config{ID: "fs", Type: TypeFileStat},
			wantID: "fs",
			check: func(t *testing.T, v any) {
				assert.IsType(t, &FileStatProvider{}, v)
			},
		},
		{
			name:   "journal",
			cfg:    Config{ID: "deploys", Type: TypeJournal, Dir: "/var/log/deploys"},
			wantID: "deploys",
			check: func(t *testing.T, v any) {
				assert.IsType(t, &JournalProvider{}, v)
			},
		},
		{
			name:   "cached command",
			cfg:    Config{ID: "tickets", Type: TypeCommand, Command: "tickets-plugin", Cache: true},
			wantID: "tickets",
			check: func(t *testing.T, v any) {
				cached, ok := v.(*CachedProvider)
				require.True(t, ok)
				assert.IsType(t, &CommandProvider{}, cached.provider)
				assert.Equal(t, 2*time.Minute, cached.ttl)
			},
		},
		{name: "journal without dir", cfg: Config{Type: TypeJournal}, wantErr: true},
		{name: "command without command", cfg: Config{Type: TypeCommand}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Create(tt.cfg, 2*time.Minute)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, p.ID())
			tt.check(t, p)
		})
	}
}

func TestCreateUnknownType(t *testing.T) {
	_, err := Create(Config{ID: "x", Type: "svn"}, 0)
	assert.ErrorIs(t, err, ErrUnknownProviderType)
}

func TestDefaultConfigs(t *testing.T) {
	configs := DefaultConfigs()
	require.Len(t, configs, 2)
	for _, cfg := range configs {
		_, err := Create(cfg, 0)
		assert.NoError(t, err)
	}
}
