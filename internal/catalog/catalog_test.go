package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noor7086/Obyyo-sub002/internal/config"
	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
)

func TestFromConfig(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), sampleCatalog)

	tests := []struct {
		name       string
		catalog    config.CatalogConfig
		wantType   lottery.Catalog
		wantRunner bool
		wantGames  int
		wantErr    bool
	}{
		{
			name:      "static",
			catalog:   config.CatalogConfig{Source: config.CatalogStatic},
			wantType:  &lottery.StaticCatalog{},
			wantGames: 5,
		},
		{
			name:      "empty source is static",
			catalog:   config.CatalogConfig{},
			wantType:  &lottery.StaticCatalog{},
			wantGames: 5,
		},
		{
			name:      "file without watch",
			catalog:   config.CatalogConfig{Source: config.CatalogFile, FilePath: path},
			wantType:  &FileCatalog{},
			wantGames: 2,
		},
		{
			name:       "file with watch",
			catalog:    config.CatalogConfig{Source: config.CatalogFile, FilePath: path, Watch: true},
			wantType:   &FileCatalog{},
			wantRunner: true,
			wantGames:  2,
		},
		{
			name: "remote",
			catalog: config.CatalogConfig{
				Source:          config.CatalogRemote,
				RemoteURL:       "http://127.0.0.1:1/",
				RefreshInterval: "1m",
				RemoteRatePerS:  1,
			},
			wantType:   &RemoteCatalog{},
			wantRunner: true,
			wantGames:  5,
		},
		{
			name:    "file missing",
			catalog: config.CatalogConfig{Source: config.CatalogFile, FilePath: path + ".missing"},
			wantErr: true,
		},
		{
			name:    "unknown source",
			catalog: config.CatalogConfig{Source: "ftp"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Catalog = tt.catalog

			cat, runner, err := FromConfig(cfg, nil, nil)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cat)
				assert.Nil(t, runner)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, cat)
			assert.Equal(t, tt.wantRunner, runner != nil)
			assert.Len(t, cat.Games(), tt.wantGames)
		})
	}
}
