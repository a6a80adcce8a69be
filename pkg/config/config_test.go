package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "BRL", cfg.Atelier.Currency)
	assert.Equal(t, "12", cfg.Atelier.DefaultLaborRate.String())
	assert.Equal(t, "50", cfg.Atelier.DefaultMargin.String())
	assert.Equal(t, "last", cfg.Atelier.CostingPolicy)
	assert.True(t, cfg.Atelier.AllowNegativeStock)
	assert.Equal(t, 3, cfg.DB.TxMaxRetries)
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.False(t, cfg.Storage.Enabled())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("ATELIER_DEFAULT_LABOR_RATE", "20.50")
	v.Set("STOCK_ALLOW_NEGATIVE", "false")
	v.Set("ATELIER_COSTING_POLICY", "WEIGHTED")
	v.Set("DB_PORT", "6543")
	v.Set("STORAGE_ENDPOINT", "localhost:9000")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "20.5", cfg.Atelier.DefaultLaborRate.String())
	assert.False(t, cfg.Atelier.AllowNegativeStock)
	assert.Equal(t, "weighted", cfg.Atelier.CostingPolicy)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.True(t, cfg.Storage.Enabled())
}

func TestFromViper_DecimalInvalido(t *testing.T) {
	v := viper.New()
	v.Set("ATELIER_DEFAULT_MARGIN", "abc")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_MaxConnsInvalido(t *testing.T) {
	v := viper.New()
	v.Set("DB_MAX_CONNS", "0")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "atelier", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/atelier?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
