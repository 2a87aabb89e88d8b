package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"BackScan/internal/domain/models"
	svccache "BackScan/internal/service/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCatalog struct {
	calls int
	infos []models.SymbolInfo
	err   error
}

func (c *countingCatalog) Symbols(context.Context) ([]models.SymbolInfo, error) {
	c.calls++
	return c.infos, c.err
}

func TestCachedSymbolsSortsAlphabetically(t *testing.T) {
	inner := &countingCatalog{infos: []models.SymbolInfo{
		{Symbol: "ETHUSDT"}, {Symbol: "ADAUSDT"}, {Symbol: "BTCUSDT"},
	}}
	c := NewCached(inner, svccache.NewTTLCache(), time.Minute)

	infos, err := c.Symbols(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "ADAUSDT", infos[0].Symbol)
	assert.Equal(t, "BTCUSDT", infos[1].Symbol)
	assert.Equal(t, "ETHUSDT", infos[2].Symbol)
}

func TestCachedSymbolsServesFromCache(t *testing.T) {
	inner := &countingCatalog{infos: []models.SymbolInfo{{Symbol: "BTCUSDT"}}}
	c := NewCached(inner, svccache.NewTTLCache(), time.Minute)

	_, err := c.Symbols(context.Background())
	require.NoError(t, err)
	_, err = c.Symbols(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
}

func TestCachedSymbolsZeroTTLDisablesCache(t *testing.T) {
	inner := &countingCatalog{infos: []models.SymbolInfo{{Symbol: "BTCUSDT"}}}
	c := NewCached(inner, svccache.NewTTLCache(), 0)

	_, err := c.Symbols(context.Background())
	require.NoError(t, err)
	_, err = c.Symbols(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedSymbolsPropagatesFetchError(t *testing.T) {
	inner := &countingCatalog{err: errors.New("engine unreachable")}
	c := NewCached(inner, svccache.NewTTLCache(), time.Minute)

	_, err := c.Symbols(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine unreachable")
}
