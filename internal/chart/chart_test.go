package chart

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundesrat/internal/config"
	"bundesrat/internal/errors"
	"bundesrat/pkg/contracts/domain"
)

func pngWidth(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width
}

func TestRenderer_AgeChart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	r := NewRenderer(nil, &config.Paths{PlotsDir: dir}, 1000)

	path, err := r.AgeChart([]domain.AgeByYear{
		{Year: 1848, Mean: 39.9, Max: 43.7, Min: 36.1, Members: 2},
		{Year: 1849, Mean: 40.9, Max: 44.7, Min: 37.1, Members: 2},
		{Year: 2025, Mean: 61.2, Max: 65.9, Min: 57.4, Members: 8},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, AgeChartFile), path)
	assert.InDelta(t, 1000, pngWidth(t, path), 1)
}

func TestRenderer_CantonChart(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(nil, &config.Paths{PlotsDir: dir}, 0)

	path, err := r.CantonChart([]domain.GroupCount{
		{Key: "BE", Count: 2},
		{Key: "ZH", Count: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, CantonChartFile), path)
	assert.InDelta(t, defaultWidthPx, pngWidth(t, path), 1)
}

func TestRenderer_NoData(t *testing.T) {
	r := NewRenderer(nil, &config.Paths{PlotsDir: t.TempDir()}, 800)

	_, err := r.AgeChart(nil)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))

	_, err = r.CantonChart(nil)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
}
