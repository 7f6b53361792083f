package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundesrat/internal/errors"
)

func TestFileValidator_ValidateInputDirectory(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantType  errors.ErrorType
	}{
		{
			name: "valid directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
		},
		{
			name: "non-existent directory",
			setupFunc: func(t *testing.T) string {
				return "/non/existent/path"
			},
			wantType: errors.ErrTypeNotFound,
		},
		{
			name: "path is file not directory",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "bundesrat.csv")
				require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
				return file
			},
			wantType: errors.ErrTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFileValidator(nil).ValidateInputDirectory(tt.setupFunc(t))
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantType, errors.TypeOf(err))
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "export", "nested")

	require.NoError(t, NewFileValidator(nil).ValidateOutputDirectory(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(filepath.Join(dir, ".write_test"))
	assert.True(t, os.IsNotExist(err), "write test file should be removed")
}

func TestFileValidator_ValidateInputFile(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantType  errors.ErrorType
	}{
		{
			name: "non-empty file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "bundesrat.csv")
				require.NoError(t, os.WriteFile(file, []byte("Name;Party\n"), 0644))
				return file
			},
		},
		{
			name: "empty file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "bundesrat.csv")
				require.NoError(t, os.WriteFile(file, nil, 0644))
				return file
			},
			wantType: errors.ErrTypeValidation,
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "bundesrat.csv")
			},
			wantType: errors.ErrTypeNotFound,
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantType: errors.ErrTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFileValidator(nil).ValidateInputFile(tt.setupFunc(t))
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantType, errors.TypeOf(err))
		})
	}
}

func TestFileValidator_ValidateSources(t *testing.T) {
	dir := t.TempDir()
	admin := filepath.Join(dir, "bundesrat.csv")
	de := filepath.Join(dir, "bundesrat-wikipedia-de.csv")
	require.NoError(t, os.WriteFile(admin, []byte("Name\n"), 0644))
	require.NoError(t, os.WriteFile(de, []byte("Name\n"), 0644))

	v := NewFileValidator(nil)
	assert.NoError(t, v.ValidateSources(admin, de))

	err := v.ValidateSources(admin, de, filepath.Join(dir, "bundesrat-wikipedia-es.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}
