package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance-server-go/models"
)

func TestLoadSeedDefault(t *testing.T) {
	classes, err := LoadSeed("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSeed(), classes)
	assert.NotEmpty(t, classes)
}

func TestLoadSeedFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(p, []byte(`[
		{"id": 4, "name": "History", "students": [{"name": "Ann", "roll": "1"}]},
		{"id": 5, "name": "Empty"}
	]`), 0o644))

	classes, err := LoadSeed(p)
	require.NoError(t, err)
	assert.Equal(t, []models.Classroom{
		{ID: 4, Name: "History", Students: []models.Student{{Name: "Ann", Roll: "1"}}},
		{ID: 5, Name: "Empty", Students: []models.Student{}},
	}, classes)
}

func TestLoadSeedErrors(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"id":1}`), 0o644))
	_, err = LoadSeed(p)
	assert.ErrorContains(t, err, "decode seed file")
}
