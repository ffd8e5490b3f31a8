package migrate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover_SortsAndFilters(t *testing.T) {
	r := Runner{FS: fstest.MapFS{
		"0002_history_index_up.sql":      {Data: []byte("SELECT 2")},
		"0001_iris_command_log_up.sql":   {Data: []byte("SELECT 1")},
		"0001_iris_command_log_down.sql": {Data: []byte("DROP")},
		"README.md":                      {Data: []byte("docs")},
		"draft_up.sql":                   {Data: []byte("ignored")},
		"nested/0010_later_up.sql":       {Data: []byte("SELECT 10")},
	}}

	got, err := r.Discover()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(1), got[0].Version)
	assert.Equal(t, int64(2), got[1].Version)
	assert.Equal(t, int64(10), got[2].Version)
	assert.Equal(t, "nested/0010_later_up.sql", got[2].Path)
}

func TestDiscover_DuplicateVersion(t *testing.T) {
	r := Runner{FS: fstest.MapFS{
		"0001_a_up.sql": {Data: []byte("SELECT 1")},
		"0001_b_up.sql": {Data: []byte("SELECT 1")},
	}}
	_, err := r.Discover()
	assert.ErrorContains(t, err, "duplicate migration version 1")
}

func TestDiscover_EmptyDir(t *testing.T) {
	_, err := Runner{}.Discover()
	assert.Error(t, err)
}

func TestDiscover_RepositoryMigrations(t *testing.T) {
	got, err := Runner{Dir: "../../db/migrations"}.Discover()
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, int64(1), got[0].Version)
}

func TestPending(t *testing.T) {
	all := []Migration{{Version: 1}, {Version: 2}, {Version: 3}}
	got := Pending(all, map[int64]bool{1: true, 3: true})
	assert.Equal(t, []Migration{{Version: 2}}, got)
	assert.Len(t, Pending(all, nil), 3)
}
