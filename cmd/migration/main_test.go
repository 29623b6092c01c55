package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	steps      []int
	forced     []int
	migratedTo []uint
	upErr      error
	version    uint
	dirty      bool
	versionErr error
}

func (f *fakeMigrator) Up() error { return f.upErr }

func (f *fakeMigrator) Steps(n int) error {
	f.steps = append(f.steps, n)
	return nil
}

func (f *fakeMigrator) Migrate(version uint) error {
	f.migratedTo = append(f.migratedTo, version)
	return migrate.ErrNoChange
}

func (f *fakeMigrator) Force(version int) error {
	f.forced = append(f.forced, version)
	return nil
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	return f.version, f.dirty, f.versionErr
}

func TestRunUp_NoChangeIsNotAnError(t *testing.T) {
	m := &fakeMigrator{upErr: migrate.ErrNoChange}
	require.NoError(t, runUp(m, nil, nil, logging.NewNop()))

	m.upErr = errors.New("dirty database")
	require.EqualError(t, runUp(m, nil, nil, logging.NewNop()), "dirty database")
}

func TestRunDown_Steps(t *testing.T) {
	m := &fakeMigrator{}
	require.NoError(t, runDown(m, nil, nil, logging.NewNop()))
	require.NoError(t, runDown(m, []string{" 3 "}, nil, logging.NewNop()))
	assert.Equal(t, []int{-1, -3}, m.steps)

	for _, bad := range []string{"0", "-2", "two"} {
		err := runDown(m, []string{bad}, nil, logging.NewNop())
		assert.ErrorIs(t, err, errUsage, "steps %q", bad)
	}
	assert.Len(t, m.steps, 2)
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runVersion(&fakeMigrator{versionErr: migrate.ErrNilVersion}, nil, &out, logging.NewNop()))
	assert.Equal(t, "version: none\ndirty: false\n", out.String())

	out.Reset()
	require.NoError(t, runVersion(&fakeMigrator{version: 1771776034, dirty: true}, nil, &out, logging.NewNop()))
	assert.Equal(t, "version: 1771776034\ndirty: true\n", out.String())
}

func TestRunForceAndGoto(t *testing.T) {
	m := &fakeMigrator{}
	require.NoError(t, runForce(m, []string{"1771776034"}, nil, logging.NewNop()))
	require.NoError(t, runGoto(m, []string{"1771776034"}, nil, logging.NewNop()))
	assert.Equal(t, []int{1771776034}, m.forced)
	assert.Equal(t, []uint{1771776034}, m.migratedTo)

	assert.ErrorIs(t, runForce(m, nil, nil, logging.NewNop()), errUsage)
	assert.ErrorIs(t, runGoto(m, []string{"-1"}, nil, logging.NewNop()), errUsage)
}

func TestResolveMigrationsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir.sql")
	require.NoError(t, os.WriteFile(file, []byte("--"), 0o600))

	got, err := resolveMigrationsDir("", file, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}
