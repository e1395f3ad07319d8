package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/oomph-ac/culling/oerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mods map[string]bool

func (m mods) ModLoaded(id string) bool {
	return m[id]
}

func TestFlagToggle(t *testing.T) {
	f := NewFlag(true)
	assert.True(t, f.Enabled())
	assert.False(t, f.Toggle())
	assert.False(t, f.Enabled())
	f.Set(true)
	assert.True(t, f.Enabled())
}

func TestFlagConcurrentToggles(t *testing.T) {
	f := NewFlag(false)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Toggle()
			_ = f.Enabled()
		}()
	}
	wg.Wait()
	// An even number of toggles leaves the flag where it started.
	assert.False(t, f.Enabled())
}

func TestOptionApplyWritesThroughBinding(t *testing.T) {
	f := NewFlag(true)
	opt := NewOption("culling", true, FlagBinding(f))

	require.NoError(t, opt.Set(false))
	assert.True(t, opt.HasChanged())
	assert.True(t, f.Enabled(), "pending values must not reach the flag")

	require.NoError(t, opt.Apply())
	assert.False(t, opt.HasChanged())
	assert.False(t, f.Enabled())
}

func TestOptionReset(t *testing.T) {
	f := NewFlag(true)
	opt := NewOption("culling", true, FlagBinding(f))
	require.NoError(t, opt.Set(false))

	f.Set(false)
	require.NoError(t, opt.Reset())
	assert.False(t, opt.Value())
	assert.False(t, opt.HasChanged())
}

func TestOptionUnavailableKeepsAppliedValue(t *testing.T) {
	f := NewFlag(true)
	opt := NewOption("culling", true, FlagBinding(f))
	require.NoError(t, opt.SetAvailable(false))
	require.NoError(t, opt.Set(false))
	require.NoError(t, opt.Apply())
	assert.True(t, f.Enabled())
}

func TestOptionEnabledCallback(t *testing.T) {
	opt := NewOption("culling", true, FlagBinding(NewFlag(true)))
	var got []bool
	require.NoError(t, opt.OnEnabledChanged(func(enabled bool) {
		got = append(got, enabled)
	}))

	require.NoError(t, opt.Set(false))
	require.NoError(t, opt.Set(true))
	require.NoError(t, opt.SetAvailable(false))
	require.NoError(t, opt.Set(true))
	assert.Equal(t, []bool{false, true, false, false}, got)
}

func TestOptionLockedByIncompatibleMod(t *testing.T) {
	f := NewFlag(true)
	opt := NewOption("culling", true, FlagBinding(f))

	assert.False(t, opt.SetModIncompatibility(false, "sodium", false))
	assert.Equal(t, Editable, opt.State())

	assert.True(t, opt.SetModIncompatibility(true, "sodium", false))
	assert.True(t, opt.Locked())
	assert.False(t, f.Enabled())
	assert.False(t, opt.Available())
	assert.Contains(t, opt.Reason(), "sodium")
	assert.Equal(t, []string{opt.Reason()}, opt.Tooltips())

	for name, err := range map[string]error{
		"set":       opt.Set(true),
		"reset":     opt.Reset(),
		"apply":     opt.Apply(),
		"available": opt.SetAvailable(true),
		"callback":  opt.OnEnabledChanged(func(bool) {}),
		"tooltip":   opt.SetTooltip("x"),
		"limited":   opt.SetModLimited(true, "x"),
	} {
		assert.Truef(t, errors.Is(err, oerror.ErrOptionLocked), "%s: got %v", name, err)
	}
	assert.False(t, f.Enabled())

	// Locking twice changes nothing.
	assert.False(t, opt.SetModIncompatibility(true, "other", true))
	assert.Contains(t, opt.Reason(), "sodium")
}

func TestOptionModLimited(t *testing.T) {
	opt := NewOption("culling", true, FlagBinding(NewFlag(true)))
	require.NoError(t, opt.SetTooltip("base"))
	require.NoError(t, opt.SetModLimited(false, "ignored"))
	require.NoError(t, opt.SetModLimited(true, "limited by x"))
	assert.Equal(t, []string{"base", "limited by x"}, opt.Tooltips())
	assert.Equal(t, Editable, opt.State())
}

func TestSettingsRoundTripThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	s, err := LoadOrCreate(path)
	require.NoError(t, err)
	def := DefaultSettings()
	assert.Equal(t, def.Culling.UseBlockStateCulling, s.Culling.UseBlockStateCulling)
	assert.Equal(t, def.Culling.DuplicatePolicy, s.Culling.DuplicatePolicy)
	assert.Empty(t, s.Culling.IncompatibleMods)
	assert.Equal(t, def.Render, s.Render)
	assert.Equal(t, def.Stats, s.Stats)

	assert.Error(t, SaveDefault(path))

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestSettingsPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Culling]\nUseBlockStateCulling = false\n"), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.False(t, s.Culling.UseBlockStateCulling)
	assert.Equal(t, "reject", s.Culling.DuplicatePolicy)
	assert.Equal(t, 4, s.Render.Workers)
}

func TestSettingsRejectsInvalidWorkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Render]\nWorkers = 0\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestCullingOption(t *testing.T) {
	s := DefaultSettings()
	s.Culling.UseBlockStateCulling = false
	s.Culling.IncompatibleMods = []string{"sodium"}

	f := NewFlag(true)
	opt := s.CullingOption(f, mods{})
	assert.False(t, f.Enabled())
	assert.False(t, opt.Locked())

	s.Culling.UseBlockStateCulling = true
	f = NewFlag(true)
	opt = s.CullingOption(f, mods{"sodium": true})
	assert.False(t, f.Enabled())
	assert.True(t, opt.Locked())
}
