//go:build !ci

package sound

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests stay clear of the speaker, which needs an audio device.

func TestSoundManager_MissingDirectory(t *testing.T) {
	t.Parallel()

	sm := NewSoundManager(filepath.Join(t.TempDir(), "missing"))
	assert.NoError(t, sm.loadSoundFiles(beep.SampleRate(44100)))
	assert.False(t, sm.Loaded(CueWin))
	assert.Equal(t, Cues, sm.Missing())
}

func TestSoundManager_SkipsUnknownAndBrokenFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "win.wav"), []byte("not a wav"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "step.mp3"), 0o755))

	sm := NewSoundManager(dir)
	assert.NoError(t, sm.loadSoundFiles(beep.SampleRate(44100)))
	assert.False(t, sm.Loaded(CueWin))
	assert.False(t, sm.Loaded(CueStep))
	assert.False(t, sm.Loaded("notes"))
}

func TestSoundManager_PlayWhenDisabled(t *testing.T) {
	t.Parallel()

	sm := NewSoundManager(t.TempDir())
	sm.buffers[CueBump] = beep.NewBuffer(beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 4})

	// Init was never called, so Play must return without touching the speaker.
	sm.Play(CueBump)
	sm.Play("unknown")
	sm.Close()
	assert.True(t, sm.Loaded(CueBump))
	assert.Equal(t, []string{CueStep, CueWin, CueNew}, sm.Missing())
}
