//go:build ci

package sound

type SoundManager struct{}

func NewSoundManager(dir string) *SoundManager {
	return &SoundManager{}
}

func (sm *SoundManager) Init() error {
	return nil
}

func (sm *SoundManager) Loaded(cue string) bool {
	return false
}

func (sm *SoundManager) Play(cue string) {
	// No-op
}

func (sm *SoundManager) Close() {
	// No-op
}
