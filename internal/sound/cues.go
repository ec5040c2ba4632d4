// Package sound plays short audio cues for game events.
package sound

// Cue names, matched against file names in the sound directory.
const (
	CueStep = "step"
	CueBump = "bump"
	CueWin  = "win"
	CueNew  = "new"
)

// Cues lists every cue the game plays.
var Cues = []string{CueStep, CueBump, CueWin, CueNew}

// Missing returns the cues that have no loaded file.
func (sm *SoundManager) Missing() []string {
	var missing []string
	for _, cue := range Cues {
		if !sm.Loaded(cue) {
			missing = append(missing, cue)
		}
	}
	return missing
}
