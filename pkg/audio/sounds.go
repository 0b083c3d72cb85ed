package audio

import (
	"log"
	"os"
	"path/filepath"
)

// DefaultSoundID is the sound used when an alarm doesn't name one, and the
// second link of the fallback chain when the named sound fails to load.
const DefaultSoundID = "default"

// Library resolves alarm sound ids to playable PCM. Sounds are WAV files
// in a single directory, looked up by id; the chain is requested sound →
// default sound → synthesized tone, so ringing can never fail for lack of
// a sound file.
type Library struct {
	Dir string
}

// NewLibrary creates a sound library rooted at dir.
func NewLibrary(dir string) *Library {
	return &Library{Dir: dir}
}

// Resolve loads the PCM for a sound id, falling back as needed. It always
// returns playable audio.
func (l *Library) Resolve(soundID string) (*Format, []byte) {
	if soundID != "" && soundID != DefaultSoundID {
		if format, data, err := l.load(soundID); err == nil {
			return format, data
		} else {
			log.Printf("Sound %q failed to load, falling back to default: %v", soundID, err)
		}
	}

	if format, data, err := l.load(DefaultSoundID); err == nil {
		return format, data
	} else {
		log.Printf("Default sound failed to load, using synthesized tone: %v", err)
	}

	return SynthesizedTone()
}

// Play resolves the sound and starts looping playback. Returns nil when
// the audio device itself is unavailable.
func (l *Library) Play(soundID string, gradual bool) *Player {
	format, data := l.Resolve(soundID)
	return PlayLoop(format, data, gradual)
}

func (l *Library) load(soundID string) (*Format, []byte, error) {
	raw, err := os.ReadFile(filepath.Join(l.Dir, soundID+".wav"))
	if err != nil {
		return nil, nil, err
	}
	return ParseWAV(raw)
}
