// Package speech speaks alarm announcements through the platform's
// text-to-speech command. Synthesis is strictly best-effort: a machine
// with no TTS binary simply rings without the spoken part.
package speech

import (
	"fmt"
	"log"
	"os/exec"
	"runtime"
)

// Announcer shells out to the first available platform TTS command.
type Announcer struct {
	command string
	args    []string
}

// candidate TTS commands per platform, in preference order. Each takes the
// text to speak as its final argument.
func candidates() [][]string {
	switch runtime.GOOS {
	case "darwin":
		return [][]string{{"say"}}
	case "windows":
		return [][]string{{"powershell", "-Command",
			"Add-Type -AssemblyName System.Speech; " +
				"(New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak($args[0])"}}
	default:
		return [][]string{{"spd-say", "--wait"}, {"espeak"}}
	}
}

// NewAnnouncer probes the platform for a usable TTS command.
func NewAnnouncer() *Announcer {
	for _, c := range candidates() {
		if _, err := exec.LookPath(c[0]); err == nil {
			return &Announcer{command: c[0], args: c[1:]}
		}
	}
	log.Println("No text-to-speech command found, announcements disabled")
	return &Announcer{}
}

// Available reports whether a TTS command was found.
func (a *Announcer) Available() bool {
	return a.command != ""
}

// Speak synthesizes the text and blocks until playback finishes. Callers
// run it from a goroutine so it never delays the ringing UI.
func (a *Announcer) Speak(text string) error {
	if !a.Available() {
		return fmt.Errorf("no text-to-speech command available")
	}
	if text == "" {
		return nil
	}

	cmd := exec.Command(a.command, append(a.args, text)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", a.command, err)
	}
	return nil
}
