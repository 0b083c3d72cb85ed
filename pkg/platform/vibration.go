// Package platform wraps hardware capabilities that may or may not exist
// on the machine EarlySpring runs on. Each capability is a checked port;
// callers invoke it unconditionally and the port decides availability.
package platform

import "log"

// Vibrator drives a repeating vibration pattern while an alarm rings.
// Desktop hardware has no vibration motor, so the stock implementation is
// a logged no-op; the port exists so a build for vibration-capable
// hardware only has to swap this type.
type Vibrator struct {
	started bool
}

// NewVibrator returns the vibration port for this platform.
func NewVibrator() *Vibrator {
	return &Vibrator{}
}

// Available reports whether the platform exposes a vibration capability.
func (v *Vibrator) Available() bool {
	return false
}

// Start begins the repeating vibration pattern, if the hardware has one.
func (v *Vibrator) Start() {
	if !v.Available() {
		log.Println("Vibration requested but not available on this platform")
		return
	}
	v.started = true
}

// Stop ends vibration. Safe to call when nothing is vibrating.
func (v *Vibrator) Stop() {
	v.started = false
}
