package audio

import (
	"encoding/binary"
	"math"
)

// Synthesized fallback tone parameters: a classic beep-beep pattern loud
// enough to wake on, generated when no sound file can be loaded.
const (
	toneSampleRate = 44100
	toneFrequency  = 880.0 // Hz
	toneBeepMillis = 400
	toneGapMillis  = 250
	toneBeepCount  = 2
)

// SynthesizedTone generates one cycle of the fallback beep pattern as
// signed 16-bit little-endian mono PCM. The player loops it like any other
// alarm sound.
func SynthesizedTone() (*Format, []byte) {
	format := &Format{
		SampleRate: toneSampleRate,
		Channels:   1,
		BitDepth:   16,
	}

	beepSamples := toneSampleRate * toneBeepMillis / 1000
	gapSamples := toneSampleRate * toneGapMillis / 1000
	total := toneBeepCount*(beepSamples+gapSamples) + gapSamples

	data := make([]byte, total*2)
	pos := 0

	writeSample := func(v float64) {
		binary.LittleEndian.PutUint16(data[pos:], uint16(int16(v*math.MaxInt16)))
		pos += 2
	}

	for beep := 0; beep < toneBeepCount; beep++ {
		for i := 0; i < beepSamples; i++ {
			// Short attack/release envelope keeps the beep edges from clicking.
			envelope := 1.0
			const edge = toneSampleRate / 100
			if i < edge {
				envelope = float64(i) / edge
			} else if beepSamples-i < edge {
				envelope = float64(beepSamples-i) / edge
			}
			phase := 2 * math.Pi * toneFrequency * float64(i) / toneSampleRate
			writeSample(0.6 * envelope * math.Sin(phase))
		}
		for i := 0; i < gapSamples; i++ {
			writeSample(0)
		}
	}
	for i := 0; i < gapSamples; i++ {
		writeSample(0)
	}

	return format, data
}
