package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SoundType represents different sound effects.
type SoundType int

const (
	SoundMove SoundType = iota
	SoundCapture
	SoundCheck
	SoundCastle
	SoundInvalid
	SoundGameEnd
)

const sampleRate = 44100

// tone is one voice of a procedural sound: a sine at freq Hz, plus its
// second harmonic at weight overtone, shaped by envelope over seconds.
type tone struct {
	freqs     []float64
	overtone  float64
	seconds   float64
	amplitude float64
	delay     float64
	envelope  func(t, progress float64) float64
}

func decay(t, _ float64) float64 { return math.Exp(-t * 30) }

func attackDecay(_, p float64) float64 {
	if p < 0.1 {
		return p / 0.1
	}
	return 1 - (p-0.1)/0.9
}

func linearDecay(_, p float64) float64 { return 1 - p }

func swell(_, p float64) float64 {
	switch {
	case p < 0.1:
		return p / 0.1
	case p > 0.7:
		return (1 - p) / 0.3
	}
	return 1
}

var soundTones = map[SoundType][]tone{
	SoundMove:    {{freqs: []float64{440}, seconds: 0.08, amplitude: 0.3, envelope: decay}},
	SoundCapture: {{freqs: []float64{330}, seconds: 0.12, amplitude: 0.5, envelope: decay}},
	SoundCheck:   {{freqs: []float64{880}, seconds: 0.15, amplitude: 0.4, envelope: attackDecay}},
	SoundCastle: {
		{freqs: []float64{400}, seconds: 0.06, amplitude: 0.3, envelope: decay},
		{freqs: []float64{440}, seconds: 0.06, amplitude: 0.24, delay: 0.05, envelope: decay},
	},
	SoundInvalid: {{freqs: []float64{150}, overtone: 0.3, seconds: 0.1, amplitude: 0.15, envelope: linearDecay}},
	SoundGameEnd: {{freqs: []float64{261.63, 329.63, 392.00}, seconds: 0.4, amplitude: 0.5, envelope: swell}},
}

// synthesize renders tones one after another as 16-bit stereo PCM.
func synthesize(tones []tone) []byte {
	var out []byte
	for _, tn := range tones {
		out = append(out, make([]byte, int(sampleRate*tn.delay)*4)...)
		samples := int(sampleRate * tn.seconds)
		data := make([]byte, samples*4)
		for i := 0; i < samples; i++ {
			t := float64(i) / sampleRate
			wave := 0.0
			for _, f := range tn.freqs {
				wave += math.Sin(2*math.Pi*f*t) + tn.overtone*math.Sin(4*math.Pi*f*t)
			}
			wave /= float64(len(tn.freqs))
			val := int16(wave * tn.envelope(t, t/tn.seconds) * tn.amplitude * 32767)
			data[i*4] = byte(val)
			data[i*4+1] = byte(val >> 8)
			data[i*4+2] = byte(val)
			data[i*4+3] = byte(val >> 8)
		}
		out = append(out, data...)
	}
	return out
}

// AudioManager handles sound effect playback.
type AudioManager struct {
	context *audio.Context
	sounds  map[SoundType][]byte
	enabled bool
	volume  float64
}

// NewAudioManager creates the process's audio context and renders every
// sound up front.
func NewAudioManager(enabled bool) *AudioManager {
	am := &AudioManager{
		context: audio.NewContext(sampleRate),
		sounds:  make(map[SoundType][]byte, len(soundTones)),
		enabled: enabled,
		volume:  0.5,
	}
	for s, tones := range soundTones {
		am.sounds[s] = synthesize(tones)
	}
	return am
}

// Play plays a sound effect. Overlapping sounds each get a player.
func (am *AudioManager) Play(sound SoundType) {
	if !am.enabled {
		return
	}
	data, ok := am.sounds[sound]
	if !ok {
		return
	}
	player := am.context.NewPlayerFromBytes(data)
	player.SetVolume(am.volume)
	player.Play()
}

// SetEnabled enables or disables audio.
func (am *AudioManager) SetEnabled(enabled bool) {
	am.enabled = enabled
}

// IsEnabled returns whether audio is enabled.
func (am *AudioManager) IsEnabled() bool {
	return am.enabled
}
