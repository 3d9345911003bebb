package audio

import (
	"math"
	"math/rand"
)

// SynthRoll renders the built-in roll sound: a burst of decaying clicks, like
// a die rattling in a cup.
func SynthRoll(rate int) []int16 {
	const (
		lengthMs = 450
		clicks   = 9
	)
	n := rate * lengthMs / 1000
	out := make([]float64, n)
	rnd := rand.New(rand.NewSource(1))

	for c := 0; c < clicks; c++ {
		at := int(float64(n) * (float64(c) / clicks) * (0.85 + 0.3*rnd.Float64()))
		amp := 0.9 * math.Pow(0.8, float64(c))
		hz := 1800 + 1400*rnd.Float64()
		for i := 0; i < rate*25/1000 && at+i < n; i++ {
			t := float64(i) / float64(rate)
			env := math.Exp(-t * 220)
			noise := rnd.Float64()*2 - 1
			out[at+i] += amp * env * (0.6*math.Sin(2*math.Pi*hz*t) + 0.4*noise)
		}
	}
	return toPCM16(out)
}

// SynthSettle renders the built-in settle sound: a short two-note chime.
func SynthSettle(rate int) []int16 {
	const lengthMs = 380
	n := rate * lengthMs / 1000
	out := make([]float64, n)
	notes := []struct {
		hz    float64
		start float64
	}{
		{hz: 880, start: 0},
		{hz: 1318.5, start: 0.09},
	}
	for _, note := range notes {
		from := int(note.start * float64(rate))
		for i := from; i < n; i++ {
			t := float64(i-from) / float64(rate)
			env := math.Exp(-t*9) * math.Min(1, t*400)
			out[i] += 0.45 * env * math.Sin(2*math.Pi*note.hz*t)
		}
	}
	return toPCM16(out)
}

func toPCM16(in []float64) []int16 {
	out := make([]int16, len(in))
	for i, v := range in {
		v = math.Max(-1, math.Min(1, v))
		out[i] = int16(v * 32767)
	}
	return out
}

// Resample converts samples from one rate to another by linear interpolation.
func Resample(samples []int16, from, to int) []int16 {
	if from <= 0 || to <= 0 || from == to || len(samples) == 0 {
		return samples
	}
	n := int(int64(len(samples)) * int64(to) / int64(from))
	if n == 0 {
		return nil
	}
	out := make([]int16, n)
	ratio := float64(from) / float64(to)
	last := len(samples) - 1
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= last {
			out[i] = samples[last]
			continue
		}
		frac := pos - float64(j)
		out[i] = int16(float64(samples[j])*(1-frac) + float64(samples[j+1])*frac)
	}
	return out
}
