package glide

import (
	"fmt"
	"math"
	"math/rand/v2"

	"go-gliss/midi"
)

// Mapping selects how a new chord's notes are handed to existing channels
type Mapping int

const (
	Closest Mapping = iota
	Flipped
	Random

	numMappings = 3
)

// Mappings lists every mode in parameter order
var Mappings = [numMappings]Mapping{Closest, Flipped, Random}

func (m Mapping) String() string {
	switch m {
	case Closest:
		return "Closest"
	case Flipped:
		return "Flipped"
	case Random:
		return "Random"
	}
	return fmt.Sprintf("Mapping(%d)", int(m))
}

// Plan is the result of mapping a chord onto channels.
// Retarget[i] is the note index for the i-th channel in ascending pitch
// order; NewVoices are note indices that need a channel of their own.
type Plan struct {
	Retarget  []int
	NewVoices []int
}

// maxNotes bounds the scratch pools; a chord holds unique note numbers
const maxNotes = 128

// Map plans a chord. pitches are the current pitches of the existing
// channels sorted ascending; notes are sorted by number.
func Map(mode Mapping, pitches []float64, notes []midi.NoteEvent, rng *rand.Rand) Plan {
	nCh, nNotes := len(pitches), len(notes)
	switch {
	case nNotes == 0:
		return Plan{Retarget: make([]int, 0)}
	case nCh == 0:
		return Plan{NewVoices: indices(nNotes)}
	case nNotes == 1:
		// unison collapse
		return Plan{Retarget: make([]int, nCh)}
	}

	switch mode {
	case Flipped:
		return mapFlipped(nCh, nNotes)
	case Random:
		return mapRandom(nCh, nNotes, rng)
	default:
		return mapClosest(pitches, notes)
	}
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// mapClosest gives each channel, lowest first, the nearest unassigned note.
// It is greedy, not a global optimum. Ties go to the first note found.
func mapClosest(pitches []float64, notes []midi.NoteEvent) Plan {
	nCh, nNotes := len(pitches), len(notes)
	plan := Plan{Retarget: make([]int, nCh)}

	if nCh > nNotes {
		// Spread channels over notes in order; earlier notes take the remainder.
		remCh, remNotes, i := nCh, nNotes, 0
		for note := 0; note < nNotes; note++ {
			group := (remCh + remNotes - 1) / remNotes
			for g := 0; g < group; g++ {
				plan.Retarget[i] = note
				i++
			}
			remCh -= group
			remNotes--
		}
		return plan
	}

	var pool [maxNotes]int
	n := copy(pool[:], indices(nNotes))
	for ch, pitch := range pitches {
		best := 0
		bestDist := math.Abs(pitch - float64(notes[pool[0]].Number))
		for k := 1; k < n; k++ {
			if d := math.Abs(pitch - float64(notes[pool[k]].Number)); d < bestDist {
				best, bestDist = k, d
			}
		}
		plan.Retarget[ch] = pool[best]
		copy(pool[best:n-1], pool[best+1:n])
		n--
	}
	if n > 0 {
		plan.NewVoices = append([]int(nil), pool[:n]...)
	}
	return plan
}

// mapFlipped sends low channels to high notes and vice versa
func mapFlipped(nCh, nNotes int) Plan {
	plan := Plan{Retarget: make([]int, 0, nCh)}

	switch {
	case nCh == nNotes:
		for i := 0; i < nCh; i++ {
			plan.Retarget = append(plan.Retarget, nNotes-1-i)
		}

	case nCh < nNotes:
		// Alternate the highest and lowest free notes; the lowest picks are
		// appended in reverse so the plan stays descending.
		var bottom [maxNotes]int
		nBottom := 0
		lo, hi := 0, nNotes-1
		for i := 0; i < nCh; i++ {
			if i%2 == 0 {
				plan.Retarget = append(plan.Retarget, hi)
				hi--
			} else {
				bottom[nBottom] = lo
				nBottom++
				lo++
			}
		}
		for i := nBottom - 1; i >= 0; i-- {
			plan.Retarget = append(plan.Retarget, bottom[i])
		}
		for i := lo; i <= hi; i++ {
			plan.NewVoices = append(plan.NewVoices, i)
		}

	default:
		// Every note gets nCh/nNotes channels; the remainder goes to the
		// notes nearest the middle. Emitted from the top note down.
		base, extra := nCh/nNotes, nCh%nNotes
		var size [maxNotes]int
		for note := 0; note < nNotes; note++ {
			size[note] = base
		}
		center := float64(nNotes-1) / 2
		for ; extra > 0; extra-- {
			pick := -1
			for note := 0; note < nNotes; note++ {
				if size[note] > base {
					continue
				}
				if pick < 0 || math.Abs(float64(note)-center) < math.Abs(float64(pick)-center) {
					pick = note
				}
			}
			size[pick]++
		}
		for note := nNotes - 1; note >= 0; note-- {
			for g := 0; g < size[note]; g++ {
				plan.Retarget = append(plan.Retarget, note)
			}
		}
	}
	return plan
}

// mapRandom assigns notes by a uniform shuffle
func mapRandom(nCh, nNotes int, rng *rand.Rand) Plan {
	order := indices(nNotes)
	if rng != nil {
		rng.Shuffle(nNotes, func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	switch {
	case nCh < nNotes:
		return Plan{Retarget: order[:nCh], NewVoices: order[nCh:]}
	case nCh == nNotes:
		return Plan{Retarget: order}
	}
	plan := Plan{Retarget: make([]int, nCh)}
	for i := range plan.Retarget {
		plan.Retarget[i] = order[i%nNotes]
	}
	return plan
}
