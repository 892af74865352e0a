package app

import (
	"math/rand"
	"time"

	"scale-trainer/internal/domain"
)

// Generator draws questions. It is not safe for concurrent use; each Trainer owns one.
type Generator struct {
	rnd    *rand.Rand
	scales *WeightedIndex
	steps  *WeightedIndex
}

// NewGenerator seeds from the wall clock when seed is 0.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		rnd:    rand.New(rand.NewSource(seed)),
		scales: MustWeightedIndex(domain.ScaleWeights[:]),
		steps:  MustWeightedIndex(domain.StepWeights[:]),
	}
}

// Generate picks a weighted scale and step, then mixes the answer with three random notes.
func (g *Generator) Generate() domain.Question {
	scale := domain.Scales[g.scales.Sample(g.rnd)]
	step := domain.AllScaleSteps[g.steps.Sample(g.rnd)]
	answer := scale.At(step)
	return domain.Question{
		Key:     scale.Key(),
		Scale:   scale,
		Step:    step,
		Options: g.options(answer),
		Answer:  answer,
	}
}

// options may repeat a distractor, or even the answer's spelling, by chance.
func (g *Generator) options(answer domain.Note) [4]domain.Note {
	var out [4]domain.Note
	out[0] = answer
	for i := 1; i < len(out); i++ {
		out[i] = domain.AllNotes[g.rnd.Intn(len(domain.AllNotes))]
	}
	g.rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
