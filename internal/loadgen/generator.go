package loadgen

import (
	"github.com/brianvoe/gofakeit/v6"
)

// departments mirror the teams that typically enter the time trial.
var departments = []string{
	"Engineering", "Product", "Design", "Marketing", "Sales",
	"Support", "Operations", "Finance", "People", "Legal",
}

// Completion-time bands in seconds. Weights skew toward mid-field runs
// with a thin tail of over-budget finishers that score zero.
const (
	fastMin, fastMax       = 5.0, 60.0
	averageMin, averageMax = 60.0, 300.0
	slowMin, slowMax       = 300.0, 600.0
	overMin, overMax       = 600.0, 900.0
)

// Band weights out of 100; the remainder lands over budget.
const (
	fastWeight    = 20
	averageWeight = 50
	slowWeight    = 25
)

// generator synthesizes submissions from a seeded faker, so a run is
// reproducible given the same seed. Not safe for concurrent use; generate
// everything up front, then fan out.
type generator struct {
	faker *gofakeit.Faker
}

func newGenerator(seed uint64) *generator {
	return &generator{faker: gofakeit.New(int64(seed))}
}

// Player produces one synthetic submission.
func (g *generator) Player() submission {
	return submission{
		Name:       g.faker.Name(),
		Department: departments[g.faker.Number(0, len(departments)-1)],
		Email:      g.faker.Email(),
		TimeTaken:  g.timeTaken(),
	}
}

// Players produces n synthetic submissions.
func (g *generator) Players(n int) []submission {
	players := make([]submission, n)
	for i := range players {
		players[i] = g.Player()
	}
	return players
}

func (g *generator) timeTaken() float64 {
	roll := g.faker.Number(1, 100)
	switch {
	case roll <= fastWeight:
		return g.faker.Float64Range(fastMin, fastMax)
	case roll <= fastWeight+averageWeight:
		return g.faker.Float64Range(averageMin, averageMax)
	case roll <= fastWeight+averageWeight+slowWeight:
		return g.faker.Float64Range(slowMin, slowMax)
	default:
		return g.faker.Float64Range(overMin, overMax)
	}
}
