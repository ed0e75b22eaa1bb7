package voting

import (
	"context"
	"errors"
	"sync"

	"github.com/Mamajin/ku-polls/models"
)

type memKey struct {
	question, generation int64
}

// MemTallyCache is an in-process TallyCache for tests
type MemTallyCache struct {
	mu      sync.Mutex
	gens    map[int64]int64
	entries map[memKey][]models.ChoiceTally
	bumped  []int64

	FailGet bool
}

func NewMemTallyCache() *MemTallyCache {
	return &MemTallyCache{
		gens:    map[int64]int64{},
		entries: map[memKey][]models.ChoiceTally{},
	}
}

func (c *MemTallyCache) Generation(_ context.Context, questionID int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[questionID], nil
}

func (c *MemTallyCache) Get(_ context.Context, questionID, generation int64) ([]models.ChoiceTally, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailGet {
		return nil, false, errors.New("cache down")
	}
	t, ok := c.entries[memKey{questionID, generation}]
	return t, ok, nil
}

func (c *MemTallyCache) Set(_ context.Context, questionID, generation int64, tally []models.ChoiceTally) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[memKey{questionID, generation}] = tally
	return nil
}

func (c *MemTallyCache) Bump(_ context.Context, questionID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[questionID]++
	c.bumped = append(c.bumped, questionID)
	return nil
}

// Current returns the entry visible at the question's current generation
func (c *MemTallyCache) Current(questionID int64) ([]models.ChoiceTally, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.entries[memKey{questionID, c.gens[questionID]}]
	return t, ok
}

// Bumped lists the questions bumped so far, in order
func (c *MemTallyCache) Bumped() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int64(nil), c.bumped...)
}
