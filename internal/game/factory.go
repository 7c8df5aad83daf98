package game

import (
	"fmt"
	"math/rand/v2"
)

// Factory chooses the kind of the next piece.
type Factory interface {
	NextKind() *Kind
}

// Factory names accepted by NewFactory.
const (
	FactoryBag    = "bag"
	FactoryRandom = "random"
	FactoryCycle  = "cycle"
)

// NewFactory builds the named selection policy over kinds.
// A zero seed draws a random one.
func NewFactory(name string, kinds []*Kind, seed uint64) (Factory, error) {
	if len(kinds) == 0 {
		return nil, fmt.Errorf("%w: factory needs at least one kind", ErrInvalidConfig)
	}
	for _, k := range kinds {
		if err := k.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	switch name {
	case FactoryBag, "":
		return NewBagFactory(kinds, rng), nil
	case FactoryRandom:
		return &RandomFactory{kinds: kinds, rng: rng}, nil
	case FactoryCycle:
		return NewCycleFactory(kinds...), nil
	}
	return nil, fmt.Errorf("%w: unknown factory %q", ErrInvalidConfig, name)
}

// BagFactory deals every kind once, in shuffled order, before refilling the bag.
type BagFactory struct {
	kinds []*Kind
	rng   *rand.Rand
	bag   []*Kind
}

// NewBagFactory returns a bag factory over kinds.
func NewBagFactory(kinds []*Kind, rng *rand.Rand) *BagFactory {
	return &BagFactory{kinds: kinds, rng: rng}
}

func (f *BagFactory) NextKind() *Kind {
	if len(f.bag) == 0 {
		f.bag = append(f.bag[:0], f.kinds...)
		f.rng.Shuffle(len(f.bag), func(i, j int) {
			f.bag[i], f.bag[j] = f.bag[j], f.bag[i]
		})
	}
	k := f.bag[0]
	f.bag = f.bag[1:]
	return k
}

// RandomFactory picks each kind uniformly and independently.
type RandomFactory struct {
	kinds []*Kind
	rng   *rand.Rand
}

func (f *RandomFactory) NextKind() *Kind {
	return f.kinds[f.rng.IntN(len(f.kinds))]
}

// CycleFactory deals kinds round robin. Useful for replays and tests.
type CycleFactory struct {
	kinds []*Kind
	next  int
}

// NewCycleFactory returns a round-robin factory over kinds.
func NewCycleFactory(kinds ...*Kind) *CycleFactory {
	return &CycleFactory{kinds: kinds}
}

func (f *CycleFactory) NextKind() *Kind {
	k := f.kinds[f.next%len(f.kinds)]
	f.next++
	return k
}
