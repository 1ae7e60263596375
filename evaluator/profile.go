package evaluator

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/play2048/play2048/cache"
)

const (
	HeuristicMonotonicity = "monotonicity"
	HeuristicEmpty        = "empty"
	HeuristicAlignment    = "alignment"
)

var ErrEmptyProfile = errors.New("evaluator profile has no terms")

// Term is one weighted heuristic of a Profile.
type Term struct {
	Heuristic       string  `yaml:"heuristic"`
	Weight          float64 `yaml:"weight"`
	Power           float64 `yaml:"power"`
	GameoverPenalty float64 `yaml:"gameover_penalty,omitempty"`
}

// Profile describes a CombinedEvaluator in a form that can be kept in a
// YAML file.
type Profile struct {
	Name  string `yaml:"name"`
	Terms []Term `yaml:"terms"`
}

// DefaultProfile is monotonicity, empty cells and alignment, each squared
// and weighted equally, with the game-over penalty carried by monotonicity.
func DefaultProfile() *Profile {
	return &Profile{
		Name: "default",
		Terms: []Term{
			{Heuristic: HeuristicMonotonicity, Weight: 1, Power: 2, GameoverPenalty: -300},
			{Heuristic: HeuristicEmpty, Weight: 1, Power: 2},
			{Heuristic: HeuristicAlignment, Weight: 1, Power: 2},
		},
	}
}

func ParseProfile(data []byte) (*Profile, error) {
	p := &Profile{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing evaluator profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Str("path", path).Str("name", p.Name).Int("terms", len(p.Terms)).Msg("loaded-profile")
	return p, nil
}

func (p *Profile) Validate() error {
	if len(p.Terms) == 0 {
		return ErrEmptyProfile
	}
	for i, t := range p.Terms {
		if _, err := t.rowEvaluator(); err != nil {
			return fmt.Errorf("term %d: %w", i, err)
		}
		if t.Weight == 0 {
			return fmt.Errorf("term %d (%s): weight must be non-zero", i, t.Heuristic)
		}
		if t.Power <= 0 {
			return fmt.Errorf("term %d (%s): power must be positive", i, t.Heuristic)
		}
	}
	return nil
}

func (t Term) rowEvaluator() (RowEvaluator, error) {
	switch t.Heuristic {
	case HeuristicMonotonicity:
		return &MonotonicityEvaluator{Power: t.Power, Penalty: t.GameoverPenalty}, nil
	case HeuristicEmpty:
		return &EmptyTileEvaluator{Power: t.Power, Penalty: t.GameoverPenalty}, nil
	case HeuristicAlignment:
		return &AlignmentEvaluator{Power: t.Power, Penalty: t.GameoverPenalty}, nil
	}
	return nil, fmt.Errorf("unknown heuristic %q", t.Heuristic)
}

// Build returns the CombinedEvaluator the profile describes.
func (p *Profile) Build() (*CombinedEvaluator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	c := NewCombinedEvaluator()
	for _, t := range p.Terms {
		e, _ := t.rowEvaluator()
		c.Add(e, t.Weight)
	}
	return c, nil
}

// CacheKey identifies the evaluation function of p. Profiles that differ
// only in name share a key.
func (p *Profile) CacheKey() string {
	data, err := yaml.Marshal(p.Terms)
	if err != nil {
		// Terms are plain values; marshaling cannot fail.
		panic(err)
	}
	return "precomputed:" + strconv.FormatUint(xxhash.Sum64(data), 16)
}

// Precomputed returns the precomputed form of p, building it at most once
// per process.
func Precomputed(p *Profile) (*PrecomputedEvaluator, error) {
	obj, err := cache.Load(p.CacheKey(), func(key string) (any, error) {
		c, err := p.Build()
		if err != nil {
			return nil, err
		}
		log.Info().Str("key", key).Str("profile", p.Name).Msg("precomputing-evaluator")
		return NewPrecomputedEvaluator(c), nil
	})
	if err != nil {
		return nil, err
	}
	return obj.(*PrecomputedEvaluator), nil
}
