package model

import (
	"fmt"
	"strings"
)

// Dimension identifies a qualitative scoring dimension.
type Dimension int

// Scoring dimensions in display order.
const (
	Team Dimension = iota
	Product
	Market
	Traction
	Defensibility
)

// DimensionCount is the number of scoring dimensions.
const DimensionCount = 5

// Score bounds. NeutralScore leaves a dimension's multiplier at 1.0.
const (
	MinScore     = 1
	MaxScore     = 5
	NeutralScore = 3
)

var dimensionKeys = [DimensionCount]string{"team", "product", "market", "traction", "defensibility"}

var dimensionLabels = [DimensionCount]string{"Team", "Product / Tech", "Market / TAM", "Traction", "Defensibility"}

// Dimensions returns all dimensions in display order.
func Dimensions() []Dimension {
	return []Dimension{Team, Product, Market, Traction, Defensibility}
}

// String returns the dimension key.
func (d Dimension) String() string {
	if d < 0 || int(d) >= DimensionCount {
		return fmt.Sprintf("dimension(%d)", int(d))
	}
	return dimensionKeys[d]
}

// Label returns the human-readable dimension name.
func (d Dimension) Label() string {
	if d < 0 || int(d) >= DimensionCount {
		return d.String()
	}
	return dimensionLabels[d]
}

// MarshalText implements encoding.TextMarshaler.
func (d Dimension) MarshalText() ([]byte, error) {
	if d < 0 || int(d) >= DimensionCount {
		return nil, fmt.Errorf("invalid dimension %d", int(d))
	}
	return []byte(dimensionKeys[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dimension) UnmarshalText(b []byte) error {
	parsed, err := ParseDimension(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDimension resolves a dimension key, case-insensitively.
func ParseDimension(s string) (Dimension, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, k := range dimensionKeys {
		if k == key {
			return Dimension(i), nil
		}
	}
	return 0, fmt.Errorf("unknown dimension %q (available: %s)", s, strings.Join(dimensionKeys[:], ", "))
}

// QualityScores holds one 1-5 score per dimension.
type QualityScores struct {
	Team          int `json:"team" yaml:"team" toml:"team"`
	Product       int `json:"product" yaml:"product" toml:"product"`
	Market        int `json:"market" yaml:"market" toml:"market"`
	Traction      int `json:"traction" yaml:"traction" toml:"traction"`
	Defensibility int `json:"defensibility" yaml:"defensibility" toml:"defensibility"`
}

// NeutralScores returns scores of 3 on every dimension.
func NeutralScores() QualityScores {
	return QualityScores{
		Team:          NeutralScore,
		Product:       NeutralScore,
		Market:        NeutralScore,
		Traction:      NeutralScore,
		Defensibility: NeutralScore,
	}
}

// Get returns the score for a dimension.
func (s QualityScores) Get(d Dimension) int {
	switch d {
	case Team:
		return s.Team
	case Product:
		return s.Product
	case Market:
		return s.Market
	case Traction:
		return s.Traction
	case Defensibility:
		return s.Defensibility
	default:
		return 0
	}
}

// Set assigns the score for a dimension.
func (s *QualityScores) Set(d Dimension, score int) {
	switch d {
	case Team:
		s.Team = score
	case Product:
		s.Product = score
	case Market:
		s.Market = score
	case Traction:
		s.Traction = score
	case Defensibility:
		s.Defensibility = score
	}
}
