package timeline

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownEase is returned for an easing name that is not registered.
var ErrUnknownEase = errors.New("unknown ease")

// DefaultEase is used when neither a target nor its group names one.
const DefaultEase = "power2.inOut"

// Ease maps linear progress in [0, 1] to eased progress. Every ease returns
// 0 at 0 and 1 at 1.
type Ease func(p float64) float64

// Linear leaves progress unchanged.
func Linear(p float64) float64 { return p }

// powerIn builds the power-n ease-in curve, p^(n+1).
func powerIn(n int) Ease {
	e := float64(n + 1)
	return func(p float64) float64 { return math.Pow(p, e) }
}

// powerOut mirrors powerIn.
func powerOut(n int) Ease {
	in := powerIn(n)
	return func(p float64) float64 { return 1 - in(1-p) }
}

// powerInOut runs powerIn over the first half and powerOut over the second.
func powerInOut(n int) Ease {
	in := powerIn(n)
	return func(p float64) float64 {
		if p < 0.5 {
			return in(p*2) / 2
		}
		return 1 - in((1-p)*2)/2
	}
}

var eases = map[string]Ease{
	"linear":     Linear,
	"none":       Linear,
	"sine.in":    func(p float64) float64 { return 1 - math.Cos(p*math.Pi/2) },
	"sine.out":   func(p float64) float64 { return math.Sin(p * math.Pi / 2) },
	"sine.inOut": func(p float64) float64 { return -(math.Cos(math.Pi*p) - 1) / 2 },
}

func init() {
	for n := 1; n <= 4; n++ {
		name := fmt.Sprintf("power%d", n)
		eases[name+".in"] = powerIn(n)
		eases[name+".out"] = powerOut(n)
		eases[name+".inOut"] = powerInOut(n)
		// A bare power name means .out.
		eases[name] = powerOut(n)
	}
	eases["power0"] = Linear
}

// EaseByName looks up an ease. Names are case-insensitive in their
// direction suffix; an empty name resolves to DefaultEase.
func EaseByName(name string) (Ease, error) {
	if name == "" {
		name = DefaultEase
	}
	if e, ok := eases[name]; ok {
		return e, nil
	}
	base, dir, ok := strings.Cut(name, ".")
	if ok {
		for _, d := range []string{"in", "out", "inOut"} {
			if strings.EqualFold(dir, d) {
				if e, ok := eases[base+"."+d]; ok {
					return e, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
}
