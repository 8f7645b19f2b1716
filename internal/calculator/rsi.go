package calculator

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultRSIPeriod is the lookback used for every RSI in a scan.
const DefaultRSIPeriod = 14

// ErrInsufficientData is returned when a series has fewer than period+1 closes.
var ErrInsufficientData = errors.New("insufficient price history for RSI")

// Mode selects how average gains and losses are smoothed.
type Mode string

const (
	// ModeWilder uses an exponential average with alpha = 1/period, seeded
	// with the first observation and without bias adjustment.
	ModeWilder Mode = "wilder"
	// ModeSimple uses the arithmetic mean of the last period changes.
	ModeSimple Mode = "simple"
)

// ParseMode maps a config value to a Mode. Empty means ModeWilder.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeWilder:
		return ModeWilder, nil
	case ModeSimple:
		return ModeSimple, nil
	default:
		return "", fmt.Errorf("unknown rsi mode %q", s)
	}
}

// CalculateRSI returns the latest RSI reading of closes over the given period.
func CalculateRSI(closes []float64, period int, mode Mode) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return 0, ErrInsufficientData
	}

	gains, losses := splitChanges(closes)

	var avgGain, avgLoss float64
	switch mode {
	case ModeWilder, "":
		avgGain = wilderAverage(gains, period)
		avgLoss = wilderAverage(losses, period)
	case ModeSimple:
		var err error
		if avgGain, err = CalculateSMA(gains, period); err != nil {
			return 0, err
		}
		if avgLoss, err = CalculateSMA(losses, period); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("unknown rsi mode %q", mode)
	}

	return rsiFromAverages(avgGain, avgLoss), nil
}

// splitChanges turns closes into per-day gains and losses, both non-negative.
func splitChanges(closes []float64) (gains, losses []float64) {
	gains = make([]float64, len(closes)-1)
	losses = make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}
	return gains, losses
}

func wilderAverage(values []float64, period int) float64 {
	alpha := 1.0 / float64(period)
	avg := values[0]
	for _, v := range values[1:] {
		avg = (1-alpha)*avg + alpha*v
	}
	return avg
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	// No losses in the window: RS is unbounded and RSI saturates.
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	rsi := 100.0 - 100.0/(1.0+rs)
	if rsi < 0 {
		return 0
	}
	if rsi > 100 {
		return 100
	}
	return rsi
}
