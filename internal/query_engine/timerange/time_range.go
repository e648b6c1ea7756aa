package timerange

import (
	"errors"
	"fmt"
	"time"
)

// CustomLayout is the wall-clock layout accepted for custom range bounds,
// interpreted in the caller's local time zone at minute precision.
const CustomLayout = "2006-01-02T15:04"

var (
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvertedRange    = errors.New("range start is after range end")
)

type Mode int

const (
	ModeRelative Mode = iota
	ModeAllTime
	ModeCustom
)

// Window is one of the fixed relative lookback windows.
type Window int

const (
	Window1h Window = iota
	Window6h
	Window24h
)

var windowDurations = map[Window]time.Duration{
	Window1h:  time.Hour,
	Window6h:  6 * time.Hour,
	Window24h: 24 * time.Hour,
}

// Selector describes how the time window of a request should be derived.
type Selector struct {
	Mode       Mode
	Window     Window
	StartLocal string
	EndLocal   string
}

func Relative(w Window) Selector {
	return Selector{Mode: ModeRelative, Window: w}
}

func AllTime() Selector {
	return Selector{Mode: ModeAllTime}
}

func Custom(startLocal string, endLocal string) Selector {
	return Selector{Mode: ModeCustom, StartLocal: startLocal, EndLocal: endLocal}
}

// Range is a concrete epoch-millisecond window with StartMs <= EndMs.
type Range struct {
	StartMs int64
	EndMs   int64
}

// Resolve maps a selector to a concrete epoch range. The reference instant is
// injected so the function is deterministic and never reads the system clock.
func Resolve(selector Selector, now time.Time) (Range, error) {
	switch selector.Mode {
	case ModeRelative:
		duration, ok := windowDurations[selector.Window]
		if !ok {
			return Range{}, fmt.Errorf("unknown relative window %d", selector.Window)
		}
		return Range{
			StartMs: now.Add(-duration).UnixMilli(),
			EndMs:   now.UnixMilli(),
		}, nil
	case ModeAllTime:
		return Range{StartMs: 0, EndMs: now.UnixMilli()}, nil
	case ModeCustom:
		start, err := time.ParseInLocation(CustomLayout, selector.StartLocal, time.Local)
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, selector.StartLocal)
		}
		end, err := time.ParseInLocation(CustomLayout, selector.EndLocal, time.Local)
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, selector.EndLocal)
		}
		if start.After(end) {
			return Range{}, fmt.Errorf(
				"%w: %s > %s", ErrInvertedRange, selector.StartLocal, selector.EndLocal,
			)
		}
		return Range{StartMs: start.UnixMilli(), EndMs: end.UnixMilli()}, nil
	default:
		return Range{}, fmt.Errorf("unknown selector mode %d", selector.Mode)
	}
}
