// ABOUTME: Control events, how each one updates the config, and which ones start a render cycle.
// ABOUTME: Refresh policy: update, plane, and view always refresh; liminal radius only in the z plane.
package orchestrator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/2389-research/tauplane/plane"
)

// EventKind names the control that changed.
type EventKind string

const (
	EventUpdate         EventKind = "update"
	EventPlane          EventKind = "plane"
	EventView           EventKind = "view"
	EventLiminalRadius  EventKind = "liminal_radius"
	EventRange          EventKind = "range"
	EventResolution     EventKind = "points"
	EventZeroCount      EventKind = "num_zeros"
	EventLineExtent     EventKind = "t_max_crit"
	EventFunctionInput  EventKind = "function_input"
	EventFunctionSelect EventKind = "function_select"
)

// CustomSelection is the function selector value meaning "use the typed expression".
const CustomSelection = "custom"

// Event is one control change. Value is the control's new value as text.
type Event struct {
	Kind  EventKind `json:"kind"`
	Value string    `json:"value,omitempty"`
}

// Apply returns cfg with ev applied. It never starts a cycle.
func Apply(cfg plane.ConfigState, ev Event) (plane.ConfigState, error) {
	switch ev.Kind {
	case EventUpdate:
	case EventPlane:
		m, err := plane.ParsePlaneMode(ev.Value)
		if err != nil {
			return cfg, err
		}
		cfg.Plane = m
	case EventView:
		v, err := plane.ParseViewKind(ev.Value)
		if err != nil {
			return cfg, err
		}
		cfg.View = v
	case EventLiminalRadius:
		f, err := parsePositive(ev)
		if err != nil {
			return cfg, err
		}
		cfg.LiminalRadius = f
	case EventRange:
		f, err := parsePositive(ev)
		if err != nil {
			return cfg, err
		}
		cfg.Range = f
	case EventResolution:
		n, err := parseInt(ev, 2)
		if err != nil {
			return cfg, err
		}
		cfg.Points = n
	case EventZeroCount:
		n, err := parseInt(ev, 0)
		if err != nil {
			return cfg, err
		}
		cfg.NumZeros = n
	case EventLineExtent:
		n, err := parseInt(ev, 1)
		if err != nil {
			return cfg, err
		}
		cfg.CriticalLineExtent = n
	case EventFunctionInput:
		cfg.FunctionText = ev.Value
	case EventFunctionSelect:
		switch sel := strings.TrimSpace(ev.Value); sel {
		case "":
			return cfg, fmt.Errorf("%s: empty selection", ev.Kind)
		case CustomSelection:
			cfg.FunctionSource = plane.SourceCustom
		case plane.ZetaIdentifier:
			cfg.FunctionSource = plane.SourceZeta
			cfg.FunctionText = plane.ZetaIdentifier
		default:
			cfg.FunctionSource = plane.SourcePreset
			cfg.FunctionText = sel
		}
	default:
		return cfg, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return cfg, nil
}

// ShouldRefresh reports whether ev starts a cycle given the config after the event.
func ShouldRefresh(ev Event, cfg plane.ConfigState) bool {
	switch ev.Kind {
	case EventUpdate, EventPlane, EventView:
		return true
	case EventLiminalRadius:
		return cfg.Plane == plane.PlaneZ
	default:
		return false
	}
}

func parsePositive(ev Event) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(ev.Value), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ev.Kind, err)
	}
	if !(f > 0) {
		return 0, fmt.Errorf("%s: must be positive, got %v", ev.Kind, ev.Value)
	}
	return f, nil
}

func parseInt(ev Event, minimum int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(ev.Value))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ev.Kind, err)
	}
	if n < minimum {
		return 0, fmt.Errorf("%s: must be at least %d, got %d", ev.Kind, minimum, n)
	}
	return n, nil
}
