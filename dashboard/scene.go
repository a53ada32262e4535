package dashboard

import (
	"fmt"
	"strings"
)

// Scene is one panel of the narrative dashboard.
type Scene int

const (
	Trend    Scene = iota // national offender trend
	Parallel              // state profiles, parallel coordinates
	Sankey                // weapon → sex → arrest flow
	Explore               // filterable per-state aggravated assault chart
)

// Scenes lists the scenes in narrative order.
var Scenes = []Scene{Trend, Parallel, Sankey, Explore}

var sceneNames = map[Scene]string{
	Trend:    "trend",
	Parallel: "parallel",
	Sankey:   "sankey",
	Explore:  "explore",
}

func (s Scene) String() string {
	if name, ok := sceneNames[s]; ok {
		return name
	}
	return fmt.Sprintf("scene(%d)", int(s))
}

// Valid reports whether s is a known scene.
func (s Scene) Valid() bool {
	return s >= Trend && s <= Explore
}

// ParseScene accepts a scene name or its 1-based position ("scene4", "4").
func ParseScene(name string) (Scene, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for s, sn := range sceneNames {
		if n == sn {
			return s, nil
		}
	}
	n = strings.TrimPrefix(n, "scene")
	for i, s := range Scenes {
		if n == fmt.Sprint(i+1) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown scene %q", name)
}
