package window

import "fmt"

// TrayEventKind distinguishes tray icon interactions.
type TrayEventKind int

const (
	TrayLeftClick TrayEventKind = iota
	TrayRightClick
	TrayDoubleClick
	TrayEnter
	TrayMove
	TrayLeave
)

var trayEventNames = map[TrayEventKind]string{
	TrayLeftClick:   "left_click",
	TrayRightClick:  "right_click",
	TrayDoubleClick: "double_click",
	TrayEnter:       "enter",
	TrayMove:        "move",
	TrayLeave:       "leave",
}

func (k TrayEventKind) String() string {
	if name, ok := trayEventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TrayEventKind(%d)", int(k))
}

// ParseTrayEventKind accepts the names produced by String.
func ParseTrayEventKind(s string) (TrayEventKind, error) {
	for kind, name := range trayEventNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown tray event %q", s)
}

// Position is a screen coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the tray icon's extent.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TrayEvent is a single interaction with the tray icon.
type TrayEvent struct {
	Kind     TrayEventKind `json:"kind"`
	Position Position      `json:"position"`
	Size     Size          `json:"size"`
}
