package models

import "fmt"

// View is the screen the presentation layer should show
type View string

const (
	ViewWelcome  View = "welcome"
	ViewExplorer View = "explorer"
	ViewReader   View = "reader"
	ViewParent   View = "parent"
	ViewCreating View = "creating"
	ViewGlobe    View = "globe"
)

// ParseView validates a view name
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewWelcome, ViewExplorer, ViewReader, ViewParent, ViewCreating, ViewGlobe:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}
