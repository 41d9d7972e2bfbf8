package glcaps

import (
	"fmt"
	"strings"
)

// String returns a human-readable summary of the context's detected state.
func (c *Context) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Renderer: %s by %s\n", c.renderer, c.vendor)
	fmt.Fprintf(&b, "Version: %s (%s)\n", c.version, c.versionString)
	fmt.Fprintf(&b, "GLSL: %s\n", c.glslString)
	fmt.Fprintf(&b, "Driver: %s\n", c.driverKind)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Extensions reported: %d\n", len(c.extensionStrings))
	if optional := c.optionalFeatureNames(); len(optional) > 0 {
		b.WriteString("Optional features in use:\n")
		for _, name := range optional {
			fmt.Fprintf(&b, "    %s\n", name)
		}
	}
	if disabled := c.disabledExtensionNames(); len(disabled) > 0 {
		b.WriteString("Disabled extensions:\n")
		for _, name := range disabled {
			fmt.Fprintf(&b, "    %s\n", name)
		}
	}

	if len(c.appliedWorkarounds) > 0 {
		b.WriteString("Driver workarounds:\n")
		for _, name := range c.appliedWorkarounds {
			fmt.Fprintf(&b, "    %s\n", name)
		}
	} else {
		b.WriteString("Driver workarounds: none\n")
	}

	return b.String()
}
