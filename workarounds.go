package glcaps

import "strings"

// DriverKind classifies the driver behind a context, derived from the
// vendor, renderer and version strings. Workaround predicates match on it.
type DriverKind int

const (
	DriverUnknown DriverKind = iota
	DriverMesa
	DriverNVidia
	DriverIntel
	DriverAMD
	DriverSwiftShader
)

var driverKindNames = map[DriverKind]string{
	DriverUnknown:     "unknown",
	DriverMesa:        "Mesa",
	DriverNVidia:      "NVidia",
	DriverIntel:       "Intel",
	DriverAMD:         "AMD",
	DriverSwiftShader: "SwiftShader",
}

func (k DriverKind) String() string {
	if name, ok := driverKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// detectDriverKind classifies a driver from its identity strings. SwiftShader
// and Mesa are checked first since their renderer strings often name the
// hardware vendor they emulate or drive.
func detectDriverKind(vendor, renderer, version string) DriverKind {
	identity := strings.ToLower(vendor + " " + renderer + " " + version)
	switch {
	case strings.Contains(identity, "swiftshader"):
		return DriverSwiftShader
	case strings.Contains(identity, "mesa"):
		return DriverMesa
	case strings.Contains(identity, "nvidia"):
		return DriverNVidia
	case strings.Contains(identity, "intel"):
		return DriverIntel
	case strings.Contains(identity, "amd"), strings.Contains(identity, "ati technologies"), strings.Contains(identity, "radeon"):
		return DriverAMD
	}
	return DriverUnknown
}

// driverWorkaround is one entry of the static mitigation table. An entry is
// active on a context when its predicate matches and the detected version
// falls inside [min, max]; min or max of VersionNone means unbounded on that
// side. The apply func may only raise extension disable bounds, never relax
// restrictions the caller configured.
type driverWorkaround struct {
	name     string
	matches  func(c *Context) bool
	min, max Version
	apply    func(c *Context)
}

var driverWorkarounds = []driverWorkaround{
	{
		// Old GLSL compilers choke on layout qualifiers even when the
		// corresponding extensions are advertised. Contexts below GL 3.2
		// treat them as unusable.
		name:    "no-layout-qualifiers-on-old-glsl",
		matches: func(c *Context) bool { return !c.version.IsES() },
		apply: func(c *Context) {
			c.raiseExtensionDisableBound(ExtARBExplicitAttribLocation, GL320)
			c.raiseExtensionDisableBound(ExtARBExplicitUniformLocation, GL320)
			c.raiseExtensionDisableBound(ExtARBShadingLanguage420Pack, GL320)
		},
	},
	{
		// The NV binary driver reports a zero CONTEXT_PROFILE_MASK on
		// compatibility contexts. Log-only, consumers fall back to the
		// version-based profile guess.
		name:    "nv-zero-context-profile-mask",
		matches: func(c *Context) bool { return c.driverKind == DriverNVidia && !c.version.IsES() },
	},
	{
		// Mesa's DSA glTextureSubImage on framebuffer-attached textures
		// misses the attachment dirty flag.
		name:    "mesa-framebuffer-texture-dsa-broken",
		matches: func(c *Context) bool { return c.driverKind == DriverMesa && !c.version.IsES() },
		apply: func(c *Context) {
			c.raiseExtensionDisableBound(ExtARBDirectStateAccess, versionDisabledAlways)
		},
	},
	{
		// Intel Windows drivers miscompile separable programs with
		// redeclared gl_PerVertex blocks.
		name:    "intel-broken-separate-shader-objects",
		matches: func(c *Context) bool { return c.driverKind == DriverIntel && !c.version.IsES() },
		apply: func(c *Context) {
			c.raiseExtensionDisableBound(ExtARBSeparateShaderObjects, versionDisabledAlways)
		},
	},
	{
		// SwiftShader advertises OES_texture_float but sampling from float
		// textures returns garbage.
		name:    "swiftshader-no-oes-texture-float",
		matches: func(c *Context) bool { return c.driverKind == DriverSwiftShader && c.version.IsES() },
		apply: func(c *Context) {
			c.raiseExtensionDisableBound(ExtOESTextureFloat, versionDisabledAlways)
		},
	},
	{
		// Persistent-mapped ARB_buffer_storage buffers are pathologically
		// slow on pre-4.4 AMD drivers. Log-only, consumers pick a different
		// streaming strategy.
		name:    "amd-slow-persistent-buffer-mapping",
		matches: func(c *Context) bool { return c.driverKind == DriverAMD },
		min:     GL400,
		max:     GL430,
	},
}

// DriverWorkaroundNames returns the names of all known workarounds, in table
// order.
func DriverWorkaroundNames() []string {
	out := make([]string, 0, len(driverWorkarounds))
	for _, w := range driverWorkarounds {
		out = append(out, w.name)
	}
	return out
}

func isKnownWorkaround(name string) bool {
	for _, w := range driverWorkarounds {
		if w.name == name {
			return true
		}
	}
	return false
}

func (w *driverWorkaround) inRange(v Version) bool {
	if w.min != VersionNone && v < w.min {
		return false
	}
	if w.max != VersionNone && v > w.max {
		return false
	}
	return true
}

// applyDriverWorkarounds walks the table once at context creation. Entries
// whose name appears in the configured disable list are recorded as skipped
// and never applied, even when their trigger condition matches.
func (c *Context) applyDriverWorkarounds(disabled []string) {
	for _, w := range driverWorkarounds {
		if containsString(disabled, w.name) {
			c.skippedWorkarounds = append(c.skippedWorkarounds, w.name)
			continue
		}
		if !w.inRange(c.version) || (w.matches != nil && !w.matches(c)) {
			continue
		}
		c.appliedWorkarounds = append(c.appliedWorkarounds, w.name)
		if w.apply != nil {
			w.apply(c)
		}
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
