package glcaps

import (
	"fmt"
	"io"
)

// Context is the live runtime object wrapping one graphics driver. All
// mutable state is written exactly once during construction on the
// constructing thread and is read-only afterwards; publishing the pointer to
// another thread (e.g. via [Registry.MakeCurrent]) is the required hand-off
// before concurrent reads.
type Context struct {
	version    Version
	driverKind DriverKind

	vendor        string
	renderer      string
	versionString string
	glslString    string

	// extensionStrings preserves the driver's reporting order; reported is
	// the same content as a set. With indexed reporting each string is
	// independently allocated, with blob reporting all strings are views
	// into one shared buffer. Both stay valid for the context's lifetime.
	extensionStrings        []string
	indexedExtensionStrings bool
	reported                map[string]struct{}

	// disabledUntil maps an extension to the version at which its disable
	// stops applying. Configuration disables use versionDisabledAlways,
	// workarounds may install finite bounds. Bounds only ever rise.
	disabledUntil map[Extension]Version

	appliedWorkarounds []string
	skippedWorkarounds []string
	verbosity          LogVerbosity
}

// NewContext constructs a Context from a live driver handle and the merged
// configuration, applies matching driver workarounds, emits the diagnostic
// block (unless quiet) and installs the result as the calling thread's
// current context.
//
// Constructing while another context is already current on the calling
// thread is a programmer error and panics; release the previous one with
// MakeCurrent(nil) first.
func NewContext(d Driver, cfg Configuration) (*Context, error) {
	eff := resolveConfiguration(cfg)

	version, err := detectVersion(d.VersionString())
	if err != nil {
		return nil, err
	}

	c := &Context{
		version:       version,
		vendor:        d.VendorString(),
		renderer:      d.RendererString(),
		versionString: d.VersionString(),
		glslString:    d.ShadingLanguageVersionString(),
		disabledUntil: make(map[Extension]Version),
		verbosity:     eff.verbosity,
	}
	c.driverKind = detectDriverKind(c.vendor, c.renderer, c.versionString)

	c.extensionStrings, c.indexedExtensionStrings = queryExtensionStrings(d)
	c.reported = make(map[string]struct{}, len(c.extensionStrings))
	for _, name := range c.extensionStrings {
		c.reported[name] = struct{}{}
	}

	// Explicit configuration disables come first and are never relaxed by a
	// workaround.
	warnings := eff.warnings
	for _, name := range eff.disabledExtensionNames {
		e, ok := ExtensionByName(name)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("Ignoring unknown extension in disable list: %s", name))
			continue
		}
		c.disabledUntil[e] = versionDisabledAlways
	}
	for _, name := range eff.disabledWorkarounds {
		if !isKnownWorkaround(name) {
			warnings = append(warnings, fmt.Sprintf("Ignoring unknown workaround in disable list: %s", name))
		}
	}

	c.applyDriverWorkarounds(eff.disabledWorkarounds)

	if eff.verbosity != LogQuiet {
		c.logStartup(eff.sink, warnings)
	}

	if currentContexts.HasCurrent() {
		panic("glcaps: a context is already current on this thread, release it with MakeCurrent(nil) before constructing a new one")
	}
	currentContexts.MakeCurrent(c)
	return c, nil
}

// Close releases the context from the calling thread's current slot if it is
// installed there. Queries on the context itself stay valid, only the
// registry occupancy changes.
func (c *Context) Close() {
	if currentContexts.HasCurrent() && currentContexts.Current() == c {
		currentContexts.MakeCurrent(nil)
	}
}

// raiseExtensionDisableBound records that e is unusable below the given
// version. An existing equal or higher bound is kept, so workarounds can
// never relax a configuration disable.
func (c *Context) raiseExtensionDisableBound(e Extension, until Version) {
	if cur, ok := c.disabledUntil[e]; ok && cur >= until {
		return
	}
	c.disabledUntil[e] = until
}

// Version returns the detected generation.
func (c *Context) Version() Version { return c.version }

// DriverKind returns the classified driver identity.
func (c *Context) DriverKind() DriverKind { return c.driverKind }

// VendorString returns the raw vendor string as reported by the driver. May
// be empty on a misbehaving driver.
func (c *Context) VendorString() string { return c.vendor }

// RendererString returns the raw renderer string as reported by the driver.
func (c *Context) RendererString() string { return c.renderer }

// VersionString returns the raw version string as reported by the driver.
func (c *Context) VersionString() string { return c.versionString }

// ShadingLanguageVersionString returns the raw shading language version
// string as reported by the driver.
func (c *Context) ShadingLanguageVersionString() string { return c.glslString }

// ExtensionStrings returns the extension names exactly as the driver
// reported them, duplicates included, in reporting order.
func (c *Context) ExtensionStrings() []string {
	return append([]string(nil), c.extensionStrings...)
}

// ExtensionStringsIndexed reports whether the driver supplied extensions via
// the per-index query. When false, the names are views into one shared blob,
// the reporting style of drivers below GL 3.0 / GLES 3.0.
func (c *Context) ExtensionStringsIndexed() bool { return c.indexedExtensionStrings }

// AppliedWorkarounds returns the names of driver workarounds active on this
// context, in table order.
func (c *Context) AppliedWorkarounds() []string {
	return append([]string(nil), c.appliedWorkarounds...)
}

// IsDriverWorkaroundDisabled reports whether the given workaround was turned
// off by configuration.
func (c *Context) IsDriverWorkaroundDisabled(name string) bool {
	return containsString(c.skippedWorkarounds, name)
}

// IsVersionSupported reports whether the detected generation is at least v.
// On a desktop context an ES generation is supported when the desktop
// generation guaranteeing it is reached, or for GLES200 when
// ARB_ES2_compatibility is supported. A desktop generation is never
// supported on an ES context.
func (c *Context) IsVersionSupported(v Version) bool {
	if c.version.IsES() {
		if v == VersionNone {
			return true
		}
		if !v.IsES() {
			return false
		}
		return c.version >= v
	}
	if v.IsES() {
		if v == GLES200 && c.IsExtensionSupported(ExtARBES2Compatibility) {
			return true
		}
		mapped, ok := esDesktopEquivalent[v]
		if !ok {
			return false
		}
		v = mapped
	}
	return c.version >= v
}

// SupportedVersion returns the first candidate, in caller-supplied order,
// that [Context.IsVersionSupported] accepts, not the highest one. Returns
// [VersionNone] when no candidate is supported.
func (c *Context) SupportedVersion(candidates ...Version) Version {
	for _, v := range candidates {
		if c.IsVersionSupported(v) {
			return v
		}
	}
	return VersionNone
}

// IsExtensionSupported reports whether e is usable on this context: core at
// the detected generation, or advertised by the driver and not disabled.
func (c *Context) IsExtensionSupported(e Extension) bool {
	return c.IsExtensionSupportedAt(e, c.version)
}

// IsExtensionSupportedAt answers [Context.IsExtensionSupported] as if the
// context were at the given generation. Useful to check behavior around
// workaround-driven version bounds.
func (c *Context) IsExtensionSupportedAt(e Extension, floor Version) bool {
	if bound, ok := c.disabledUntil[e]; ok && floor < bound {
		return false
	}
	if core := e.Core(); core != VersionNone && core.IsES() == floor.IsES() && floor >= core {
		return true
	}
	_, ok := c.reported[e.String()]
	return ok
}

// IsExtensionDisabled reports whether e would be supported on this context
// but is suppressed by configuration or a driver workaround. An extension
// the driver never advertised and that isn't core is unsupported, not
// disabled.
func (c *Context) IsExtensionDisabled(e Extension) bool {
	return c.IsExtensionDisabledAt(e, c.version)
}

// IsExtensionDisabledAt answers [Context.IsExtensionDisabled] as if the
// context were at the given generation.
func (c *Context) IsExtensionDisabledAt(e Extension, floor Version) bool {
	bound, ok := c.disabledUntil[e]
	if !ok || floor >= bound {
		return false
	}
	if core := e.Core(); core != VersionNone && core.IsES() == floor.IsES() && floor >= core {
		return true
	}
	_, reported := c.reported[e.String()]
	return reported
}

// disabledExtensionNames returns the catalog names whose disable bound is
// still in effect at the detected generation, in index order.
func (c *Context) disabledExtensionNames() []string {
	var out []string
	for e := Extension(0); e < extensionCount; e++ {
		if bound, ok := c.disabledUntil[e]; ok && c.version < bound {
			out = append(out, e.String())
		}
	}
	return out
}

// optionalFeatureNames returns reported, enabled extensions that aren't yet
// core at the detected generation, in index order.
func (c *Context) optionalFeatureNames() []string {
	var out []string
	for e := Extension(0); e < extensionCount; e++ {
		if _, ok := c.reported[e.String()]; !ok {
			continue
		}
		if bound, disabled := c.disabledUntil[e]; disabled && c.version < bound {
			continue
		}
		core := e.Core()
		if core != VersionNone && core.IsES() == c.version.IsES() && c.version >= core {
			continue
		}
		out = append(out, e.String())
	}
	return out
}

// logStartup emits the construction-time diagnostic block.
func (c *Context) logStartup(w io.Writer, warnings []string) {
	fmt.Fprintf(w, "Renderer: %s by %s\n", c.renderer, c.vendor)
	fmt.Fprintf(w, "OpenGL version: %s\n", c.versionString)
	if c.verbosity == LogVerbose {
		fmt.Fprintf(w, "GLSL version: %s\n", c.glslString)
	}

	for _, warning := range warnings {
		fmt.Fprintln(w, warning)
	}

	if len(c.appliedWorkarounds) > 0 {
		fmt.Fprint(w, "Using driver workarounds:\n")
		for _, name := range c.appliedWorkarounds {
			fmt.Fprintf(w, "    %s\n", name)
		}
	}
	if c.verbosity == LogVerbose && len(c.skippedWorkarounds) > 0 {
		fmt.Fprint(w, "Skipping driver workarounds:\n")
		for _, name := range c.skippedWorkarounds {
			fmt.Fprintf(w, "    %s\n", name)
		}
	}

	if optional := c.optionalFeatureNames(); len(optional) > 0 {
		fmt.Fprint(w, "Using optional features:\n")
		for _, name := range optional {
			fmt.Fprintf(w, "    %s\n", name)
		}
	}

	if disabled := c.disabledExtensionNames(); len(disabled) > 0 {
		fmt.Fprint(w, "Disabling extensions:\n")
		for _, name := range disabled {
			fmt.Fprintf(w, "    %s\n", name)
		}
	}
}
