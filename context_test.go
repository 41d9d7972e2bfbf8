package glcaps

import (
	"bytes"
	"errors"
	"runtime"
	"strings"
	"testing"
)

// lockThread pins the test goroutine to its OS thread for the duration of
// the test, the precondition for working with per-thread current slots.
func lockThread(t *testing.T) {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
}

func testDesktopDriver() *StaticDriver {
	return &StaticDriver{
		Vendor:                 "Example Corp",
		Renderer:               "Example HD 5000",
		Version:                "4.5.0 Example 123.45",
		ShadingLanguageVersion: "4.50 Example",
		Indexed:                true,
		Extensions: []string{
			"GL_ARB_texture_filter_anisotropic",
			"GL_EXT_texture_filter_anisotropic",
			"GL_ARB_explicit_attrib_location",
			"GL_ARB_vertex_array_object",
			"GL_ARB_ES2_compatibility",
		},
	}
}

func mustContext(t *testing.T, d Driver, cfg Configuration) *Context {
	t.Helper()
	lockThread(t)
	ctx, err := NewContext(d, cfg)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	t.Cleanup(ctx.Close)
	return ctx
}

func TestNewContext_Basics(t *testing.T) {
	var log bytes.Buffer
	ctx := mustContext(t, testDesktopDriver(), Configuration{Log: &log})

	if got := ctx.Version(); got != GL450 {
		t.Errorf("Version() = %v, want GL450", got)
	}
	if got := ctx.DriverKind(); got != DriverUnknown {
		t.Errorf("DriverKind() = %v, want unknown", got)
	}
	if got := ctx.VendorString(); got != "Example Corp" {
		t.Errorf("VendorString() = %q", got)
	}
	if got := ctx.RendererString(); got != "Example HD 5000" {
		t.Errorf("RendererString() = %q", got)
	}
	if got := ctx.ShadingLanguageVersionString(); got != "4.50 Example" {
		t.Errorf("ShadingLanguageVersionString() = %q", got)
	}
	if !ctx.ExtensionStringsIndexed() {
		t.Error("ExtensionStringsIndexed() = false, want true")
	}
	if got := len(ctx.ExtensionStrings()); got != 5 {
		t.Errorf("len(ExtensionStrings()) = %d, want 5", got)
	}
}

func TestNewContext_UnknownVersion(t *testing.T) {
	lockThread(t)
	d := testDesktopDriver()
	d.Version = "garbage"

	_, err := NewContext(d, Configuration{Flags: QuietLog})
	if !errors.Is(err, ErrUnknownVersion) {
		t.Fatalf("NewContext() error = %v, want ErrUnknownVersion", err)
	}
	if HasCurrent() {
		t.Error("failed construction must not install a current context")
	}
}

func TestNewContext_ConstructConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		cfg        func(log *bytes.Buffer) Configuration
		env        map[string]string
		contains   []string
		excludes   []string
		quiet      bool // expect zero log bytes
		workaround bool // expect no-layout-qualifiers-on-old-glsl applied
	}{
		{
			name:       "default",
			cfg:        func(log *bytes.Buffer) Configuration { return Configuration{Log: log} },
			contains:   []string{"Renderer: Example HD 5000 by Example Corp\n", "OpenGL version: 4.5.0 Example 123.45\n"},
			excludes:   []string{"GLSL version:"},
			workaround: true,
		},
		{
			name: "quiet",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{Flags: QuietLog, Log: log}
			},
			quiet:      true,
			workaround: true,
		},
		{
			name: "quiet on the command line",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{Args: []string{"app", "--glcaps-log", "quiet"}, Log: log}
			},
			quiet:      true,
			workaround: true,
		},
		{
			name: "verbose",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{Flags: VerboseLog, Log: log}
			},
			contains:   []string{"GLSL version: 4.50 Example\n"},
			workaround: true,
		},
		{
			name: "quiet and verbose at the same tier resolve to verbose",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{Flags: QuietLog | VerboseLog, Log: log}
			},
			contains:   []string{"GLSL version: 4.50 Example\n"},
			workaround: true,
		},
		{
			name: "command line overrides programmatic verbose",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{Flags: VerboseLog, Args: []string{"app", "--glcaps-log", "quiet"}, Log: log}
			},
			quiet:      true,
			workaround: true,
		},
		{
			name: "command line overrides programmatic quiet",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{Flags: QuietLog, Args: []string{"app", "--glcaps-log", "verbose"}, Log: log}
			},
			contains:   []string{"GLSL version: 4.50 Example\n"},
			workaround: true,
		},
		{
			name: "environment overrides programmatic",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{Flags: VerboseLog, Log: log}
			},
			env:        map[string]string{"GLCAPS_LOG": "quiet"},
			quiet:      true,
			workaround: true,
		},
		{
			name: "command line overrides environment",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{Args: []string{"app", "--glcaps-log", "verbose"}, Log: log}
			},
			env:        map[string]string{"GLCAPS_LOG": "quiet"},
			contains:   []string{"GLSL version: 4.50 Example\n"},
			workaround: true,
		},
		{
			name: "workaround listed in the log",
			cfg:  func(log *bytes.Buffer) Configuration { return Configuration{Log: log} },
			contains: []string{
				"Using driver workarounds:\n    no-layout-qualifiers-on-old-glsl\n",
			},
			workaround: true,
		},
		{
			name: "disabled workaround not applied",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{
					DisabledWorkarounds: []string{"no-layout-qualifiers-on-old-glsl"},
					Log:                 log,
				}
			},
			excludes: []string{"Using driver workarounds:"},
		},
		{
			name: "workaround disabled on the command line",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{
					Args: []string{"app", "--glcaps-disable-workarounds", "no-layout-qualifiers-on-old-glsl"},
					Log:  log,
				}
			},
			excludes: []string{"Using driver workarounds:"},
		},
		{
			name: "workaround disabled via environment",
			cfg:  func(log *bytes.Buffer) Configuration { return Configuration{Log: log} },
			env:  map[string]string{"GLCAPS_DISABLE_WORKAROUNDS": "no-layout-qualifiers-on-old-glsl"},
			excludes: []string{
				"Using driver workarounds:",
			},
		},
		{
			name: "skipped workarounds listed when verbose",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{
					Flags:               VerboseLog,
					DisabledWorkarounds: []string{"no-layout-qualifiers-on-old-glsl"},
					Log:                 log,
				}
			},
			contains: []string{
				"Skipping driver workarounds:\n    no-layout-qualifiers-on-old-glsl\n",
			},
		},
		{
			name: "optional features listed",
			cfg:  func(log *bytes.Buffer) Configuration { return Configuration{Log: log} },
			contains: []string{
				"Using optional features:\n    GL_ARB_texture_filter_anisotropic\n    GL_EXT_texture_filter_anisotropic\n",
			},
			excludes:   []string{"Disabling extensions:"},
			workaround: true,
		},
		{
			name: "disabled extension listed",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{
					DisabledExtensions: []Extension{ExtEXTTextureFilterAnisotropic},
					Log:                log,
				}
			},
			contains: []string{
				"Disabling extensions:\n    GL_EXT_texture_filter_anisotropic\n",
				"Using optional features:\n    GL_ARB_texture_filter_anisotropic\n",
			},
			workaround: true,
		},
		{
			name: "extension disabled on the command line",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{
					Args: []string{"app", "--glcaps-disable-extensions", "GL_EXT_texture_filter_anisotropic"},
					Log:  log,
				}
			},
			contains: []string{
				"Disabling extensions:\n    GL_EXT_texture_filter_anisotropic\n",
			},
			workaround: true,
		},
		{
			name: "extension disabled via environment",
			cfg:  func(log *bytes.Buffer) Configuration { return Configuration{Log: log} },
			env:  map[string]string{"GLCAPS_DISABLE_EXTENSIONS": "GL_EXT_texture_filter_anisotropic"},
			contains: []string{
				"Disabling extensions:\n    GL_EXT_texture_filter_anisotropic\n",
			},
			workaround: true,
		},
		{
			name: "unknown disable names are reported and ignored",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{
					Args: []string{"app",
						"--glcaps-disable-extensions", "GL_this_does_not_exist",
						"--glcaps-disable-workarounds", "also-bogus"},
					Log: log,
				}
			},
			contains: []string{
				"Ignoring unknown extension in disable list: GL_this_does_not_exist\n",
				"Ignoring unknown workaround in disable list: also-bogus\n",
			},
			excludes:   []string{"Disabling extensions:"},
			workaround: true,
		},
		{
			name: "unknown log environment value falls back and warns",
			cfg:  func(log *bytes.Buffer) Configuration { return Configuration{Log: log} },
			env:  map[string]string{"GLCAPS_LOG": "shouty"},
			contains: []string{
				`Ignoring unknown GLCAPS_LOG value: "shouty"` + "\n",
			},
			workaround: true,
		},
		{
			name: "unrelated flags are ignored",
			cfg: func(log *bytes.Buffer) Configuration {
				return Configuration{
					Args: []string{"app", "--window-size", "640x480", "--glcaps-log", "quiet"},
					Log:  log,
				}
			},
			quiet:      true,
			workaround: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var log bytes.Buffer
			ctx := mustContext(t, testDesktopDriver(), tt.cfg(&log))

			if tt.quiet {
				if log.Len() != 0 {
					t.Fatalf("expected zero log output, got:\n%s", log.String())
				}
			}
			for _, want := range tt.contains {
				if !strings.Contains(log.String(), want) {
					t.Errorf("log output missing %q, got:\n%s", want, log.String())
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(log.String(), unwanted) {
					t.Errorf("log output must not contain %q, got:\n%s", unwanted, log.String())
				}
			}

			applied := containsString(ctx.AppliedWorkarounds(), "no-layout-qualifiers-on-old-glsl")
			if applied != tt.workaround {
				t.Errorf("no-layout-qualifiers-on-old-glsl applied = %v, want %v", applied, tt.workaround)
			}
		})
	}
}

func TestContext_WorkaroundVersionBound(t *testing.T) {
	ctx := mustContext(t, testDesktopDriver(), Configuration{Flags: QuietLog})

	// The old-GLSL workaround raises the usability floor of the layout
	// qualifier extensions to GL 3.2: below that they count as disabled,
	// above that the bound has no effect.
	e := ExtARBExplicitAttribLocation
	if !ctx.IsExtensionDisabledAt(e, GL310) {
		t.Errorf("%v must be disabled below GL 3.2", e)
	}
	if ctx.IsExtensionSupportedAt(e, GL310) {
		t.Errorf("%v must not be supported below GL 3.2", e)
	}
	if ctx.IsExtensionDisabledAt(e, GL320) {
		t.Errorf("%v must not be disabled at GL 3.2", e)
	}
	if !ctx.IsExtensionSupportedAt(e, GL330) {
		t.Errorf("%v must be supported at GL 3.3 where it is core", e)
	}
	if ctx.IsExtensionDisabled(e) {
		t.Errorf("%v must not be disabled at the detected version", e)
	}
	if !ctx.IsExtensionSupported(e) {
		t.Errorf("%v must be supported at the detected version", e)
	}
}

func TestContext_DisabledWorkaroundKeepsExtensionUsable(t *testing.T) {
	ctx := mustContext(t, testDesktopDriver(), Configuration{
		Flags:               QuietLog,
		DisabledWorkarounds: []string{"no-layout-qualifiers-on-old-glsl"},
	})

	if !ctx.IsDriverWorkaroundDisabled("no-layout-qualifiers-on-old-glsl") {
		t.Error("IsDriverWorkaroundDisabled() = false, want true")
	}
	if ctx.IsDriverWorkaroundDisabled("nv-zero-context-profile-mask") {
		t.Error("IsDriverWorkaroundDisabled() = true for a workaround never disabled")
	}
	if !ctx.IsExtensionSupportedAt(ExtARBExplicitAttribLocation, GL310) {
		t.Error("with the workaround disabled the extension must stay usable below GL 3.2")
	}
}

func TestContext_ConfigDisableNotRelaxedByWorkaround(t *testing.T) {
	// The workaround would install a GL 3.2 bound; the explicit disable
	// must survive it at every version.
	ctx := mustContext(t, testDesktopDriver(), Configuration{
		Flags:              QuietLog,
		DisabledExtensions: []Extension{ExtARBExplicitAttribLocation},
	})

	if ctx.IsExtensionSupported(ExtARBExplicitAttribLocation) {
		t.Error("explicitly disabled extension must not be supported")
	}
	if !ctx.IsExtensionDisabled(ExtARBExplicitAttribLocation) {
		t.Error("explicitly disabled extension must report as disabled")
	}
	if ctx.IsExtensionSupportedAt(ExtARBExplicitAttribLocation, GL460) {
		t.Error("explicit disable must hold at any version")
	}
}

func TestContext_DisabledUnreportedExtension(t *testing.T) {
	// Disabling an extension the driver never advertised and that has no
	// core version: unsupported, but not "disabled" either.
	ctx := mustContext(t, testDesktopDriver(), Configuration{
		Flags:              QuietLog,
		DisabledExtensions: []Extension{ExtGREMEDYStringMarker},
	})

	if ctx.IsExtensionSupported(ExtGREMEDYStringMarker) {
		t.Error("unreported extension must not be supported")
	}
	if ctx.IsExtensionDisabled(ExtGREMEDYStringMarker) {
		t.Error("unreported non-core extension counts as unsupported, not disabled")
	}
}

func TestContext_IsExtensionSupported(t *testing.T) {
	ctx := mustContext(t, testDesktopDriver(), Configuration{Flags: QuietLog})

	tests := []struct {
		e    Extension
		want bool
	}{
		// Core at GL 4.5 even though the driver never listed it.
		{ExtARBUniformBufferObject, true},
		// Reported, never core.
		{ExtEXTTextureFilterAnisotropic, true},
		// Reported, core only at GL 4.6.
		{ExtARBTextureFilterAnisotropic, true},
		// Neither reported nor core.
		{ExtGREMEDYStringMarker, false},
		// ES extension on a desktop context.
		{ExtOESTextureFloat, false},
	}
	for _, tt := range tests {
		if got := ctx.IsExtensionSupported(tt.e); got != tt.want {
			t.Errorf("IsExtensionSupported(%v) = %v, want %v", tt.e, got, tt.want)
		}
	}

	// Below the core version support falls back to the reported set.
	if !ctx.IsExtensionSupportedAt(ExtARBVertexArrayObject, GL210) {
		t.Error("reported extension must be supported below its core version")
	}
	if ctx.IsExtensionSupportedAt(ExtARBUniformBufferObject, GL300) {
		t.Error("unreported extension must not be supported below its core version")
	}
}

func TestContext_IsVersionSupported(t *testing.T) {
	t.Run("desktop", func(t *testing.T) {
		ctx := mustContext(t, testDesktopDriver(), Configuration{Flags: QuietLog})

		tests := []struct {
			v    Version
			want bool
		}{
			{VersionNone, true},
			{GL210, true},
			{GL450, true},
			{GL460, false},
			// ES generations map to the desktop generation guaranteeing them.
			{GLES200, true},
			{GLES300, true},
			{GLES310, true},
			{GLES320, false},
		}
		for _, tt := range tests {
			if got := ctx.IsVersionSupported(tt.v); got != tt.want {
				t.Errorf("IsVersionSupported(%v) = %v, want %v", tt.v, got, tt.want)
			}
		}

		// Strictly monotonic over the desktop catalog: supported up to and
		// including the detected generation, unsupported above.
		for _, v := range glVersions {
			if got, want := ctx.IsVersionSupported(v), v <= GL450; got != want {
				t.Errorf("IsVersionSupported(%v) = %v, want %v", v, got, want)
			}
		}
	})

	t.Run("desktop es2 via compatibility extension", func(t *testing.T) {
		d := testDesktopDriver()
		d.Version = "4.0"
		ctx := mustContext(t, d, Configuration{Flags: QuietLog})

		// GL 4.0 is below the GL 4.1 equivalence point, but the driver
		// advertises ARB_ES2_compatibility.
		if !ctx.IsVersionSupported(GLES200) {
			t.Error("IsVersionSupported(GLES200) = false, want true via ARB_ES2_compatibility")
		}
		if ctx.IsVersionSupported(GLES300) {
			t.Error("IsVersionSupported(GLES300) = true, want false at GL 4.0")
		}
	})

	t.Run("desktop es2 without compatibility extension", func(t *testing.T) {
		d := testDesktopDriver()
		d.Version = "4.0"
		d.Extensions = nil
		ctx := mustContext(t, d, Configuration{Flags: QuietLog})

		if ctx.IsVersionSupported(GLES200) {
			t.Error("IsVersionSupported(GLES200) = true, want false")
		}
	})

	t.Run("es", func(t *testing.T) {
		ctx := mustContext(t, &StaticDriver{
			Vendor:   "Example Corp",
			Renderer: "Example Mobile",
			Version:  "OpenGL ES 3.0 Example",
		}, Configuration{Flags: QuietLog})

		tests := []struct {
			v    Version
			want bool
		}{
			{VersionNone, true},
			{GLES200, true},
			{GLES300, true},
			{GLES310, false},
			// Desktop generations are never supported on an ES context.
			{GL210, false},
			{GL450, false},
		}
		for _, tt := range tests {
			if got := ctx.IsVersionSupported(tt.v); got != tt.want {
				t.Errorf("IsVersionSupported(%v) = %v, want %v", tt.v, got, tt.want)
			}
		}
	})
}

func TestContext_SupportedVersion(t *testing.T) {
	ctx := mustContext(t, testDesktopDriver(), Configuration{Flags: QuietLog})

	// First match in caller order wins, even when a later candidate is
	// higher.
	if got := ctx.SupportedVersion(GL460, GL450, GL440); got != GL450 {
		t.Errorf("SupportedVersion(GL460, GL450, GL440) = %v, want GL450", got)
	}
	if got := ctx.SupportedVersion(GL460, GL440, GL450); got != GL440 {
		t.Errorf("SupportedVersion(GL460, GL440, GL450) = %v, want GL440", got)
	}
	if got := ctx.SupportedVersion(GL460); got != VersionNone {
		t.Errorf("SupportedVersion(GL460) = %v, want none", got)
	}
	if got := ctx.SupportedVersion(); got != VersionNone {
		t.Errorf("SupportedVersion() = %v, want none", got)
	}
}

func TestContext_Require(t *testing.T) {
	ctx := mustContext(t, testDesktopDriver(), Configuration{
		Flags:              QuietLog,
		DisabledExtensions: []Extension{ExtEXTTextureFilterAnisotropic},
	})

	if err := ctx.Require(GL450, ExtARBVertexArrayObject); err != nil {
		t.Errorf("Require() error = %v, want nil", err)
	}
	if err := ctx.Require(RequirementGroup{GL330, ExtARBTextureFilterAnisotropic}); err != nil {
		t.Errorf("Require(group) error = %v, want nil", err)
	}

	err := ctx.Require(GL450, GL460)
	var ce *CapabilityError
	if !errors.As(err, &ce) {
		t.Fatalf("Require() error = %v, want *CapabilityError", err)
	}
	if ce.Name != "OpenGL 4.6" {
		t.Errorf("CapabilityError.Name = %q, want %q", ce.Name, "OpenGL 4.6")
	}

	err = ctx.Require(ExtEXTTextureFilterAnisotropic)
	if !errors.As(err, &ce) {
		t.Fatalf("Require() error = %v, want *CapabilityError", err)
	}
	if ce.Name != "GL_EXT_texture_filter_anisotropic" {
		t.Errorf("CapabilityError.Name = %q", ce.Name)
	}
	if !strings.Contains(ce.Reason, "disabled") {
		t.Errorf("CapabilityError.Reason = %q, want a disable reason", ce.Reason)
	}

	err = ctx.Require(ExtGREMEDYStringMarker)
	if !errors.As(err, &ce) {
		t.Fatalf("Require() error = %v, want *CapabilityError", err)
	}
	if strings.Contains(ce.Reason, "disabled") {
		t.Errorf("unsupported extension must not report a disable reason, got %q", ce.Reason)
	}
}

func TestContext_CurrentLifecycle(t *testing.T) {
	lockThread(t)
	ctx, err := NewContext(testDesktopDriver(), Configuration{Flags: QuietLog})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	defer ctx.Close()

	if !HasCurrent() {
		t.Fatal("construction must install the context as current")
	}
	if Current() != ctx {
		t.Fatal("Current() did not return the constructed context")
	}

	ctx.Close()
	if HasCurrent() {
		t.Fatal("Close() must release the current slot")
	}

	if prev := MakeCurrent(ctx); prev != nil {
		t.Errorf("MakeCurrent() on an empty slot returned %v, want nil", prev)
	}
	if prev := MakeCurrent(nil); prev != ctx {
		t.Errorf("MakeCurrent(nil) returned %v, want the released context", prev)
	}
	if HasCurrent() {
		t.Error("MakeCurrent(nil) must leave the slot empty")
	}
}

func TestNewContext_PanicsWhenAlreadyCurrent(t *testing.T) {
	lockThread(t)
	ctx, err := NewContext(testDesktopDriver(), Configuration{Flags: QuietLog})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	defer ctx.Close()

	defer func() {
		if recover() == nil {
			t.Error("expected a panic constructing over a current context")
		}
	}()
	_, _ = NewContext(testDesktopDriver(), Configuration{Flags: QuietLog})
}
