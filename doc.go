// Package glcaps resolves OpenGL context capabilities: it detects the
// driver's version and extension surface, answers version- and
// extension-support queries with configurable disable policies, applies
// known driver workarounds, and tracks which context is current on each
// thread.
//
// The package never talks to a GL loader itself. A lower layer hands it a
// live [Driver] handle (or a recorded [DriverSnapshot]) and glcaps parses
// the reported strings into a fast queryable form.
//
// # Constructing a context
//
// Construction merges four configuration tiers (command-line flags,
// environment variables, the programmatic [Configuration], compiled-in
// defaults, highest wins per setting), applies driver workarounds, emits a
// diagnostic block and installs the context as current on the calling
// thread:
//
//	ctx, err := glcaps.NewContext(driver, glcaps.Configuration{
//	    Args: os.Args,
//	    DisabledExtensions: []glcaps.Extension{glcaps.ExtEXTTextureFilterAnisotropic},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
//
// Recognized flags and their environment equivalents:
//
//	--glcaps-log {quiet|verbose|default}    GLCAPS_LOG
//	--glcaps-disable-workarounds <names>    GLCAPS_DISABLE_WORKAROUNDS
//	--glcaps-disable-extensions <names>     GLCAPS_DISABLE_EXTENSIONS
//
// # Capability queries
//
// [Context.IsExtensionSupported] and [Context.IsExtensionDisabled] are
// distinct predicates: an extension the driver advertises but that policy
// suppressed is "supported by hardware but disabled", while one the driver
// never advertised is merely unsupported. Extensions subsumed into core at
// the detected generation report supported regardless of the driver's
// extension list. [Context.SupportedVersion] picks the first acceptable
// candidate in caller-supplied preference order, not the highest.
//
// Gate code on hard requirements with [Context.Require]:
//
//	if err := ctx.Require(glcaps.GL330, glcaps.ExtARBDirectStateAccess); err != nil {
//	    var ce *glcaps.CapabilityError
//	    if errors.As(err, &ce) {
//	        log.Fatalf("context not usable: %s — %s", ce.Name, ce.Reason)
//	    }
//	    log.Fatal(err)
//	}
//
// # The current context
//
// At most one context is current per OS thread (callers lock their goroutine
// with runtime.LockOSThread, as GL work requires). [MakeCurrent] swaps the
// calling thread's slot and returns the previous occupant; [Current] panics
// when the slot is empty, so guard uncertain paths with [HasCurrent].
// Building with the glcaps_sharedcurrent tag collapses all slots into one
// process-wide slot that is visible, though not safe to use, across
// threads.
//
// # Static catalogs
//
// The [Version] and [Extension] tables are closed enumerations fixed at
// build time and safe for concurrent reads. A live context's state is
// written once during construction and read-only afterwards.
package glcaps
