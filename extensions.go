package glcaps

import "fmt"

// Extension identifies an entry of the static extension catalog. The catalog
// is fixed at build time; every Extension value carries a stable index, a
// canonical name string, the lowest generation the extension can appear at,
// and the generation that subsumed it into core functionality (if any).
type Extension int

// Desktop extensions.
const (
	ExtARBES2Compatibility Extension = iota
	ExtARBExplicitAttribLocation
	ExtARBExplicitUniformLocation
	ExtARBShadingLanguage420Pack
	ExtARBVertexArrayObject
	ExtARBTextureFilterAnisotropic
	ExtARBTextureStorage
	ExtARBUniformBufferObject
	ExtARBSamplerObjects
	ExtARBSeparateShaderObjects
	ExtARBGetProgramBinary
	ExtARBInvalidateSubdata
	ExtARBMultiBind
	ExtARBBufferStorage
	ExtARBDirectStateAccess
	ExtARBRobustness
	ExtKHRDebug
	ExtEXTTextureFilterAnisotropic
	ExtEXTDebugLabel
	ExtEXTDebugMarker
	ExtGREMEDYStringMarker

	// OpenGL ES extensions.
	ExtOESVertexArrayObject
	ExtOESTextureFloat
	ExtEXTSRGBWriteControl
	ExtEXTDisjointTimerQuery

	extensionCount
)

type extensionInfo struct {
	name     string
	required Version // lowest generation the extension can appear at
	core     Version // generation that subsumed it, VersionNone if never
}

var extensionInfos = [extensionCount]extensionInfo{
	ExtARBES2Compatibility:         {"GL_ARB_ES2_compatibility", GL210, GL410},
	ExtARBExplicitAttribLocation:   {"GL_ARB_explicit_attrib_location", GL300, GL330},
	ExtARBExplicitUniformLocation:  {"GL_ARB_explicit_uniform_location", GL300, GL430},
	ExtARBShadingLanguage420Pack:   {"GL_ARB_shading_language_420pack", GL300, GL420},
	ExtARBVertexArrayObject:        {"GL_ARB_vertex_array_object", GL210, GL300},
	ExtARBTextureFilterAnisotropic: {"GL_ARB_texture_filter_anisotropic", GL210, GL460},
	ExtARBTextureStorage:           {"GL_ARB_texture_storage", GL210, GL420},
	ExtARBUniformBufferObject:      {"GL_ARB_uniform_buffer_object", GL210, GL310},
	ExtARBSamplerObjects:           {"GL_ARB_sampler_objects", GL210, GL330},
	ExtARBSeparateShaderObjects:    {"GL_ARB_separate_shader_objects", GL210, GL410},
	ExtARBGetProgramBinary:         {"GL_ARB_get_program_binary", GL300, GL410},
	ExtARBInvalidateSubdata:        {"GL_ARB_invalidate_subdata", GL210, GL430},
	ExtARBMultiBind:                {"GL_ARB_multi_bind", GL300, GL440},
	ExtARBBufferStorage:            {"GL_ARB_buffer_storage", GL400, GL440},
	ExtARBDirectStateAccess:        {"GL_ARB_direct_state_access", GL300, GL450},
	ExtARBRobustness:               {"GL_ARB_robustness", GL210, GL450},
	ExtKHRDebug:                    {"GL_KHR_debug", GL210, GL430},
	ExtEXTTextureFilterAnisotropic: {"GL_EXT_texture_filter_anisotropic", GL210, VersionNone},
	ExtEXTDebugLabel:               {"GL_EXT_debug_label", GL210, VersionNone},
	ExtEXTDebugMarker:              {"GL_EXT_debug_marker", GL210, VersionNone},
	ExtGREMEDYStringMarker:         {"GL_GREMEDY_string_marker", GL210, VersionNone},

	ExtOESVertexArrayObject:  {"GL_OES_vertex_array_object", GLES200, GLES300},
	ExtOESTextureFloat:       {"GL_OES_texture_float", GLES200, GLES300},
	ExtEXTSRGBWriteControl:   {"GL_EXT_sRGB_write_control", GLES200, VersionNone},
	ExtEXTDisjointTimerQuery: {"GL_EXT_disjoint_timer_query", GLES200, VersionNone},
}

var extensionsByName = func() map[string]Extension {
	byName := make(map[string]Extension, extensionCount)
	for e := Extension(0); e < extensionCount; e++ {
		byName[extensionInfos[e].name] = e
	}
	return byName
}()

// String returns the canonical extension name string, e.g.
// "GL_ARB_texture_filter_anisotropic".
func (e Extension) String() string {
	if e < 0 || e >= extensionCount {
		return fmt.Sprintf("Extension(%d)", int(e))
	}
	return extensionInfos[e].name
}

// Required returns the lowest generation the extension can appear at.
func (e Extension) Required() Version {
	if e < 0 || e >= extensionCount {
		return VersionNone
	}
	return extensionInfos[e].required
}

// Core returns the generation that subsumed the extension into core
// functionality, or [VersionNone] if it never became core.
func (e Extension) Core() Version {
	if e < 0 || e >= extensionCount {
		return VersionNone
	}
	return extensionInfos[e].core
}

// ExtensionByName looks up a catalog entry by its canonical name string.
func ExtensionByName(name string) (Extension, bool) {
	e, ok := extensionsByName[name]
	return e, ok
}

// ExtensionValues returns all catalog entries in index order.
func ExtensionValues() []Extension {
	out := make([]Extension, 0, extensionCount)
	for e := Extension(0); e < extensionCount; e++ {
		out = append(out, e)
	}
	return out
}

// ExtensionNames returns the canonical names of all catalog entries, in the
// same order as [ExtensionValues].
func ExtensionNames() []string {
	out := make([]string, 0, extensionCount)
	for e := Extension(0); e < extensionCount; e++ {
		out = append(out, extensionInfos[e].name)
	}
	return out
}
