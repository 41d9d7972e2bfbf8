package glcaps

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version represents a known OpenGL or OpenGL ES release generation.
//
// Desktop and ES generations form two disjoint dense orderings: within each
// flavour, adjacent integer values correspond to adjacent releases, so
// Version arithmetic like v-1 or v+1 moves one generation at a time.
// [VersionNone] sorts below every known generation.
type Version int

// VersionNone means "below the lowest known generation". It is also used as
// the core-version of extensions that never became core functionality.
const VersionNone Version = 0

// Desktop OpenGL generations.
const (
	GL210 Version = iota + 1
	GL300
	GL310
	GL320
	GL330
	GL400
	GL410
	GL420
	GL430
	GL440
	GL450
	GL460
)

// OpenGL ES generations. The range is disjoint from the desktop one so the
// two orderings never interleave.
const (
	GLES200 Version = iota + 0x101
	GLES300
	GLES310
	GLES320
)

// versionDisabledAlways is an internal disable bound that no detected
// version ever reaches.
const versionDisabledAlways Version = 1 << 30

type versionInfo struct {
	major, minor int
	es           bool
	label        string
}

var versionInfos = map[Version]versionInfo{
	GL210:   {2, 1, false, "GL210"},
	GL300:   {3, 0, false, "GL300"},
	GL310:   {3, 1, false, "GL310"},
	GL320:   {3, 2, false, "GL320"},
	GL330:   {3, 3, false, "GL330"},
	GL400:   {4, 0, false, "GL400"},
	GL410:   {4, 1, false, "GL410"},
	GL420:   {4, 2, false, "GL420"},
	GL430:   {4, 3, false, "GL430"},
	GL440:   {4, 4, false, "GL440"},
	GL450:   {4, 5, false, "GL450"},
	GL460:   {4, 6, false, "GL460"},
	GLES200: {2, 0, true, "GLES200"},
	GLES300: {3, 0, true, "GLES300"},
	GLES310: {3, 1, true, "GLES310"},
	GLES320: {3, 2, true, "GLES320"},
}

// Ordered catalogs, lowest generation first.
var (
	glVersions   = []Version{GL210, GL300, GL310, GL320, GL330, GL400, GL410, GL420, GL430, GL440, GL450, GL460}
	glesVersions = []Version{GLES200, GLES300, GLES310, GLES320}
)

// A desktop context guarantees the given ES generation at these versions
// (GLES200 via ARB_ES2_compatibility and its successors).
var esDesktopEquivalent = map[Version]Version{
	GLES200: GL410,
	GLES300: GL430,
	GLES310: GL450,
	GLES320: GL460,
}

// IsES reports whether v is an OpenGL ES generation.
func (v Version) IsES() bool {
	return v >= GLES200 && v <= GLES320
}

// Valid reports whether v names a known generation.
func (v Version) Valid() bool {
	_, ok := versionInfos[v]
	return ok
}

// Major returns the major version number, or 0 for an unknown value.
func (v Version) Major() int { return versionInfos[v].major }

// Minor returns the minor version number, or 0 for an unknown value.
func (v Version) Minor() int { return versionInfos[v].minor }

// String returns the human-readable form, e.g. "OpenGL 4.6" or
// "OpenGL ES 3.2".
func (v Version) String() string {
	if v == VersionNone {
		return "none"
	}
	info, ok := versionInfos[v]
	if !ok {
		return fmt.Sprintf("Version(%d)", int(v))
	}
	if info.es {
		return fmt.Sprintf("OpenGL ES %d.%d", info.major, info.minor)
	}
	return fmt.Sprintf("OpenGL %d.%d", info.major, info.minor)
}

// VersionValues returns all known generations, desktop first, each flavour
// ordered lowest to highest.
func VersionValues() []Version {
	out := make([]Version, 0, len(glVersions)+len(glesVersions))
	out = append(out, glVersions...)
	out = append(out, glesVersions...)
	return out
}

// VersionNames returns the identifier names of all known generations, in the
// same order as [VersionValues].
func VersionNames() []string {
	values := VersionValues()
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, versionInfos[v].label)
	}
	return out
}

// Identifier returns the short identifier name, e.g. "GL460" or "GLES320".
// [VersionByName] resolves it back.
func (v Version) Identifier() string {
	if info, ok := versionInfos[v]; ok {
		return info.label
	}
	return "none"
}

// VersionByName looks up a generation by its identifier name ("GL330",
// "GLES300"). Matching is case-insensitive.
func VersionByName(name string) (Version, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for v, info := range versionInfos {
		if info.label == name {
			return v, true
		}
	}
	return VersionNone, false
}

// versionRe matches the leading "major.minor" of a GL_VERSION string. Desktop
// drivers report a bare number, ES drivers prefix it with "OpenGL ES" and
// possibly a profile qualifier.
var versionRe = regexp.MustCompile(`^(OpenGL ES[^\d]*)?(\d+)\.(\d+)`)

// parseVersionString extracts the numeric version and flavour from a raw
// GL_VERSION string. Vendor suffixes ("4.6.0 NVIDIA 535.86", "... Mesa 23.1")
// are ignored.
func parseVersionString(s string) (major, minor int, es bool, err error) {
	match := versionRe.FindStringSubmatch(s)
	if match == nil {
		return 0, 0, false, fmt.Errorf("%w: %q", ErrUnknownVersion, s)
	}
	es = match[1] != ""
	major, _ = strconv.Atoi(match[2])
	minor, _ = strconv.Atoi(match[3])
	return major, minor, es, nil
}

// detectVersion maps a raw GL_VERSION string to the highest known generation
// not exceeding what the driver reports.
func detectVersion(s string) (Version, error) {
	major, minor, es, err := parseVersionString(s)
	if err != nil {
		return VersionNone, err
	}

	catalog := glVersions
	if es {
		catalog = glesVersions
	}
	detected := VersionNone
	for _, v := range catalog {
		info := versionInfos[v]
		if info.major > major || (info.major == major && info.minor > minor) {
			break
		}
		detected = v
	}
	if detected == VersionNone {
		return VersionNone, fmt.Errorf("%w: %q is below the lowest supported generation", ErrUnknownVersion, s)
	}
	return detected, nil
}
