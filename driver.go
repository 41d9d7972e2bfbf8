package glcaps

import "strings"

// Driver is the handle to a live graphics driver, owned by a lower layer
// (a GL loader, a windowing toolkit, or a recorded snapshot). The engine only
// ever reads the identification strings and the extension list from it.
//
// Drivers report extensions in one of two styles: a single space-joined blob
// (the only style below GL 3.0 / GLES 3.0) or an indexed per-extension query.
// A driver that supports the indexed style returns a positive NumExtensions;
// the blob is consulted only when NumExtensions is zero.
type Driver interface {
	VendorString() string
	RendererString() string
	VersionString() string
	ShadingLanguageVersionString() string

	// ExtensionBlob returns all extension names joined by single ASCII
	// spaces, or "" when the driver reports extensions via the indexed query.
	ExtensionBlob() string

	// NumExtensions returns the number of individually queryable extension
	// names, or 0 when only the blob form is available.
	NumExtensions() int

	// ExtensionName returns the i-th extension name, 0 <= i < NumExtensions.
	ExtensionName(i int) string
}

// StaticDriver is a Driver backed by plain values. It is what snapshot files
// load into and what tests construct directly.
type StaticDriver struct {
	Vendor                 string
	Renderer               string
	Version                string
	ShadingLanguageVersion string

	// Extensions is reported via the indexed query when Indexed is set,
	// otherwise joined into a blob (unless Blob overrides it verbatim).
	Extensions []string
	Indexed    bool
	Blob       string
}

var _ Driver = (*StaticDriver)(nil)

func (d *StaticDriver) VendorString() string                 { return d.Vendor }
func (d *StaticDriver) RendererString() string               { return d.Renderer }
func (d *StaticDriver) VersionString() string                { return d.Version }
func (d *StaticDriver) ShadingLanguageVersionString() string { return d.ShadingLanguageVersion }

func (d *StaticDriver) ExtensionBlob() string {
	if d.Indexed {
		return ""
	}
	if d.Blob != "" {
		return d.Blob
	}
	return strings.Join(d.Extensions, " ")
}

func (d *StaticDriver) NumExtensions() int {
	if !d.Indexed {
		return 0
	}
	return len(d.Extensions)
}

func (d *StaticDriver) ExtensionName(i int) string { return d.Extensions[i] }

// splitExtensionBlob tokenizes a space-joined extension blob. Duplicates are
// preserved as reported; empty fields produced by repeated separators are
// dropped, never synthesized. The returned tokens are substrings of blob and
// share its backing array.
func splitExtensionBlob(blob string) []string {
	var out []string
	for blob != "" {
		i := strings.IndexByte(blob, ' ')
		if i < 0 {
			out = append(out, blob)
			break
		}
		if i > 0 {
			out = append(out, blob[:i])
		}
		blob = blob[i+1:]
	}
	return out
}

// queryExtensionStrings reads the driver's extension list, preferring the
// indexed query. The indexed flag records which style the driver used; blob
// tokens are shared views into one string, indexed tokens are independent.
func queryExtensionStrings(d Driver) (tokens []string, indexed bool) {
	if n := d.NumExtensions(); n > 0 {
		tokens = make([]string, 0, n)
		for i := 0; i < n; i++ {
			if name := d.ExtensionName(i); name != "" {
				tokens = append(tokens, name)
			}
		}
		return tokens, true
	}
	return splitExtensionBlob(d.ExtensionBlob()), false
}
