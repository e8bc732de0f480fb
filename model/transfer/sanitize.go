package transfer

import (
	"strings"
	"unicode/utf8"
)

// maxNameLength caps destination names well below the usual 255-byte file
// system limit, as names close to it are painful to open or delete on some
// platforms.
const maxNameLength = 200

var nameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	"|", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"#", "_",
	"\"", "_",
	"<", "_",
	">", "_",
)

// SanitizeName makes a gist description or filename safe to use as a local
// file system name.
func SanitizeName(name string) string {
	name = strings.TrimPrefix(name, "/")
	name = nameReplacer.Replace(name)

	// drop non-BMP runes (emoji and friends)
	var b strings.Builder
	for _, r := range name {
		if r > 0xFFFF {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	name = b.String()

	if len(name) > maxNameLength {
		// cut on a rune boundary, a split rune would leave invalid UTF-8
		cut := maxNameLength
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	name = strings.TrimSpace(name)
	// a trailing dot makes a folder unopenable on Windows
	name = strings.TrimSuffix(name, ".")
	return name
}
