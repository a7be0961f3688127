// Package terraform drives the terraform binary and defines the resource
// addresses shared by the HCL renderer and the importer.
package terraform

import (
	"strings"
	"unicode"
)

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"${", "$${",
	"%{", "%%{",
)

// QuoteString renders s as a quoted HCL string literal. Configuration
// values and for_each keys in addresses both go through it.
func QuoteString(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}

// Address identifies one resource instance in a configuration.
// Key is the for_each key and is empty for single-instance resources.
type Address struct {
	Type string
	Name string
	Key  string
}

// NewAddress returns an address with name sanitized into an identifier.
func NewAddress(resourceType, name string) Address {
	return Address{Type: resourceType, Name: SanitizeName(name)}
}

// WithKey returns a copy of a addressing the for_each instance key.
func (a Address) WithKey(key string) Address {
	a.Key = key
	return a
}

// Resource returns the address without the instance key, as used in a
// resource block label.
func (a Address) Resource() string {
	return a.Type + "." + a.Name
}

func (a Address) String() string {
	if a.Key == "" {
		return a.Resource()
	}
	return a.Resource() + "[" + QuoteString(a.Key) + "]"
}

// Import pairs an address with the remote id terraform should bind it to.
type Import struct {
	Address Address
	ID      string
}

func (i Import) String() string {
	return i.Address.String() + " " + i.ID
}

// SanitizeName turns arbitrary text into a valid resource name. Characters
// other than letters, digits, '_' and '-' become '_', and a name that does
// not start with a letter or '_' gets a '_' prefix.
func SanitizeName(name string) string {
	if name == "" {
		return "_"
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := b.String()
	first := rune(out[0])
	if !unicode.IsLetter(first) && first != '_' {
		out = "_" + out
	}
	return out
}
