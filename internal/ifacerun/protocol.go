package ifacerun

import "strings"

// cftiUnescape undoes the CFTI escape convention on one already
// whitespace-split token: \t \n \r \\ decode to their literal
// characters. Decoding is a single left-to-right pass, so an escaped
// backslash followed by t, n or r stays a literal backslash and letter.
func cftiUnescape(tok string) string {
	return cftiUnescaper.Replace(tok)
}

var cftiUnescaper = strings.NewReplacer(`\\`, `\`, `\t`, "\t", `\n`, "\n", `\r`, "\r")

// cftiEscape is cftiUnescape's inverse, applied to free-form outbound
// fields (Describe's class/field/name/value) that might contain
// whitespace or control characters. Unit identifiers never need this:
// they're already constrained to bare words by the directive grammar.
func cftiEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	return s
}

// splitWords splits a raw inbound line on whitespace and CFTI-unescapes
// each resulting token, in that order - matching the teacher protocol's
// "split first, decode per-word second" behavior.
func splitWords(line string) []string {
	fields := strings.Fields(line)
	words := make([]string, len(fields))
	for i, f := range fields {
		words[i] = cftiUnescape(f)
	}
	return words
}
