package renderer

import "strings"

// ConditionalBlock lets a section be fully written before deciding whether to
// keep it. If block returns true the content is appended to b, otherwise it
// is discarded.
func ConditionalBlock(b *strings.Builder, block func(*strings.Builder) bool) {
	var buf strings.Builder
	if block(&buf) {
		b.WriteString(buf.String())
	}
}
