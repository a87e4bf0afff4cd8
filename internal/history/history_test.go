package history

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreviewShortContentUnchanged(t *testing.T) {
	assert.Equal(t, "how do I add a trigger", Preview("how do I add a trigger"))
}

func TestPreviewFlattensNewlines(t *testing.T) {
	got := Preview("line one\nline two\n\nline three")
	assert.Equal(t, "line one line two line three", got)
}

func TestPreviewTruncates(t *testing.T) {
	long := strings.Repeat("a", PreviewChars+50)
	got := Preview(long)
	assert.Len(t, got, PreviewChars)
}

func TestGenerateMessageID(t *testing.T) {
	id := generateMessageID()
	assert.True(t, strings.HasPrefix(id, "msg_"))
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, generateMessageID())
}
