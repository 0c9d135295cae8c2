package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorLiteral(t *testing.T) {
	got := vectorLiteral([]float32{0.1, 0.2, -0.5})
	assert.Equal(t, "[0.1,0.2,-0.5]", got)
}

func TestVectorLiteralEmpty(t *testing.T) {
	assert.Equal(t, "[]", vectorLiteral(nil))
}

func TestFilterKeyPattern_RejectsUnsafeKeys(t *testing.T) {
	assert.True(t, filterKeyPattern.MatchString("collection_slug"))
	assert.True(t, filterKeyPattern.MatchString("visibility"))
	assert.False(t, filterKeyPattern.MatchString("a' OR '1'='1"))
	assert.False(t, filterKeyPattern.MatchString("key; DROP TABLE documents;--"))
	assert.False(t, filterKeyPattern.MatchString(""))
}
