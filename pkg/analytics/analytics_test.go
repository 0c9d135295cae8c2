package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gomind-search/pipeline/pkg/logger"
)

func TestDistinctID(t *testing.T) {
	assert.Equal(t, "user-1", DistinctID("user-1", "org-1"))
	assert.Equal(t, "api_key_org-1", DistinctID("", "org-1"))
}

func TestLoggingSinkTrack(t *testing.T) {
	sink := NewLoggingSink(logger.NewDefaultLogger())

	err := sink.Track(context.Background(), Event{
		Name:       "search_query",
		DistinctID: "user-1",
		Properties: map[string]interface{}{
			"query_length": 12,
			"status":       "success",
		},
		Groups: map[string]string{"organization": "org-1"},
	})

	assert.NoError(t, err)
}
