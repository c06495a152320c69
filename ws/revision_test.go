package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCovertsToISODatetime(t *testing.T) {
	timestamp := string(InitialRevision.Timestamp())
	assert.Equal(t, timestamp, time.Unix(0, 0).UTC().Format(RFC3339Milli))

	now := time.Now()
	generator := NewRevisionGenerator()
	revision := generator.NewRevision(now)

	timestamp = string(revision.Timestamp())
	assert.Equal(t, now.UTC().Format(RFC3339Milli), timestamp)
}

func TestRevisionsAreOrdered(t *testing.T) {
	now := time.Now()
	generator := NewRevisionGenerator()

	first := generator.NewRevision(now)
	second := generator.NewRevision(now)

	assert.Less(t, first.String(), second.String())
}
