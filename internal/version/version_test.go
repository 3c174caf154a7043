package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStampedValuesWin(t *testing.T) {
	prevV, prevC, prevB := Version, GitCommit, BuildTime
	defer func() { Version, GitCommit, BuildTime = prevV, prevC, prevB }()

	Version, GitCommit, BuildTime = "v1.2.3", "abc123", "2026-01-02"
	assert.Equal(t, "pageloader v1.2.3 (commit abc123, built 2026-01-02)", String())
}

func TestUnstampedStillRenders(t *testing.T) {
	assert.Regexp(t, `^pageloader \S+ \(commit \S+, built \S+\)$`, String())
}
