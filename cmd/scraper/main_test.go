package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotObjectName(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 30, 5, 0, time.UTC)

	assert.Equal(t, "20260831T143005Z_schemes.csv", snapshotObjectName("./data/schemes.csv", now))
	assert.Equal(t, "20260831T143005Z_out.csv", snapshotObjectName("/tmp/out.csv", now))
}

func TestSnapshotObjectNameNormalizesToUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 8, 31, 20, 0, 5, 0, ist)

	assert.Equal(t, "20260831T143005Z_schemes.csv", snapshotObjectName("schemes.csv", now))
}
