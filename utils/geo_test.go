package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// One degree of longitude at the equator is about 111.19 km
	d := HaversineDistance(0, 0, 0, 1)
	assert.InDelta(t, 111.19, d, 0.5)

	// Bengaluru to Chennai is roughly 290 km
	d = HaversineDistance(12.9716, 77.5946, 13.0827, 80.2707)
	assert.InDelta(t, 290, d, 10)
}

func TestHaversineDistanceZero(t *testing.T) {
	assert.Zero(t, HaversineDistance(12.9716, 77.5946, 12.9716, 77.5946))
}

func TestHaversineDistanceSymmetry(t *testing.T) {
	a := HaversineDistance(19.0760, 72.8777, 28.6139, 77.2090)
	b := HaversineDistance(28.6139, 77.2090, 19.0760, 72.8777)
	assert.InDelta(t, a, b, 0.0001)
}
