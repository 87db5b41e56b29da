package units

import (
	"errors"
	"math"
	"testing"

	"github.com/muktihari/fit/kit/semicircles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemicirclesToDegrees(t *testing.T) {
	q, err := SemicirclesToDegrees(Q(math.Pow(2, 31)/2, Semicircles))
	require.NoError(t, err)
	assert.Equal(t, Degrees, q.Unit)
	assert.InDelta(t, 90.0, q.Value, 1e-6)

	back, err := DegreesToSemicircles(q)
	require.NoError(t, err)
	assert.InDelta(t, math.Pow(2, 31)/2, back.Value, 1)

	assert.InDelta(t, 35.0, SemicirclesToDegreesRaw(int32(math.Round(35*semicirclesPerDegree))), 1e-6)
}

func TestSemicircles_MatchesEncoder(t *testing.T) {
	for _, deg := range []float64{35.6812362, -122.419416, 0, 89.9999} {
		sc := semicircles.ToSemicircles(deg)
		assert.InDelta(t, deg, SemicirclesToDegreesRaw(sc), 1e-7)

		q, err := SemicirclesToDegrees(Q(float64(sc), Semicircles))
		require.NoError(t, err)
		assert.InDelta(t, SemicirclesToDegreesRaw(sc), q.Value, 1e-12)

		back, err := DegreesToSemicircles(Q(deg, Degrees))
		require.NoError(t, err)
		assert.Equal(t, float64(sc), back.Value)
	}
}

func TestConvertersRejectWrongUnit(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (Quantity, error)
	}{
		{"semicircles", func() (Quantity, error) { return SemicirclesToDegrees(Q(1, Degrees)) }},
		{"pace", func() (Quantity, error) { return SpeedToPace(Q(3, KilometersPerH)) }},
		{"km", func() (Quantity, error) { return MetersToKilometers(Q(3, Kilometers)) }},
		{"pitch", func() (Quantity, error) { return CadenceToPitch(Q(80, SPM)) }},
		{"hrr", func() (Quantity, error) { return HeartRateToReserve(Q(150, HRR), 48, 180) }},
		{"kmh", func() (Quantity, error) { return SpeedToKilometersPerHour(Q(150, SecondsPerKm)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnitMismatch))
			var mismatch *UnitMismatchError
			assert.True(t, errors.As(err, &mismatch))
		})
	}
}

func TestSpeedToPace(t *testing.T) {
	q, err := SpeedToPace(Q(4, MetersPerSecond))
	require.NoError(t, err)
	assert.Equal(t, SecondsPerKm, q.Unit)
	assert.InDelta(t, 250.0, q.Value, 1e-9)

	stopped, err := SpeedToPace(Q(0, MetersPerSecond))
	require.NoError(t, err)
	assert.True(t, math.IsInf(stopped.Value, 1))
}

func TestSimpleConversions(t *testing.T) {
	km, err := MetersToKilometers(Q(42195, Meters))
	require.NoError(t, err)
	assert.InDelta(t, 42.195, km.Value, 1e-9)

	spm, err := CadenceToPitch(Q(88, RPM))
	require.NoError(t, err)
	assert.Equal(t, 176.0, spm.Value)
	assert.Equal(t, SPM, spm.Unit)

	kmh, err := SpeedToKilometersPerHour(Q(10, MetersPerSecond))
	require.NoError(t, err)
	assert.InDelta(t, 36.0, kmh.Value, 1e-9)

	hrr, err := HeartRateToReserve(Q(114, BPM), DefaultRestingHR, DefaultMaxHR)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, hrr.Value, 1e-9)

	_, err = HeartRateToReserve(Q(114, BPM), 180, 48)
	assert.Error(t, err)

	assert.Equal(t, 2.5, Half(5))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "5:30", FormatMinSec(330))
	assert.Equal(t, "0:59", FormatMinSec(59.4))
	assert.Equal(t, "--:--", FormatMinSec(math.Inf(1)))
	assert.Equal(t, "1h02m03s", FormatHMS(3723))
	assert.Equal(t, "0h00m00s", FormatHMS(0))
	assert.Equal(t, "12,345", FormatCount(12345))
	assert.Equal(t, "1,234.50", FormatNumber(1234.5, 2))
}
