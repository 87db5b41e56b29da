package units

import (
	"errors"
	"fmt"
	"math"

	"github.com/muktihari/fit/kit/semicircles"
)

// Unit tags a scalar so converters can refuse values they were not written for.
type Unit string

const (
	Semicircles     Unit = "semicircles"
	Degrees         Unit = "degrees"
	Meters          Unit = "m"
	Kilometers      Unit = "km"
	MetersPerSecond Unit = "m/s"
	KilometersPerH  Unit = "km/h"
	SecondsPerKm    Unit = "sec/km"
	RPM             Unit = "rpm"
	SPM             Unit = "spm"
	BPM             Unit = "bpm"
	HRR             Unit = "%hrr"
	Watts           Unit = "watts"
	Seconds         Unit = "s"
)

// Heart rate reserve defaults.
const (
	DefaultRestingHR = 48
	DefaultMaxHR     = 180
)

const semicirclesPerDegree = (1 << 31) / 180.0

var ErrUnitMismatch = errors.New("unit mismatch")

// UnitMismatchError is returned when a converter receives a value tagged with the wrong unit.
type UnitMismatchError struct {
	Converter string
	Want      Unit
	Got       Unit
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %q, got %q", e.Converter, e.Want, e.Got)
}

func (e *UnitMismatchError) Unwrap() error {
	return ErrUnitMismatch
}

// Quantity is a value together with the unit it is expressed in.
type Quantity struct {
	Value float64
	Unit  Unit
}

func Q(v float64, u Unit) Quantity {
	return Quantity{Value: v, Unit: u}
}

func (q Quantity) String() string {
	return fmt.Sprintf("%g %s", q.Value, q.Unit)
}

func expect(converter string, q Quantity, want Unit) error {
	if q.Unit != want {
		return &UnitMismatchError{Converter: converter, Want: want, Got: q.Unit}
	}
	return nil
}

// SemicirclesToDegrees converts a FIT position into decimal degrees.
func SemicirclesToDegrees(q Quantity) (Quantity, error) {
	if err := expect("SemicirclesToDegrees", q, Semicircles); err != nil {
		return Quantity{}, err
	}
	return Q(q.Value/semicirclesPerDegree, Degrees), nil
}

// SemicirclesToDegreesRaw is the unchecked form used while decoding FIT records.
func SemicirclesToDegreesRaw(v int32) float64 {
	return semicircles.ToDegrees(v)
}

// DegreesToSemicircles converts decimal degrees into FIT semicircles.
func DegreesToSemicircles(q Quantity) (Quantity, error) {
	if err := expect("DegreesToSemicircles", q, Degrees); err != nil {
		return Quantity{}, err
	}
	return Q(float64(semicircles.ToSemicircles(q.Value)), Semicircles), nil
}

// SpeedToPace converts m/s into sec/km. A standstill has infinite pace.
func SpeedToPace(q Quantity) (Quantity, error) {
	if err := expect("SpeedToPace", q, MetersPerSecond); err != nil {
		return Quantity{}, err
	}
	if q.Value == 0 {
		return Q(math.Inf(1), SecondsPerKm), nil
	}
	return Q(1000/q.Value, SecondsPerKm), nil
}

// SpeedToKilometersPerHour converts m/s into km/h.
func SpeedToKilometersPerHour(q Quantity) (Quantity, error) {
	if err := expect("SpeedToKilometersPerHour", q, MetersPerSecond); err != nil {
		return Quantity{}, err
	}
	return Q(q.Value*3.6, KilometersPerH), nil
}

func MetersToKilometers(q Quantity) (Quantity, error) {
	if err := expect("MetersToKilometers", q, Meters); err != nil {
		return Quantity{}, err
	}
	return Q(q.Value/1000, Kilometers), nil
}

// CadenceToPitch converts revolutions per minute into steps per minute (two steps per revolution).
func CadenceToPitch(q Quantity) (Quantity, error) {
	if err := expect("CadenceToPitch", q, RPM); err != nil {
		return Quantity{}, err
	}
	return Q(q.Value*2, SPM), nil
}

// HeartRateToReserve expresses a heart rate as a percentage of heart rate reserve.
func HeartRateToReserve(q Quantity, rest, max float64) (Quantity, error) {
	if err := expect("HeartRateToReserve", q, BPM); err != nil {
		return Quantity{}, err
	}
	if max <= rest {
		return Quantity{}, fmt.Errorf("max heart rate %v must exceed resting heart rate %v", max, rest)
	}
	return Q((q.Value-rest)/(max-rest)*100, HRR), nil
}

// Half splits a value in two, e.g. a round trip into its outbound leg.
func Half(v float64) float64 {
	return v / 2
}
