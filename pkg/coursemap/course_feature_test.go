package coursemap

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/fitglue/coursemap/pkg/domain/filter"
	"github.com/fitglue/coursemap/pkg/domain/track"
	"github.com/fitglue/coursemap/pkg/testing/fixtures"
)

type courseScenario struct {
	track  *track.Track
	cfg    Config
	course *Course
	err    error
}

func (s *courseScenario) aTrackThroughThePoints(table *godog.Table) error {
	var lats, longs, alts []float64
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		vals := make([]float64, len(row.Cells))
		for j, cell := range row.Cells {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell.Value), 64)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			vals[j] = v
		}
		lats, longs, alts = append(lats, vals[0]), append(longs, vals[1]), append(alts, vals[2])
	}
	s.track = fixtures.FromPoints(lats, longs, alts)
	return nil
}

func (s *courseScenario) theAltitudeFilterIs(mode string, window int) error {
	m, err := filter.ParseMode(mode)
	if err != nil {
		return err
	}
	s.cfg.AltitudeFilter = m
	s.cfg.AveragingWindow = window
	return nil
}

func (s *courseScenario) theCourseIsColouredBy(channel string) error {
	s.cfg.ColorChannel = channel
	return nil
}

func (s *courseScenario) thePlotWindowIs(start, finish float64) error {
	s.cfg.PlotStart, s.cfg.PlotFinish = start, finish
	return nil
}

func (s *courseScenario) theCourseIsBuilt() error {
	s.course, s.err = Build(s.track, s.cfg)
	return nil
}

func (s *courseScenario) built() error {
	if s.err != nil {
		return fmt.Errorf("build failed: %w", s.err)
	}
	return nil
}

func (s *courseScenario) theCourseHasSamples(n int) error {
	if err := s.built(); err != nil {
		return err
	}
	if s.course.Len() != n {
		return fmt.Errorf("expected %d samples, got %d", n, s.course.Len())
	}
	return nil
}

func (s *courseScenario) theFarthestSampleIsNumber(i int) error {
	if err := s.built(); err != nil {
		return err
	}
	if s.course.Farthest.Index != i {
		return fmt.Errorf("expected farthest index %d, got %d", i, s.course.Farthest.Index)
	}
	return nil
}

func (s *courseScenario) theFilteredAltitudesAre(list string) error {
	if err := s.built(); err != nil {
		return err
	}
	parts := strings.Split(list, ",")
	if len(parts) != len(s.course.Altitude) {
		return fmt.Errorf("expected %d altitudes, got %d", len(parts), len(s.course.Altitude))
	}
	for i, p := range parts {
		want, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return err
		}
		if math.Abs(s.course.Altitude[i]-want) > 1e-3 {
			return fmt.Errorf("altitude %d: expected %v, got %v", i, want, s.course.Altitude[i])
		}
	}
	return nil
}

func (s *courseScenario) theFirstSampleSitsAtTheOrigin() error {
	if err := s.built(); err != nil {
		return err
	}
	if s.course.X[0] != 0 || s.course.Y[0] != 0 {
		return fmt.Errorf("first sample at (%v, %v)", s.course.X[0], s.course.Y[0])
	}
	return nil
}

func (s *courseScenario) everyColourPositionIs(v float64) error {
	if err := s.built(); err != nil {
		return err
	}
	if !s.course.ColorFlat {
		return errors.New("expected a flat colour series")
	}
	for i, c := range s.course.Color {
		if c != v {
			return fmt.Errorf("colour %d: expected %v, got %v", i, v, c)
		}
	}
	return nil
}

func (s *courseScenario) buildingFailsBecauseTheCourseHasNoExtent() error {
	if !errors.Is(s.err, ErrDegenerateGeometry) {
		return fmt.Errorf("expected ErrDegenerateGeometry, got %v", s.err)
	}
	return nil
}

func (s *courseScenario) buildingFailsBecauseTheTrackIsEmpty() error {
	if !errors.Is(s.err, track.ErrEmptyTrack) {
		return fmt.Errorf("expected ErrEmptyTrack, got %v", s.err)
	}
	return nil
}

func initializeCourseScenario(ctx *godog.ScenarioContext) {
	s := &courseScenario{cfg: DefaultConfig()}

	ctx.Step(`^a track through the points:$`, s.aTrackThroughThePoints)
	ctx.Step(`^the altitude filter is "([^"]*)" with a window of (\d+)$`, s.theAltitudeFilterIs)
	ctx.Step(`^the course is coloured by "([^"]*)"$`, s.theCourseIsColouredBy)
	ctx.Step(`^the plot window is (\d+(?:\.\d+)?) to (\d+(?:\.\d+)?) km$`, s.thePlotWindowIs)
	ctx.Step(`^the course is built$`, s.theCourseIsBuilt)
	ctx.Step(`^the course has (\d+) samples$`, s.theCourseHasSamples)
	ctx.Step(`^the farthest sample is number (\d+)$`, s.theFarthestSampleIsNumber)
	ctx.Step(`^the filtered altitudes are "([^"]*)"$`, s.theFilteredAltitudesAre)
	ctx.Step(`^the first sample sits at the origin$`, s.theFirstSampleSitsAtTheOrigin)
	ctx.Step(`^every colour position is (\d+(?:\.\d+)?)$`, s.everyColourPositionIs)
	ctx.Step(`^building fails because the course has no extent$`, s.buildingFailsBecauseTheCourseHasNoExtent)
	ctx.Step(`^building fails because the track is empty$`, s.buildingFailsBecauseTheTrackIsEmpty)
}

func TestCourseFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "coursemap",
		ScenarioInitializer: initializeCourseScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
