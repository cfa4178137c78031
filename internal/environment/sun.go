package environment

import "time"

// max speed approx 4 seconds per full day
const daylightSpeedScale = 1.0 / 100.0 / 4.0

// SunSettings drives the daylight cycle and the orientation of the sun
// path plane.
type SunSettings struct {
	time        TimeOfDay
	cycleActive bool
	cycleSpeed  uint16

	yaw    Angle
	tilt   Angle
	height uint16
}

// DefaultSunSettings starts at noon with an inactive cycle and roughly
// earth axial plane tilt.
func DefaultSunSettings() *SunSettings {
	return &SunSettings{
		time: NewTimeOfDay(12, 0, 0),
		tilt: Angle(23),
	}
}

// TimeOfDay returns the current clock position.
func (s *SunSettings) TimeOfDay() TimeOfDay { return s.time }

// CycleActive reports whether time advances on its own.
func (s *SunSettings) CycleActive() bool { return s.cycleActive }

// CycleSpeed returns the daylight cycle speed setting.
func (s *SunSettings) CycleSpeed() uint16 { return s.cycleSpeed }

// PlaneYaw returns the sun path plane yaw.
func (s *SunSettings) PlaneYaw() Angle { return s.yaw }

// PlaneTilt returns the sun path plane tilt.
func (s *SunSettings) PlaneTilt() Angle { return s.tilt }

// PlaneHeight returns the sun path plane height setting.
func (s *SunSettings) PlaneHeight() uint16 { return s.height }

// SetTimeOfDay moves the clock to a normalized day fraction.
func (s *SunSettings) SetTimeOfDay(linear float32) { s.time.Update(linear) }

// SetPlaneYaw sets the sun path plane yaw in degrees.
func (s *SunSettings) SetPlaneYaw(yaw uint16) { s.yaw = Angle(yaw) }

// SetPlaneTilt sets the sun path plane tilt in degrees.
func (s *SunSettings) SetPlaneTilt(tilt uint16) { s.tilt = Angle(tilt) }

// SetPlaneHeight sets the sun path plane height.
func (s *SunSettings) SetPlaneHeight(height uint16) { s.height = height }

// ActivateCycle toggles automatic time advancement.
func (s *SunSettings) ActivateCycle(active bool) { s.cycleActive = active }

// SetCycleSpeed sets the automatic advancement speed.
func (s *SunSettings) SetCycleSpeed(speed uint16) { s.cycleSpeed = speed }

// Advance moves the clock forward by a frame delta when the cycle is
// active and reports whether the time changed.
func (s *SunSettings) Advance(delta time.Duration) bool {
	if !s.cycleActive {
		return false
	}
	speed := daylightSpeedScale * float32(s.cycleSpeed)
	before := s.time
	s.time.Update(s.time.Normalized() + float32(delta.Seconds())*speed)
	return s.time != before
}
