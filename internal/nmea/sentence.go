package nmea

// Sentence is one decoded NMEA sentence. The set of variants is closed;
// adding a sentence kind means adding a struct here, a decode arm in
// Parse, and an extraction arm in Extract.
type Sentence interface {
	sentence()
}

// VHW: water speed and heading.
type VHW struct {
	HeadingTrueDeg *float64
	HeadingMagDeg  *float64
	SpeedKn        *float64
}

// HDT: heading, true.
type HDT struct {
	HeadingDeg float64
}

// MWV: wind speed and angle relative to the vessel. True reports the
// wind corrected for boat motion, otherwise the reading is apparent.
type MWV struct {
	AngleDeg float64
	SpeedKn  float64
	True     bool
}

// MWD: wind direction and speed, ground-referenced.
type MWD struct {
	DirectionDeg *float64
	SpeedKn      *float64
}

// RMC: recommended minimum position/velocity fix.
type RMC struct {
	SpeedKn   *float64
	CourseDeg *float64
}

// VTG: course over ground and ground speed.
type VTG struct {
	CourseDeg *float64
	SpeedKn   *float64
}

// DPT: depth below transducer plus transducer offset.
type DPT struct {
	DepthM  float64
	OffsetM *float64
}

// VPW: speed made good along the wind direction.
type VPW struct {
	SpeedKn float64
}

func (VHW) sentence() {}
func (HDT) sentence() {}
func (MWV) sentence() {}
func (MWD) sentence() {}
func (RMC) sentence() {}
func (VTG) sentence() {}
func (DPT) sentence() {}
func (VPW) sentence() {}
