package nmea

import "nmea2web/internal/metric"

// Observation is one raw numeric reading filed under a metric key,
// before smoothing.
type Observation struct {
	Key   metric.Key
	Value float64
}

// Extract maps a decoded sentence onto zero or more observations. A
// sentence may feed several keys at once; a variant with nothing useful
// yields an empty list, which is not an error.
func Extract(s Sentence) []Observation {
	var obs []Observation
	switch v := s.(type) {
	case VHW:
		if v.SpeedKn != nil {
			obs = append(obs, Observation{metric.BSP, *v.SpeedKn})
		}
		if v.HeadingTrueDeg != nil {
			obs = append(obs, Observation{metric.HDG, *v.HeadingTrueDeg})
		}
	case HDT:
		obs = append(obs, Observation{metric.HDG, v.HeadingDeg})
	case MWV:
		if v.True {
			obs = append(obs,
				Observation{metric.TWA, v.AngleDeg},
				Observation{metric.TWS, v.SpeedKn},
			)
		} else {
			obs = append(obs,
				Observation{metric.AWA, v.AngleDeg},
				Observation{metric.AWS, v.SpeedKn},
			)
		}
	case MWD:
		if v.DirectionDeg != nil {
			obs = append(obs, Observation{metric.TWD, *v.DirectionDeg})
		}
		if v.SpeedKn != nil {
			obs = append(obs, Observation{metric.TWS, *v.SpeedKn})
		}
	case RMC:
		if v.SpeedKn != nil {
			obs = append(obs, Observation{metric.SOG, *v.SpeedKn})
		}
		if v.CourseDeg != nil {
			obs = append(obs, Observation{metric.COG, *v.CourseDeg})
		}
	case VTG:
		if v.CourseDeg != nil {
			obs = append(obs, Observation{metric.COG, *v.CourseDeg})
		}
		if v.SpeedKn != nil {
			obs = append(obs, Observation{metric.SOG, *v.SpeedKn})
		}
	case DPT:
		depth := v.DepthM
		if v.OffsetM != nil {
			depth += *v.OffsetM
		}
		obs = append(obs, Observation{metric.DPT, depth})
	case VPW:
		obs = append(obs, Observation{metric.VMG, v.SpeedKn})
	}
	return obs
}
