package nmea

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Parse decodes one raw datagram payload into a Sentence. Malformed
// framing, checksum mismatch, and unsupported sentence types are all the
// same failure kind as far as callers are concerned.
func Parse(line string) (Sentence, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return nil, fmt.Errorf("nmea: missing '$'")
	}
	star := strings.LastIndexByte(line, '*')
	if star == -1 {
		return nil, fmt.Errorf("nmea: missing checksum")
	}
	payload := line[1:star]
	ck := strings.TrimSpace(line[star+1:])
	if len(ck) < 2 {
		return nil, fmt.Errorf("nmea: short checksum")
	}
	ck = ck[:2]
	want, err := hex.DecodeString(ck)
	if err != nil || len(want) != 1 {
		return nil, fmt.Errorf("nmea: bad checksum")
	}
	got := byte(0)
	for i := 0; i < len(payload); i++ {
		got ^= payload[i]
	}
	if got != want[0] {
		return nil, fmt.Errorf("nmea: checksum mismatch")
	}

	f := strings.Split(payload, ",")
	typeField := f[0]
	if len(typeField) < 3 {
		return nil, fmt.Errorf("nmea: short type")
	}
	// Accept any talker prefix (GP, II, WI, ...); normalize to the last
	// 3 chars.
	t := typeField
	if len(t) > 3 {
		t = t[len(t)-3:]
	}

	switch strings.ToUpper(t) {
	case "VHW":
		return parseVHW(f)
	case "HDT":
		return parseHDT(f)
	case "MWV":
		return parseMWV(f)
	case "MWD":
		return parseMWD(f)
	case "RMC":
		return parseRMC(f)
	case "VTG":
		return parseVTG(f)
	case "DPT":
		return parseDPT(f)
	case "VPW":
		return parseVPW(f)
	default:
		return nil, fmt.Errorf("nmea: unsupported sentence %q", t)
	}
}

// VHW: 1=heading true, 2=T, 3=heading magnetic, 4=M, 5=speed (kn), 6=N.
func parseVHW(f []string) (Sentence, error) {
	if len(f) < 7 {
		return nil, fmt.Errorf("nmea: VHW too short")
	}
	var s VHW
	if v, ok := parseFloat(f[1]); ok {
		s.HeadingTrueDeg = &v
	}
	if v, ok := parseFloat(f[3]); ok {
		s.HeadingMagDeg = &v
	}
	if v, ok := parseFloat(f[5]); ok {
		s.SpeedKn = &v
	}
	if s.HeadingTrueDeg == nil && s.HeadingMagDeg == nil && s.SpeedKn == nil {
		return nil, fmt.Errorf("nmea: VHW empty")
	}
	return s, nil
}

// HDT: 1=heading, 2=T.
func parseHDT(f []string) (Sentence, error) {
	if len(f) < 3 {
		return nil, fmt.Errorf("nmea: HDT too short")
	}
	v, ok := parseFloat(f[1])
	if !ok {
		return nil, fmt.Errorf("nmea: HDT empty")
	}
	return HDT{HeadingDeg: v}, nil
}

// MWV: 1=angle, 2=reference (R/T), 3=speed, 4=speed units, 5=status.
func parseMWV(f []string) (Sentence, error) {
	if len(f) < 6 {
		return nil, fmt.Errorf("nmea: MWV too short")
	}
	if strings.TrimSpace(f[5]) != "A" {
		return nil, fmt.Errorf("nmea: MWV not valid")
	}
	angle, ok := parseFloat(f[1])
	if !ok {
		return nil, fmt.Errorf("nmea: MWV missing angle")
	}
	speed, ok := parseFloat(f[3])
	if !ok {
		return nil, fmt.Errorf("nmea: MWV missing speed")
	}
	kn, err := speedToKnots(speed, f[4])
	if err != nil {
		return nil, err
	}
	ref := strings.ToUpper(strings.TrimSpace(f[2]))
	if ref != "R" && ref != "T" {
		return nil, fmt.Errorf("nmea: MWV bad reference %q", ref)
	}
	return MWV{AngleDeg: angle, SpeedKn: kn, True: ref == "T"}, nil
}

// MWD: 1=direction true, 2=T, 3=direction magnetic, 4=M, 5=speed (kn), 6=N.
func parseMWD(f []string) (Sentence, error) {
	if len(f) < 7 {
		return nil, fmt.Errorf("nmea: MWD too short")
	}
	var s MWD
	if v, ok := parseFloat(f[1]); ok {
		s.DirectionDeg = &v
	}
	if v, ok := parseFloat(f[5]); ok {
		s.SpeedKn = &v
	}
	if s.DirectionDeg == nil && s.SpeedKn == nil {
		return nil, fmt.Errorf("nmea: MWD empty")
	}
	return s, nil
}

// RMC: 2=status (A=active), 7=speed over ground (kn), 8=course over ground.
func parseRMC(f []string) (Sentence, error) {
	if len(f) < 10 {
		return nil, fmt.Errorf("nmea: RMC too short")
	}
	if strings.TrimSpace(f[2]) != "A" {
		return nil, fmt.Errorf("nmea: RMC void fix")
	}
	var s RMC
	if v, ok := parseFloat(f[7]); ok {
		s.SpeedKn = &v
	}
	if v, ok := parseFloat(f[8]); ok {
		s.CourseDeg = &v
	}
	if s.SpeedKn == nil && s.CourseDeg == nil {
		return nil, fmt.Errorf("nmea: RMC empty")
	}
	return s, nil
}

// VTG: 1=course true, 2=T, 5=speed (kn), 6=N.
func parseVTG(f []string) (Sentence, error) {
	if len(f) < 7 {
		return nil, fmt.Errorf("nmea: VTG too short")
	}
	var s VTG
	if v, ok := parseFloat(f[1]); ok {
		s.CourseDeg = &v
	}
	if v, ok := parseFloat(f[5]); ok {
		s.SpeedKn = &v
	}
	if s.CourseDeg == nil && s.SpeedKn == nil {
		return nil, fmt.Errorf("nmea: VTG empty")
	}
	return s, nil
}

// DPT: 1=depth below transducer (m), 2=transducer offset (m).
func parseDPT(f []string) (Sentence, error) {
	if len(f) < 2 {
		return nil, fmt.Errorf("nmea: DPT too short")
	}
	depth, ok := parseFloat(f[1])
	if !ok {
		return nil, fmt.Errorf("nmea: DPT missing depth")
	}
	s := DPT{DepthM: depth}
	if len(f) >= 3 {
		if v, ok := parseFloat(f[2]); ok {
			s.OffsetM = &v
		}
	}
	return s, nil
}

// VPW: 1=speed (kn), 2=N.
func parseVPW(f []string) (Sentence, error) {
	if len(f) < 3 {
		return nil, fmt.Errorf("nmea: VPW too short")
	}
	v, ok := parseFloat(f[1])
	if !ok {
		return nil, fmt.Errorf("nmea: VPW empty")
	}
	return VPW{SpeedKn: v}, nil
}

func speedToKnots(v float64, unit string) (float64, error) {
	switch strings.ToUpper(strings.TrimSpace(unit)) {
	case "N":
		return v, nil
	case "K":
		return v / 1.852, nil
	case "M":
		return v * 1.9438444924406046, nil
	default:
		return 0, fmt.Errorf("nmea: unsupported speed unit %q", unit)
	}
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
