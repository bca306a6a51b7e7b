// Package nmea decodes NMEA 0183 sentences into a closed set of typed
// variants and maps them onto metric observations.
//
// Only the instrument sentences the dashboard cares about are decoded
// (VHW, HDT, MWV, MWD, RMC, VTG, DPT, VPW). Anything else is an
// "unrecognized input" error, which the ingest loop treats as non-fatal.
package nmea
