package engine

import (
	"math"

	"github.com/dm/eams-go/internal/model"
)

// ISO 10816-3 zone limits on radial velocity RMS (mm/s).
const (
	isoZoneAB = 2.8
	isoZoneBC = 7.1
	isoZoneCD = 11.0
)

// Band limits per failure family. Unbalance follows the ISO zones; the
// composite indices use empirically chosen bands.
var detectorThresholds = map[model.FailureType]model.Thresholds{
	model.FailureUnbalance:      {Good: isoZoneAB, Moderate: isoZoneBC, Severe: isoZoneCD, Critical: 18.0},
	model.FailureMisalignment:   {Good: 1.5, Moderate: 3.0, Severe: 5.0, Critical: 8.0},
	model.FailureSoftFoot:       {Good: 1.0, Moderate: 2.5, Severe: 4.0, Critical: 6.0},
	model.FailureBearingDefects: {Good: 2.0, Moderate: 4.0, Severe: 6.0, Critical: 9.0},
	model.FailureLooseness:      {Good: 2.0, Moderate: 4.5, Severe: 7.0, Critical: 10.0},
	model.FailureCavitation:     {Good: 2.0, Moderate: 4.0, Severe: 7.0, Critical: 10.0},
	model.FailureElectrical:     {Good: 1.5, Moderate: 3.0, Severe: 5.0, Critical: 8.0},
	model.FailureFlowTurbulence: {Good: 1.5, Moderate: 3.0, Severe: 5.0, Critical: 8.0},
	model.FailureResonance:      {Good: 1.0, Moderate: 2.5, Severe: 4.5, Critical: 7.0},
}

// ThresholdsFor returns the band limits used for failure type t.
func ThresholdsFor(t model.FailureType) model.Thresholds {
	return detectorThresholds[t]
}

// ISOZone returns the ISO 10816-3 evaluation zone (A–D) for a radial velocity RMS.
func ISOZone(radialRMS float64) string {
	switch {
	case radialRMS <= isoZoneAB:
		return "A"
	case radialRMS <= isoZoneBC:
		return "B"
	case radialRMS <= isoZoneCD:
		return "C"
	default:
		return "D"
	}
}

// measures holds the directional combinations shared by several detectors.
type measures struct {
	radialVel float64 // √((VH²+VV²)/2)
	radialAcc float64 // √((AH²+AV²)/2)
	overallV  float64 // RMS over the three velocity axes
	overallA  float64 // RMS over the three acceleration axes
	zone      string
}

func newMeasures(s model.VibrationSnapshot) measures {
	r := rms(s.VH, s.VV)
	return measures{
		radialVel: r,
		radialAcc: rms(s.AH, s.AV),
		overallV:  rms(s.VH, s.VV, s.VA),
		overallA:  rms(s.AH, s.AV, s.AA),
		zone:      ISOZone(r),
	}
}

// detector computes (index, governing scalar) for one failure family.
type detector struct {
	failure model.FailureType
	eval    func(s model.VibrationSnapshot, m measures) (index, governing float64)
}

// detectors run in this order on every snapshot.
var detectors = []detector{
	{model.FailureUnbalance, unbalanceIndex},
	{model.FailureMisalignment, misalignmentIndex},
	{model.FailureSoftFoot, softFootIndex},
	{model.FailureBearingDefects, bearingIndex},
	{model.FailureLooseness, loosenessIndex},
	{model.FailureCavitation, cavitationIndex},
	{model.FailureElectrical, electricalIndex},
	{model.FailureFlowTurbulence, flowTurbulenceIndex},
	{model.FailureResonance, resonanceIndex},
}

// RunDetectors evaluates all nine failure-mode detectors in their fixed order.
func RunDetectors(s model.VibrationSnapshot) []model.FailureModeResult {
	m := newMeasures(s)
	out := make([]model.FailureModeResult, 0, len(detectors))
	for _, d := range detectors {
		idx, gov := d.eval(s, m)
		out = append(out, newResult(d.failure, idx, gov, m.zone))
	}
	return out
}

func newResult(t model.FailureType, index, governing float64, zone string) model.FailureModeResult {
	index = math.Max(0, finiteOr(index, 0))
	governing = math.Max(0, finiteOr(governing, 0))
	th := detectorThresholds[t]
	sev := th.Classify(governing)
	return model.FailureModeResult{
		Type:       t,
		Severity:   sev,
		Index:      index,
		Governing:  governing,
		Thresholds: th,
		ISOZone:    zone,
		Guidance:   GuidanceFor(t),
		Display:    displayFor(t, sev),
	}
}

// unbalanceIndex: radial-dominant 1× vibration. Severity follows the ISO zone
// of the radial RMS; the index discounts readings with strong axial content.
func unbalanceIndex(s model.VibrationSnapshot, m measures) (float64, float64) {
	asym := safeDivide(math.Abs(s.VH-s.VV), math.Max(s.VH, s.VV))
	axialRatio := safeDivide(s.VA, m.radialVel)
	idx := m.radialVel * (1 + 0.5*asym) / (1 + axialRatio)
	return idx, m.radialVel
}

// misalignmentIndex blends axial/radial velocity and acceleration cross-ratios
// scaled by axial amplitude.
func misalignmentIndex(s model.VibrationSnapshot, m measures) (float64, float64) {
	velRatio := safeDivide(s.VA, m.radialVel)
	accRatio := safeDivide(s.AA, m.radialAcc)
	crossRatio := safeDivide(math.Abs(s.VH-s.VV), m.radialVel)
	idx := s.VA * (0.5*velRatio + 0.3*accRatio + 0.2*crossRatio)
	return idx, idx
}

// softFootIndex measures the vertical/horizontal disparity a rocking foot produces.
func softFootIndex(s model.VibrationSnapshot, _ measures) (float64, float64) {
	idx := 0.6*math.Abs(s.VV-s.VH) + 0.4*math.Abs(s.AV-s.AH)
	return idx, idx
}

// bearingIndex blends velocity RMS, acceleration RMS, the peak envelope and a
// speed-dependent geometry term (defect frequencies scale with shaft speed).
func bearingIndex(s model.VibrationSnapshot, m measures) (float64, float64) {
	peakEnvelope := math.Sqrt2 * math.Max(s.AH, math.Max(s.AV, s.AA))
	geometry := m.radialAcc * s.Speed / 3000
	idx := 0.3*m.overallV + 0.4*m.overallA + 0.2*peakEnvelope + 0.1*geometry
	return idx, idx
}

// loosenessIndex weights vertical amplitude by its dominance over the radial plane.
func loosenessIndex(s model.VibrationSnapshot, m measures) (float64, float64) {
	idx := (0.6*s.VV + 0.4*s.AV) * safeDivide(s.VV, m.radialVel)
	return idx, idx
}

// cavitationIndex: broadband acceleration without a matching velocity rise.
func cavitationIndex(s model.VibrationSnapshot, m measures) (float64, float64) {
	idx := 0.5 * m.overallA * m.overallA / math.Max(m.overallV, 0.1) * (1 + s.Frequency/1000)
	return idx, idx
}

// electricalIndex amplifies horizontal/axial response by the rotor slip
// implied by supply frequency and shaft speed.
func electricalIndex(s model.VibrationSnapshot, _ measures) (float64, float64) {
	slip := 0.0
	if p := polePairs(s.Frequency, s.Speed); p > 0 {
		sync := s.Frequency * 60 / float64(p)
		slip = safeDivide(sync-s.Speed, sync)
	}
	idx := 0.5 * (0.5*s.VH + 0.3*s.AH + 0.2*s.AA) * (1 + 5*math.Abs(slip))
	return idx, idx
}

// flowTurbulenceIndex: directional scatter plus frequency-weighted acceleration.
func flowTurbulenceIndex(s model.VibrationSnapshot, m measures) (float64, float64) {
	idx := stddev(s.VH, s.VV, s.VA) + 0.3*m.overallA*s.Frequency/100
	return idx, idx
}

// resonanceIndex: one direction amplified well above the others.
func resonanceIndex(s model.VibrationSnapshot, m measures) (float64, float64) {
	peak := math.Max(s.VH, math.Max(s.VV, s.VA))
	amplification := safeDivide(peak, mean(s.VH, s.VV, s.VA))
	if amplification < 1 {
		amplification = 1
	}
	idx := 2 * m.radialVel * (amplification - 1)
	return idx, idx
}
