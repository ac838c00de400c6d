package engine

import (
	"fmt"

	"github.com/dm/eams-go/internal/model"
)

var guidanceCatalog = map[model.FailureType]model.Guidance{
	model.FailureUnbalance: {
		RootCauses:         []string{"Mass distribution asymmetry", "Material build-up or erosion on the impeller", "Missing balance weights", "Bent shaft"},
		ImmediateActions:   []string{"Reduce speed if possible", "Check for loose or missing components", "Inspect the impeller for deposits"},
		CorrectiveMeasures: []string{"Dynamic balancing to ISO 1940 G2.5", "Clean or replace the impeller", "Straighten or replace the shaft"},
		PreventiveMeasures: []string{"Trend 1x amplitude monthly", "Balance after every impeller repair"},
	},
	model.FailureMisalignment: {
		RootCauses:         []string{"Thermal growth not compensated", "Pipe strain", "Coupling wear", "Improper installation"},
		ImmediateActions:   []string{"Check coupling condition", "Verify hold-down bolt torque", "Check for pipe strain"},
		CorrectiveMeasures: []string{"Precision laser alignment", "Replace worn coupling elements", "Relieve pipe strain"},
		PreventiveMeasures: []string{"Hot alignment check after commissioning", "Annual alignment verification"},
	},
	model.FailureSoftFoot: {
		RootCauses:         []string{"Uneven mounting surface", "Corroded or missing shims", "Frame distortion"},
		ImmediateActions:   []string{"Check each foot with a dial indicator", "Verify anchor bolt torque"},
		CorrectiveMeasures: []string{"Machine the mounting pads", "Install stainless precision shims", "Re-grout the baseplate"},
		PreventiveMeasures: []string{"Soft foot check before every alignment", "Inspect grout for cracking"},
	},
	model.FailureBearingDefects: {
		RootCauses:         []string{"Inadequate or contaminated lubrication", "Overload", "Fatigue at end of life", "Electrical fluting"},
		ImmediateActions:   []string{"Check lubrication level and condition", "Monitor bearing temperature", "Increase monitoring frequency"},
		CorrectiveMeasures: []string{"Replace the bearing", "Correct the lubrication regime", "Install shaft grounding"},
		PreventiveMeasures: []string{"Oil analysis program", "Envelope spectrum trending", "Scheduled relubrication"},
	},
	model.FailureLooseness: {
		RootCauses:         []string{"Loose hold-down bolts", "Worn bearing fits", "Cracked frame or pedestal"},
		ImmediateActions:   []string{"Torque all fasteners", "Inspect the pedestal for cracks"},
		CorrectiveMeasures: []string{"Restore bearing housing fits", "Repair or replace the pedestal"},
		PreventiveMeasures: []string{"Fastener torque audits", "Thread locking on critical joints"},
	},
	model.FailureCavitation: {
		RootCauses:         []string{"Insufficient NPSH available", "Suction blockage", "Operation far from best efficiency point"},
		ImmediateActions:   []string{"Check suction pressure", "Inspect the suction strainer", "Reduce flow if possible"},
		CorrectiveMeasures: []string{"Raise suction head", "Resize the impeller", "Repair impeller erosion"},
		PreventiveMeasures: []string{"Monitor NPSH margin", "Keep operation near BEP"},
	},
	model.FailureElectrical: {
		RootCauses:         []string{"Broken rotor bars", "Stator winding asymmetry", "Supply voltage imbalance", "Eccentric air gap"},
		ImmediateActions:   []string{"Measure phase currents and voltages", "Check motor temperature"},
		CorrectiveMeasures: []string{"Rotor bar repair or rewind", "Correct supply imbalance", "Re-centre the rotor"},
		PreventiveMeasures: []string{"Motor current signature analysis", "Insulation resistance tests"},
	},
	model.FailureFlowTurbulence: {
		RootCauses:         []string{"Poor suction piping layout", "Throttled discharge", "Recirculation at low flow"},
		ImmediateActions:   []string{"Check the operating point against the pump curve", "Inspect the valves"},
		CorrectiveMeasures: []string{"Modify piping to add straight run", "Install a minimum flow bypass"},
		PreventiveMeasures: []string{"Process flow monitoring", "Operating envelope alarms"},
	},
	model.FailureResonance: {
		RootCauses:         []string{"Natural frequency near running speed", "Reduced structural stiffness", "Foundation deterioration"},
		ImmediateActions:   []string{"Change speed away from the resonance band", "Check the baseplate and grout"},
		CorrectiveMeasures: []string{"Stiffen the structure", "Add mass or damping", "Repair the foundation"},
		PreventiveMeasures: []string{"Bump test after structural changes", "Run-up/coast-down surveys"},
	},
}

// GuidanceFor returns the maintenance guidance for failure type t. Unknown
// types get an empty Guidance.
func GuidanceFor(t model.FailureType) model.Guidance {
	return guidanceCatalog[t]
}

var severityDisplay = map[model.Severity]model.Display{
	model.SeverityGood:     {Color: "#28a745", Icon: "check-circle"},
	model.SeverityModerate: {Color: "#ffc107", Icon: "exclamation-triangle"},
	model.SeveritySevere:   {Color: "#fd7e14", Icon: "exclamation-circle"},
	model.SeverityCritical: {Color: "#dc3545", Icon: "times-circle"},
}

func displayFor(t model.FailureType, sev model.Severity) model.Display {
	d := severityDisplay[sev]
	switch sev {
	case model.SeverityGood:
		d.Description = fmt.Sprintf("No significant %s detected", t)
	case model.SeverityModerate:
		d.Description = fmt.Sprintf("%s developing, monitor closely", t)
	case model.SeveritySevere:
		d.Description = fmt.Sprintf("%s requires planned correction", t)
	default:
		d.Description = fmt.Sprintf("%s at trip level, act immediately", t)
	}
	return d
}
