package db

import (
	"context"

	"github.com/garageos/workshop-manager/internal/models"
)

// OBDSeedData is the bundled diagnostic reference dataset.
var OBDSeedData = []models.OBDCode{
	{
		Code:     "P0300",
		Title:    "Random/Multiple Cylinder Misfire Detected",
		Severity: "high",
		Symptoms: []string{"rough idle", "engine shaking", "loss of power", "check engine light flashing"},
		DiagnosticSteps: []string{
			"Inspect spark plugs and coil packs",
			"Check fuel injectors and fuel pressure",
			"Perform compression test on all cylinders",
		},
		PotentialParts: []string{"Spark Plug Set", "Ignition Coil", "Fuel Injector"},
	},
	{
		Code:     "P0420",
		Title:    "Catalyst System Efficiency Below Threshold (Bank 1)",
		Severity: "medium",
		Symptoms: []string{"check engine light", "reduced fuel economy", "sulphur smell from exhaust"},
		DiagnosticSteps: []string{
			"Check for exhaust leaks ahead of the catalytic converter",
			"Compare upstream and downstream O2 sensor waveforms",
			"Inspect catalytic converter for damage",
		},
		PotentialParts: []string{"Catalytic Converter", "O2 Sensor"},
	},
	{
		Code:     "P0171",
		Title:    "System Too Lean (Bank 1)",
		Severity: "medium",
		Symptoms: []string{"rough idle", "hesitation on acceleration", "high idle rpm"},
		DiagnosticSteps: []string{
			"Inspect intake for vacuum leaks",
			"Clean or test MAF sensor",
			"Check fuel pressure and filter",
		},
		PotentialParts: []string{"MAF Sensor", "Fuel Filter", "Intake Gasket"},
	},
	{
		Code:     "P0128",
		Title:    "Coolant Thermostat Below Regulating Temperature",
		Severity: "low",
		Symptoms: []string{"slow engine warm up", "poor cabin heating", "temperature gauge reads low"},
		DiagnosticSteps: []string{
			"Verify coolant level and condition",
			"Test thermostat opening temperature",
			"Check engine coolant temperature sensor readings",
		},
		PotentialParts: []string{"Thermostat", "Coolant Temperature Sensor"},
	},
	{
		Code:     "P0455",
		Title:    "Evaporative Emission System Leak Detected (Large Leak)",
		Severity: "low",
		Symptoms: []string{"check engine light", "fuel smell near vehicle"},
		DiagnosticSteps: []string{
			"Check fuel filler cap seal and torque",
			"Smoke test the EVAP system",
			"Inspect purge and vent valves",
		},
		PotentialParts: []string{"Fuel Cap", "Purge Valve", "EVAP Vent Valve"},
	},
	{
		Code:     "P0562",
		Title:    "System Voltage Low",
		Severity: "high",
		Symptoms: []string{"dim lights", "hard starting", "battery warning light", "electrical accessories cutting out"},
		DiagnosticSteps: []string{
			"Load test the battery",
			"Measure alternator charging voltage",
			"Inspect battery terminals and ground straps for corrosion",
		},
		PotentialParts: []string{"Battery", "Alternator", "Battery Terminal"},
	},
	{
		Code:     "C1201",
		Title:    "ABS Control System Malfunction",
		Severity: "critical",
		Symptoms: []string{"abs warning light", "traction control light", "reduced braking assist"},
		DiagnosticSteps: []string{
			"Read ABS module codes with a capable scanner",
			"Inspect wheel speed sensors and tone rings",
			"Check ABS pump motor operation",
		},
		PotentialParts: []string{"Wheel Speed Sensor", "ABS Pump"},
	},
	{
		Code:     "P0700",
		Title:    "Transmission Control System Malfunction",
		Severity: "critical",
		Symptoms: []string{"harsh shifting", "transmission stuck in gear", "check engine light"},
		DiagnosticSteps: []string{
			"Read transmission module codes",
			"Check transmission fluid level and condition",
			"Inspect shift solenoid wiring",
		},
		PotentialParts: []string{"Shift Solenoid", "Transmission Fluid", "Valve Body"},
	},
}

// SeedOBDCodes merges the bundled dataset into the knowledge base, skipping
// codes already present. The duplicate check runs server-side against the
// stored set, so re-running a completed seed inserts nothing.
func SeedOBDCodes(ctx context.Context, collection OBDCollection) (int, error) {
	existing, err := collection.ExistingCodes(ctx)
	if err != nil {
		return 0, err
	}
	missing := make([]models.OBDCode, 0)
	for _, code := range OBDSeedData {
		if !existing[code.Code] {
			missing = append(missing, code)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}
	return collection.InsertCodes(ctx, missing)
}
