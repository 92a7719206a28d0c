package services

import "github.com/smart-home-repair/repair-api/models"

type stepText struct {
	id, title, description string
}

// GenerateRepairSteps returns the ordered guidance for a classifier label.
// Every label yields a non-empty sequence; unrecognized labels get the generic two steps.
func GenerateRepairSteps(faultType string) []models.RepairStep {
	var texts []stepText

	switch models.ParseFaultType(faultType) {
	case models.FaultTypeElectrical:
		texts = []stepText{
			{"e1", "Safety First", "Turn off the main power supply to the affected area. Use a voltage tester to confirm no electricity is flowing."},
			{"e2", "Inspect the Wiring", "Carefully examine the wiring for any visible damage, burn marks, or loose connections."},
			{"e3", "Test Components", "Use a multimeter to test the continuity of switches and outlets. Replace any faulty components."},
			{"e4", "Reconnect and Test", "Securely reconnect all wires, restore power, and test the repaired components."},
		}
	case models.FaultTypeMechanical:
		texts = []stepText{
			{"m1", "Disconnect Power", "Unplug the appliance or turn off the circuit breaker before inspection."},
			{"m2", "Disassemble Carefully", "Remove the outer casing and locate the damaged mechanical parts. Take photos for reference."},
			{"m3", "Replace or Repair Parts", "Replace worn bearings, gears, or belts. Lubricate moving parts as needed."},
			{"m4", "Reassemble and Test", "Reassemble the unit following your reference photos. Test operation before full use."},
		}
	case models.FaultTypeLeak:
		texts = []stepText{
			{"l1", "Shut Off Water", "Locate and turn off the water supply valve to stop the leak immediately."},
			{"l2", "Identify the Source", "Trace the leak to its origin point. Check pipe joints, seals, and fittings."},
			{"l3", "Apply Repair", "Use appropriate sealant, replace washers, or tighten connections as needed."},
			{"l4", "Test for Leaks", "Turn water back on slowly and check for any remaining leaks. Dry the area completely."},
		}
	case models.FaultTypeHeating:
		texts = []stepText{
			{"h1", "Check Thermostat", "Verify thermostat settings and replace batteries if needed. Ensure it's set correctly."},
			{"h2", "Inspect Filters", "Check and replace air filters. Dirty filters can block airflow and reduce efficiency."},
			{"h3", "Examine Heating Elements", "For electric heaters, check heating elements for damage. For gas units, check pilot light."},
			{"h4", "Test System", "Run the heating system and monitor temperature changes. Listen for unusual sounds."},
		}
	case models.FaultTypeStructural:
		texts = []stepText{
			{"s1", "Assess Damage", "Carefully examine the extent of structural damage. Document with photos."},
			{"s2", "Clean the Area", "Remove loose debris and clean the damaged area thoroughly before repair."},
			{"s3", "Apply Filler or Sealant", "Use appropriate filler for cracks or structural adhesive for breaks. Allow proper curing time."},
			{"s4", "Finish and Protect", "Sand smooth, paint if needed, and apply protective coating to prevent future damage."},
		}
	case models.FaultTypeCrack:
		texts = []stepText{
			{"c1", "Inspect the crack", "Examine the crack size and affected area."},
			{"c2", "Clean the surface", "Remove dust, debris, and moisture."},
			{"c3", "Apply sealant", "Fill the crack using suitable filler or sealant."},
			{"c4", "Allow to dry", "Let the repaired area dry completely."},
		}
	case models.FaultTypeBroken:
		texts = []stepText{
			{"b1", "Disconnect power", "Turn off and unplug the appliance."},
			{"b2", "Replace damaged part", "Remove and replace the broken component."},
			{"b3", "Reassemble and test", "Reassemble the appliance and test functionality."},
		}
	default:
		texts = []stepText{
			{"g1", "Inspect issue", "Carefully inspect the appliance."},
			{"g2", "Consult technician", "Seek professional assistance if unsure."},
		}
	}

	steps := make([]models.RepairStep, len(texts))
	for i, t := range texts {
		steps[i] = models.RepairStep{
			ID:          t.id,
			StepNumber:  i + 1,
			Title:       t.title,
			Description: t.description,
		}
	}
	return steps
}

var faultTypeCatalog = []models.FaultTypeInfo{
	{ID: models.FaultTypeElectrical, Name: "Electrical Fault", Description: "Issues with wiring, switches, or electrical components", Icon: "zap"},
	{ID: models.FaultTypeMechanical, Name: "Mechanical Damage", Description: "Physical damage or wear to moving parts", Icon: "settings"},
	{ID: models.FaultTypeLeak, Name: "Water Leak", Description: "Leaking pipes, faucets, or water damage", Icon: "droplet"},
	{ID: models.FaultTypeHeating, Name: "Heating Issue", Description: "Problems with heating elements or HVAC", Icon: "thermometer"},
	{ID: models.FaultTypeStructural, Name: "Structural Damage", Description: "Cracks, breaks, or structural wear", Icon: "home"},
	{ID: models.FaultTypeCrack, Name: "Surface Crack", Description: "Cracks in casings, tiles, or surfaces", Icon: "scissors"},
	{ID: models.FaultTypeBroken, Name: "Broken Component", Description: "A part that has snapped or stopped working", Icon: "tool"},
}

var unknownFaultType = models.FaultTypeInfo{
	ID:          models.FaultTypeUnknown,
	Name:        "Unrecognized Fault",
	Description: "The detected issue does not match a known fault type",
	Icon:        "help-circle",
}

// FaultTypeCatalog returns the informational entry for every known fault type
func FaultTypeCatalog() []models.FaultTypeInfo {
	out := make([]models.FaultTypeInfo, len(faultTypeCatalog))
	copy(out, faultTypeCatalog)
	return out
}

// DescribeFaultType returns the catalog entry for a classifier label
func DescribeFaultType(faultType string) models.FaultTypeInfo {
	ft := models.ParseFaultType(faultType)
	for _, info := range faultTypeCatalog {
		if info.ID == ft {
			return info
		}
	}
	return unknownFaultType
}
