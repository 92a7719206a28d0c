package models

// FaultType classifies a detected defect. Reports keep the raw classifier label; ParseFaultType
// maps it onto this closed set, with FaultTypeUnknown as the fallback arm.
type FaultType string

const (
	FaultTypeElectrical FaultType = "electrical"
	FaultTypeMechanical FaultType = "mechanical"
	FaultTypeLeak       FaultType = "leak"
	FaultTypeHeating    FaultType = "heating"
	FaultTypeStructural FaultType = "structural"
	FaultTypeCrack      FaultType = "crack"
	FaultTypeBroken     FaultType = "broken"
	FaultTypeUnknown    FaultType = "unknown"
)

// FaultTypes lists every recognized fault type
var FaultTypes = []FaultType{
	FaultTypeElectrical,
	FaultTypeMechanical,
	FaultTypeLeak,
	FaultTypeHeating,
	FaultTypeStructural,
	FaultTypeCrack,
	FaultTypeBroken,
}

// ParseFaultType maps a classifier label to a FaultType
func ParseFaultType(label string) FaultType {
	for _, ft := range FaultTypes {
		if string(ft) == label {
			return ft
		}
	}
	return FaultTypeUnknown
}

// FaultTypeInfo is the informational catalog entry for a fault type
type FaultTypeInfo struct {
	ID          FaultType `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}
