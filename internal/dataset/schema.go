package dataset

// Columns of the Electric Vehicle Population dataset referenced by the analyses.
const (
	ColMake                = "Make"
	ColModel               = "Model"
	ColModelYear           = "Model Year"
	ColElectricRange       = "Electric Range"
	ColBaseMSRP            = "Base MSRP"
	ColVehicleType         = "Electric Vehicle Type"
	ColCity                = "City"
	ColCounty              = "County"
	ColPostalCode          = "Postal Code"
	ColLegislativeDistrict = "Legislative District"
	ColDOLVehicleID        = "DOL Vehicle ID"
	ColCensusTract         = "2020 Census Tract"
)

// RequiredColumns lists every column some analysis step reads.
var RequiredColumns = []string{
	ColMake,
	ColModel,
	ColModelYear,
	ColElectricRange,
	ColBaseMSRP,
	ColVehicleType,
	ColCity,
	ColCounty,
	ColPostalCode,
	ColLegislativeDistrict,
	ColDOLVehicleID,
	ColCensusTract,
}

// Kind is the scalar type of a column.
type Kind int

const (
	// Numeric columns hold float64 values.
	Numeric Kind = iota
	// Categorical columns hold strings.
	Categorical
	// Boolean columns hold indicator values produced by encoding.
	Boolean
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Boolean:
		return "boolean"
	default:
		return "unknown"
	}
}
