package cost

// Baseline restoration economics. These are the default model values; a
// scenario file may override any of them.
const (
	RestorationPerSqFt       = 8.25   // $/sqft water-damage restoration
	ResidentialSqFtPerPerson = 326.5  // 1600 sqft average home / 4.9 occupants
	CroplandPerHectare       = 1071.6 // $2648/acre cropland value
	FloodDiscount            = 0.243  // cropland price reduction after flooding
)

// Repair footprint per amenity category, in square feet. Category dollar
// figures are footprint x restoration cost.
const (
	FoodSqFt            = 3500.0   // average quick-service restaurant
	EducationSqFt       = 173727.0 // median high school
	TransportationSqFt  = 360.0    // parking/stop footprint
	FinancialSqFt       = 3400.0   // average bank branch
	HealthcareSqFt      = 300000.0 // small hospital
	EntertainmentSqFt   = 40000.0  // movie theatre
	OthersSqFt          = 3000.0   // small gym
	PublicServiceSqFt   = 11000.0  // police station
	FacilitiesSqFt      = 10.0     // street furniture
	WasteManagementSqFt = 4000.0   // waste transfer station
)
