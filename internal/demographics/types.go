package demographics

// Population holds resident counts for an area.
type Population struct {
	Total  int `json:"total"`
	Male   int `json:"male"`
	Female int `json:"female"`
}

// Households holds the household count for an area.
type Households struct {
	Total int `json:"total"`
}

// Deprivation holds the four household deprivation dimension counts.
type Deprivation struct {
	Employment int `json:"employment"`
	Education  int `json:"education"`
	Health     int `json:"health"`
	Housing    int `json:"housing"`
}

// AreaStatistics is the immutable per-area census record, keyed by area
// code and sourced externally. Absent map entries mean a zero count.
type AreaStatistics struct {
	AreaCode             string         `json:"area_code"`
	Population           Population     `json:"population"`
	Households           Households     `json:"households"`
	AgeGroups            map[string]int `json:"age_groups,omitempty"`
	CountryOfBirth       map[string]int `json:"country_of_birth,omitempty"`
	HouseholdSizes       map[string]int `json:"household_sizes,omitempty"`
	HouseholdComposition map[string]int `json:"household_composition,omitempty"`
	HouseholdDeprivation Deprivation    `json:"household_deprivation"`
}

// CountShare is one labelled count with its share of the relevant total.
type CountShare struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// QueryMeta echoes the aggregation inputs. AreaSqKM requires geometry not
// available at aggregation time and is always 0 here.
type QueryMeta struct {
	AreaCodes       []string `json:"area_codes"`
	TotalPopulation int      `json:"total_population"`
	AreaSqKM        float64  `json:"area_sq_km"`
}

// PopulationSummary holds consolidated population totals and shares.
type PopulationSummary struct {
	Total         int     `json:"total"`
	Male          int     `json:"male"`
	Female        int     `json:"female"`
	MalePercent   float64 `json:"male_percent"`
	FemalePercent float64 `json:"female_percent"`
}

// HouseholdSummary holds the consolidated household total and average size.
type HouseholdSummary struct {
	Total       int     `json:"total"`
	AverageSize float64 `json:"average_size"`
}

// DeprivationSummary holds consolidated deprivation counts and their share
// of all households.
type DeprivationSummary struct {
	Employment        int     `json:"employment"`
	Education         int     `json:"education"`
	Health            int     `json:"health"`
	Housing           int     `json:"housing"`
	EmploymentPercent float64 `json:"employment_percent"`
	EducationPercent  float64 `json:"education_percent"`
	HealthPercent     float64 `json:"health_percent"`
	HousingPercent    float64 `json:"housing_percent"`
}

// AggregationResult is the consolidated report for a selected area set.
type AggregationResult struct {
	Query                QueryMeta          `json:"query"`
	Population           PopulationSummary  `json:"population"`
	Households           HouseholdSummary   `json:"households"`
	AgeProfile           []CountShare       `json:"age_profile"`
	CountryOfBirth       []CountShare       `json:"country_of_birth"`
	HouseholdSizes       []CountShare       `json:"household_sizes"`
	HouseholdComposition []CountShare       `json:"household_composition"`
	Deprivation          DeprivationSummary `json:"deprivation"`
}
