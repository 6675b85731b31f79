package aggregate

import "github.com/cri-tools/study-atlas/pkg/services/resolver"

// Pool rule names, also the keys of resolver.ResolveRules output.
const (
	RuleEDVisits      = "ed_visits"
	RuleHospitalStays = "hospital_stays"
)

type CodeLabel struct {
	Code  string
	Label string
}

// CodedVariable is a categorical study variable with its code book. Labels
// render in book order; codes outside the book become "unmapped code {code}".
type CodedVariable struct {
	Variable resolver.Variable
	Codes    []CodeLabel
}

// Catalog declares every variable the aggregator computes. Waves missing a
// column report the metric as unavailable rather than zero.
type Catalog struct {
	Buprenorphine     resolver.Variable
	Methadone         resolver.Variable
	Naltrexone        resolver.Variable
	OpioidUse         resolver.Variable
	Abstinence        resolver.Variable
	Responded         resolver.Variable
	Fentanyl          resolver.Variable
	Heroin            resolver.Variable
	OpioidOverdose    resolver.Variable
	SubstanceOverdose resolver.Variable
	EDVisit           resolver.Variable
	HospitalStay      resolver.Variable
	PrimaryCare       resolver.Variable
	MentalIllness     resolver.Variable

	CountRules []resolver.Rule

	Sex        CodedVariable
	Age        CodedVariable
	Race       CodedVariable
	Education  CodedVariable
	Employment CodedVariable
	Insurance  CodedVariable
}

// DefaultCatalog returns the MOUD study codebook.
func DefaultCatalog() Catalog {
	return Catalog{
		Buprenorphine:     resolver.Variable{Name: "buprenorphine", Columns: []string{"currentbup"}},
		Methadone:         resolver.Variable{Name: "methadone", Columns: []string{"currentmmt"}},
		Naltrexone:        resolver.Variable{Name: "naltrexone", Columns: []string{"currentntx"}},
		OpioidUse:         resolver.Variable{Name: "opioid_use_30_days", Columns: []string{"opuse30"}},
		Abstinence:        resolver.Variable{Name: "opioid_abstinence_90_days", Columns: []string{"opabst90"}},
		Responded:         resolver.Variable{Name: "responded", Columns: []string{"responded"}},
		Fentanyl:          resolver.Variable{Name: "fentanyl_use_30_days", Columns: []string{"fnuse30"}},
		Heroin:            resolver.Variable{Name: "heroin_use_30_days", Columns: []string{"hruse30"}},
		OpioidOverdose:    resolver.Variable{Name: "opioid_overdose", Columns: []string{"opoverdose"}},
		SubstanceOverdose: resolver.Variable{Name: "substance_overdose", Columns: []string{"suoverdose"}},
		EDVisit:           resolver.Variable{Name: "ed_visit", Columns: []string{"edvisit"}},
		HospitalStay:      resolver.Variable{Name: "hospital_stay", Columns: []string{"hospstay"}},
		PrimaryCare:       resolver.Variable{Name: "primary_care_90_days", Columns: []string{"pcp90"}},
		MentalIllness:     resolver.Variable{Name: "mental_illness", Columns: []string{"mentalillness"}},

		CountRules: []resolver.Rule{
			{Name: RuleEDVisits, RequireAll: []string{"ed", "visit"}},
			{Name: RuleHospitalStays, RequireAll: []string{"hospital"}, AnyOf: []string{"stay", "admit"}},
		},

		Sex: CodedVariable{
			Variable: resolver.Variable{Name: "sex", Columns: []string{"sex"}},
			Codes: []CodeLabel{
				{"1", "Male"},
				{"2", "Female"},
			},
		},
		Age: CodedVariable{
			Variable: resolver.Variable{Name: "age_categories", Columns: []string{"agecat"}},
			Codes: []CodeLabel{
				{"1", "18-25"},
				{"2", "26-35"},
				{"3", "36-45"},
				{"4", "46-55"},
				{"5", "56-65"},
				{"6", "65+"},
			},
		},
		Race: CodedVariable{
			Variable: resolver.Variable{Name: "race_ethnicity", Columns: []string{"raceth"}},
			Codes: []CodeLabel{
				{"1", "White"},
				{"2", "Black/African American"},
				{"3", "Hispanic/Latino"},
				{"4", "Asian"},
				{"5", "Native American"},
				{"6", "Mixed Race"},
				{"7", "Other"},
			},
		},
		Education: CodedVariable{
			Variable: resolver.Variable{Name: "education", Columns: []string{"educat", "education"}},
			Codes: []CodeLabel{
				{"1", "Less than High School"},
				{"2", "High School/GED"},
				{"3", "Some College"},
				{"4", "College Graduate"},
				{"5", "Graduate Degree"},
				{"6", "Post-Graduate"},
			},
		},
		Employment: CodedVariable{
			Variable: resolver.Variable{Name: "employment", Columns: []string{"employed"}},
			Codes: []CodeLabel{
				{"1", "Full-time"},
				{"2", "Part-time"},
				{"3", "Unemployed"},
				{"4", "Disabled"},
				{"5", "Retired"},
				{"6", "Student"},
			},
		},
		Insurance: CodedVariable{
			Variable: resolver.Variable{Name: "insurance", Columns: []string{"insurance"}},
			Codes: []CodeLabel{
				{"0", "No Insurance"},
				{"1", "Has Insurance"},
			},
		},
	}
}
