package domain

// Rate is a flag prevalence as a percentage. Available is false when the
// underlying column does not exist in the wave, which is distinct from a
// measured 0%.
type Rate struct {
	Available bool
	Percent   float64 // 66.7
}

// Average is the mean over a pool of numeric observations. Available is
// false when no column matched at all; a matched column with zero numeric
// values yields Value 0 with Available true.
type Average struct {
	Available    bool
	Value        float64 // 1.5
	Observations int
}

type FlagStat struct {
	Count int
	Rate  Rate
}

type Bucket struct {
	Label string // "Male", "unmapped code 9"
	Count int
}

type Distribution struct {
	Variable string
	Total    int // records with a non-blank value
	Buckets  []Bucket
}

type TreatmentOutcomes struct {
	Timepoint     Timepoint
	TotalPatients int
	Buprenorphine FlagStat
	Methadone     FlagStat
	Naltrexone    FlagStat
	OpioidUse     FlagStat // any opioid use, past 30 days
	Abstinence    FlagStat // 90-day opioid abstinence
	Responded     FlagStat
}

type DrugUsePatterns struct {
	Timepoint         Timepoint
	TotalPatients     int
	Fentanyl          FlagStat
	Heroin            FlagStat
	OpioidOverdose    FlagStat
	SubstanceOverdose FlagStat
}

type UtilizationStats struct {
	Timepoint                 Timepoint
	TotalPatients             int
	EDVisits                  Average
	HospitalStays             Average
	PatientsWithEDVisits      int
	PatientsWithHospitalStays int
	EDVisit                   FlagStat
	HospitalStay              FlagStat
	PrimaryCare               FlagStat // saw a PCP within 90 days
}

type Demographics struct {
	TotalPatients int
	Sex           Distribution
	AgeCategories Distribution
	RaceEthnicity Distribution
	Education     Distribution
	Employment    Distribution
	Insurance     Distribution
	MentalIllness FlagStat
}

// WaveAggregates bundles everything computed for a single wave.
type WaveAggregates struct {
	Timepoint    Timepoint
	Outcomes     TreatmentOutcomes
	DrugUse      DrugUsePatterns
	Utilization  UtilizationStats
	Demographics *Demographics // baseline only
}
