package api

// Snapshot is the dashboard artifact. Serialization is deterministic: map
// keys marshal sorted, bucket slices carry their own order, and
// StudyOverview.TimepointOrder tells the UI how to walk the wave maps.
type Snapshot struct {
	StudyOverview         StudyOverview                `json:"study_overview"`
	TreatmentOutcomes     map[string]TreatmentOutcomes `json:"treatment_outcomes"`
	DrugUsePatterns       map[string]DrugUsePatterns   `json:"drug_use_patterns"`
	HealthcareUtilization map[string]Utilization       `json:"healthcare_utilization"`
	Demographics          *Demographics                `json:"demographics,omitempty"`
	Medications           map[string]Medication        `json:"moud_medications"`
	Datasets              map[string]DatasetInfo       `json:"datasets"`
}

type StudyOverview struct {
	Title                string                   `json:"title"`
	Description          string                   `json:"description"`
	TotalPatients        int                      `json:"total_patients"`
	StudyPeriod          StudyPeriod              `json:"study_period"`
	TimepointOrder       []string                 `json:"timepoint_order"`
	Timepoints           map[string]TimepointInfo `json:"timepoints"`
	StudyLocations       []string                 `json:"study_locations"`
	DataCollectionPeriod string                   `json:"data_collection_period"`
	ResponseRates        map[string]string        `json:"response_rates"`
}

type StudyPeriod struct {
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Duration       string `json:"duration"`
	FollowUpPeriod string `json:"follow_up_period"`
}

type TimepointInfo struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// FlagStat reports a binary study variable. Rate is null when the variable's
// column is absent from the wave; a measured zero is 0, never null.
type FlagStat struct {
	Count     int      `json:"count"`
	Rate      *float64 `json:"rate"`
	Available bool     `json:"available"`
}

type TreatmentOutcomes struct {
	Timepoint     string   `json:"timepoint"`
	TotalPatients int      `json:"total_patients"`
	Buprenorphine FlagStat `json:"buprenorphine"`
	Methadone     FlagStat `json:"methadone"`
	Naltrexone    FlagStat `json:"naltrexone"`
	OpioidUse     FlagStat `json:"opioid_use_30_days"`
	Abstinence    FlagStat `json:"opioid_abstinence_90_days"`
	Responded     FlagStat `json:"responded"`
}

type DrugUsePatterns struct {
	Timepoint         string   `json:"timepoint"`
	TotalPatients     int      `json:"total_patients"`
	Fentanyl          FlagStat `json:"fentanyl_use_30_days"`
	Heroin            FlagStat `json:"heroin_use_30_days"`
	OpioidOverdose    FlagStat `json:"opioid_overdose"`
	SubstanceOverdose FlagStat `json:"substance_overdose"`
}

// Utilization averages are null when no column matched the visit/stay rules,
// and 0 when a column matched but held no numeric values.
type Utilization struct {
	Timepoint                 string   `json:"timepoint"`
	TotalPatients             int      `json:"total_patients"`
	AvgEDVisits               *float64 `json:"avg_ed_visits"`
	AvgHospitalStays          *float64 `json:"avg_hospital_stays"`
	PatientsWithEDVisits      int      `json:"patients_with_ed_visits"`
	PatientsWithHospitalStays int      `json:"patients_with_hospital_stays"`
	EDVisit                   FlagStat `json:"ed_visit"`
	HospitalStay              FlagStat `json:"hospital_stay"`
	PrimaryCare               FlagStat `json:"primary_care_90_days"`
}

type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Distribution buckets are pre-ordered: mapped labels first in mapping order,
// then unmapped codes sorted by code.
type Distribution struct {
	Total   int      `json:"total"`
	Buckets []Bucket `json:"buckets"`
}

type Demographics struct {
	TotalPatients int          `json:"total_patients"`
	Sex           Distribution `json:"sex"`
	AgeCategories Distribution `json:"age_categories"`
	RaceEthnicity Distribution `json:"race_ethnicity"`
	Education     Distribution `json:"education"`
	Employment    Distribution `json:"employment"`
	Insurance     Distribution `json:"insurance"`
	MentalIllness FlagStat     `json:"mental_illness"`
}

type Medication struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BrandNames  []string `json:"brand_names"`
}

type DatasetInfo struct {
	File          string `json:"file"`
	Records       int    `json:"records"`
	MalformedRows int    `json:"malformed_rows"`
	Columns       int    `json:"columns"`
}

// TimepointSummary is the /api/v1/timepoints response item.
type TimepointSummary struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Loaded   bool   `json:"loaded"`
	Patients int    `json:"patients"`
}
