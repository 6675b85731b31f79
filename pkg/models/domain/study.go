package domain

type Timepoint string

const (
	TimepointBaseline Timepoint = "baseline"
	Timepoint3Month   Timepoint = "3_month"
	Timepoint6Month   Timepoint = "6_month"
	Timepoint12Month  Timepoint = "12_month"
	Timepoint18Month  Timepoint = "18_month"
)

// Timepoints returns every study wave in collection order. All per-wave
// iteration in the pipeline follows this order.
func Timepoints() []Timepoint {
	return []Timepoint{
		TimepointBaseline,
		Timepoint3Month,
		Timepoint6Month,
		Timepoint12Month,
		Timepoint18Month,
	}
}

type TimepointInfo struct {
	Key         Timepoint
	Label       string // "3-Month Follow-up"
	Description string
	File        string // "Patient-3-month-Data.csv"
}

type StudyPeriod struct {
	StartDate      string // "March 2018"
	EndDate        string // "May 2021"
	Duration       string
	FollowUpPeriod string
}

type StudyInfo struct {
	Title                string
	Description          string
	Period               StudyPeriod
	Locations            []string
	DataCollectionPeriod string
	ResponseRates        map[Timepoint]string
}

type Medication struct {
	Name        string
	Description string
	BrandNames  []string
}
