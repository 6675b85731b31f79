package adapters

import (
	"github.com/cri-tools/study-atlas/pkg/models/api"
	"github.com/cri-tools/study-atlas/pkg/models/domain"
	"github.com/cri-tools/study-atlas/pkg/models/store"
)

func MapFlagStatDomainToApi(s domain.FlagStat) api.FlagStat {
	res := api.FlagStat{
		Count:     s.Count,
		Available: s.Rate.Available,
	}
	if s.Rate.Available {
		pct := s.Rate.Percent
		res.Rate = &pct
	}
	return res
}

func MapAverageDomainToApi(a domain.Average) *float64 {
	if !a.Available {
		return nil
	}
	v := a.Value
	return &v
}

func MapDistributionDomainToApi(d domain.Distribution) api.Distribution {
	res := api.Distribution{
		Total:   d.Total,
		Buckets: make([]api.Bucket, 0, len(d.Buckets)),
	}
	for _, b := range d.Buckets {
		res.Buckets = append(res.Buckets, api.Bucket{Label: b.Label, Count: b.Count})
	}
	return res
}

func MapTreatmentOutcomesDomainToApi(o domain.TreatmentOutcomes) api.TreatmentOutcomes {
	return api.TreatmentOutcomes{
		Timepoint:     string(o.Timepoint),
		TotalPatients: o.TotalPatients,
		Buprenorphine: MapFlagStatDomainToApi(o.Buprenorphine),
		Methadone:     MapFlagStatDomainToApi(o.Methadone),
		Naltrexone:    MapFlagStatDomainToApi(o.Naltrexone),
		OpioidUse:     MapFlagStatDomainToApi(o.OpioidUse),
		Abstinence:    MapFlagStatDomainToApi(o.Abstinence),
		Responded:     MapFlagStatDomainToApi(o.Responded),
	}
}

func MapDrugUsePatternsDomainToApi(p domain.DrugUsePatterns) api.DrugUsePatterns {
	return api.DrugUsePatterns{
		Timepoint:         string(p.Timepoint),
		TotalPatients:     p.TotalPatients,
		Fentanyl:          MapFlagStatDomainToApi(p.Fentanyl),
		Heroin:            MapFlagStatDomainToApi(p.Heroin),
		OpioidOverdose:    MapFlagStatDomainToApi(p.OpioidOverdose),
		SubstanceOverdose: MapFlagStatDomainToApi(p.SubstanceOverdose),
	}
}

func MapUtilizationDomainToApi(u domain.UtilizationStats) api.Utilization {
	return api.Utilization{
		Timepoint:                 string(u.Timepoint),
		TotalPatients:             u.TotalPatients,
		AvgEDVisits:               MapAverageDomainToApi(u.EDVisits),
		AvgHospitalStays:          MapAverageDomainToApi(u.HospitalStays),
		PatientsWithEDVisits:      u.PatientsWithEDVisits,
		PatientsWithHospitalStays: u.PatientsWithHospitalStays,
		EDVisit:                   MapFlagStatDomainToApi(u.EDVisit),
		HospitalStay:              MapFlagStatDomainToApi(u.HospitalStay),
		PrimaryCare:               MapFlagStatDomainToApi(u.PrimaryCare),
	}
}

func MapDemographicsDomainToApi(d *domain.Demographics) *api.Demographics {
	if d == nil {
		return nil
	}
	return &api.Demographics{
		TotalPatients: d.TotalPatients,
		Sex:           MapDistributionDomainToApi(d.Sex),
		AgeCategories: MapDistributionDomainToApi(d.AgeCategories),
		RaceEthnicity: MapDistributionDomainToApi(d.RaceEthnicity),
		Education:     MapDistributionDomainToApi(d.Education),
		Employment:    MapDistributionDomainToApi(d.Employment),
		Insurance:     MapDistributionDomainToApi(d.Insurance),
		MentalIllness: MapFlagStatDomainToApi(d.MentalIllness),
	}
}

func MapStudyPeriodDomainToApi(p domain.StudyPeriod) api.StudyPeriod {
	return api.StudyPeriod{
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		Duration:       p.Duration,
		FollowUpPeriod: p.FollowUpPeriod,
	}
}

func MapTimepointInfoDomainToApi(ti domain.TimepointInfo) api.TimepointInfo {
	return api.TimepointInfo{
		Label:       ti.Label,
		Description: ti.Description,
	}
}

func MapMedicationDomainToApi(m domain.Medication) api.Medication {
	brands := make([]string, len(m.BrandNames))
	copy(brands, m.BrandNames)
	return api.Medication{
		Name:        m.Name,
		Description: m.Description,
		BrandNames:  brands,
	}
}

func MapStoreDatasetToApiInfo(ds store.Dataset) api.DatasetInfo {
	return api.DatasetInfo{
		File:          ds.File,
		Records:       len(ds.Records),
		MalformedRows: ds.Malformed,
		Columns:       len(ds.Columns),
	}
}

func MapStoreDatasetToDomainWaveSummary(ds store.Dataset) domain.WaveSummary {
	return domain.WaveSummary{
		Timepoint: domain.Timepoint(ds.Timepoint),
		File:      ds.File,
		Records:   len(ds.Records),
		Malformed: ds.Malformed,
		Columns:   len(ds.Columns),
	}
}

func MapStoreSkippedFileToDomain(s store.SkippedFile) domain.SkippedFile {
	return domain.SkippedFile{
		Timepoint: domain.Timepoint(s.Timepoint),
		File:      s.File,
		Reason:    s.Reason,
	}
}
