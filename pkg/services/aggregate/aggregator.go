// Package aggregate computes the per-wave summary metrics behind the
// dashboard. Every statistic is computed within a single wave; records are
// never pooled across timepoints.
package aggregate

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cri-tools/study-atlas/pkg/models/domain"
	"github.com/cri-tools/study-atlas/pkg/models/store"
	"github.com/cri-tools/study-atlas/pkg/services/resolver"
)

type Aggregator struct {
	catalog Catalog
}

func NewAggregator(catalog Catalog) *Aggregator {
	return &Aggregator{catalog: catalog}
}

// Wave computes every metric bundle for one wave. Demographics are attached
// on the baseline wave only.
func (a *Aggregator) Wave(ctx context.Context, ds store.Dataset) domain.WaveAggregates {
	zerolog.Ctx(ctx).Debug().
		Str("timepoint", ds.Timepoint).
		Int("records", len(ds.Records)).
		Msg("aggregating wave")

	agg := domain.WaveAggregates{
		Timepoint:   domain.Timepoint(ds.Timepoint),
		Outcomes:    a.treatmentOutcomes(ds),
		DrugUse:     a.drugUse(ds),
		Utilization: a.utilization(ds),
	}
	if ds.Timepoint == string(domain.TimepointBaseline) {
		d := a.demographics(ds)
		agg.Demographics = &d
	}
	return agg
}

func (a *Aggregator) treatmentOutcomes(ds store.Dataset) domain.TreatmentOutcomes {
	return domain.TreatmentOutcomes{
		Timepoint:     domain.Timepoint(ds.Timepoint),
		TotalPatients: len(ds.Records),
		Buprenorphine: flagStat(ds, a.catalog.Buprenorphine),
		Methadone:     flagStat(ds, a.catalog.Methadone),
		Naltrexone:    flagStat(ds, a.catalog.Naltrexone),
		OpioidUse:     flagStat(ds, a.catalog.OpioidUse),
		Abstinence:    flagStat(ds, a.catalog.Abstinence),
		Responded:     flagStat(ds, a.catalog.Responded),
	}
}

func (a *Aggregator) drugUse(ds store.Dataset) domain.DrugUsePatterns {
	return domain.DrugUsePatterns{
		Timepoint:         domain.Timepoint(ds.Timepoint),
		TotalPatients:     len(ds.Records),
		Fentanyl:          flagStat(ds, a.catalog.Fentanyl),
		Heroin:            flagStat(ds, a.catalog.Heroin),
		OpioidOverdose:    flagStat(ds, a.catalog.OpioidOverdose),
		SubstanceOverdose: flagStat(ds, a.catalog.SubstanceOverdose),
	}
}

func (a *Aggregator) utilization(ds store.Dataset) domain.UtilizationStats {
	stats := domain.UtilizationStats{
		Timepoint:     domain.Timepoint(ds.Timepoint),
		TotalPatients: len(ds.Records),
		EDVisit:       flagStat(ds, a.catalog.EDVisit),
		HospitalStay:  flagStat(ds, a.catalog.HospitalStay),
		PrimaryCare:   flagStat(ds, a.catalog.PrimaryCare),
	}

	pools := resolver.ResolveRules(ds.Columns, a.catalog.CountRules)
	stats.EDVisits, stats.PatientsWithEDVisits = poolAverage(ds, pools[RuleEDVisits])
	stats.HospitalStays, stats.PatientsWithHospitalStays = poolAverage(ds, pools[RuleHospitalStays])
	return stats
}

func (a *Aggregator) demographics(ds store.Dataset) domain.Demographics {
	return domain.Demographics{
		TotalPatients: len(ds.Records),
		Sex:           distribution(ds, a.catalog.Sex),
		AgeCategories: distribution(ds, a.catalog.Age),
		RaceEthnicity: distribution(ds, a.catalog.Race),
		Education:     distribution(ds, a.catalog.Education),
		Employment:    distribution(ds, a.catalog.Employment),
		Insurance:     distribution(ds, a.catalog.Insurance),
		MentalIllness: flagStat(ds, a.catalog.MentalIllness),
	}
}

// flagStat counts records whose resolved value is the literal "1" and
// derives the prevalence. The rate is unavailable when the column is absent
// or the wave holds no records; a measured zero stays 0.
func flagStat(ds store.Dataset, v resolver.Variable) domain.FlagStat {
	res := resolver.Resolve(ds.Columns, v)
	if !res.Found || len(ds.Records) == 0 {
		return domain.FlagStat{}
	}

	field := res.Fields[0]
	count := 0
	for _, r := range ds.Records {
		if val, ok := r.Field(field); ok && val == "1" {
			count++
		}
	}
	return domain.FlagStat{
		Count: count,
		Rate: domain.Rate{
			Available: true,
			Percent:   round1(float64(count) / float64(len(ds.Records)) * 100),
		},
	}
}

// poolAverage averages every numeric observation across the resolved fields.
// Blank and non-numeric values drop out of numerator and denominator alike.
// The second return is the number of records with at least one observation
// above zero.
func poolAverage(ds store.Dataset, res resolver.Resolution) (domain.Average, int) {
	if !res.Found {
		return domain.Average{}, 0
	}

	sum, n, positive := 0, 0, 0
	for _, r := range ds.Records {
		recPositive := false
		for _, field := range res.Fields {
			raw, ok := r.Field(field)
			if !ok {
				continue
			}
			val, ok := parseCount(raw)
			if !ok {
				continue
			}
			sum += val
			n++
			if val > 0 {
				recPositive = true
			}
		}
		if recPositive {
			positive++
		}
	}

	avg := domain.Average{Available: true, Observations: n}
	if n > 0 {
		avg.Value = round2(float64(sum) / float64(n))
	}
	return avg, positive
}

func distribution(ds store.Dataset, cv CodedVariable) domain.Distribution {
	dist := domain.Distribution{Variable: cv.Variable.Name}
	res := resolver.Resolve(ds.Columns, cv.Variable)
	if !res.Found {
		return dist
	}

	field := res.Fields[0]
	counts := make(map[string]int)
	for _, r := range ds.Records {
		raw, ok := r.Field(field)
		if !ok {
			continue
		}
		code := strings.TrimSpace(raw)
		if code == "" {
			continue
		}
		counts[code]++
		dist.Total++
	}

	mapped := make(map[string]bool, len(cv.Codes))
	for _, cl := range cv.Codes {
		mapped[cl.Code] = true
		if n := counts[cl.Code]; n > 0 {
			dist.Buckets = append(dist.Buckets, domain.Bucket{Label: cl.Label, Count: n})
		}
	}

	var unmapped []string
	for code := range counts {
		if !mapped[code] {
			unmapped = append(unmapped, code)
		}
	}
	sort.Strings(unmapped)
	for _, code := range unmapped {
		dist.Buckets = append(dist.Buckets, domain.Bucket{
			Label: "unmapped code " + code,
			Count: counts[code],
		})
	}
	return dist
}

// parseCount accepts non-negative integers only, the way the study exports
// encode visit and stay counts.
func parseCount(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
