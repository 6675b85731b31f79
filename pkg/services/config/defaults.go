package config

// Default returns the MOUD study description: the wave files the CDC exports
// ship under, the enrollment metadata, and the medication reference text.
func Default() Config {
	return Config{
		IDColumn: "CID",
		Study: Study{
			Title:       "Medications for Opioid Use Disorder (MOUD) Study",
			Description: "CDC National Center for Injury Prevention and Control longitudinal study tracking treatment outcomes for opioid use disorder across the United States",
			Period: Period{
				StartDate:      "March 2018",
				EndDate:        "May 2021",
				Duration:       "3+ years",
				FollowUpPeriod: "18 months per patient",
			},
			Locations: []string{
				"Birmingham, AL", "Boston, MA", "Chicago, IL", "Cincinnati, OH",
				"Dallas, TX", "Denver, CO", "Huntington, WV", "Los Angeles, CA",
				"New York, NY", "Phoenix, AZ", "Raleigh-Durham, NC",
				"Salt Lake City, UT", "San Francisco, CA", "Seattle, WA",
				"Washington, DC Metro Area",
			},
			DataCollectionPeriod: "18 months per patient",
			ResponseRates: map[string]string{
				"baseline": "100% (1,974 patients)",
				"3_month":  "72%",
				"6_month":  "68%",
				"12_month": "52%",
				"18_month": "53%",
			},
		},
		Waves: []Wave{
			{
				Key:         "baseline",
				Label:       "Baseline",
				Description: "Treatment initiation (March 2018 onwards)",
				File:        "Patient-Baseline-Data.csv",
			},
			{
				Key:         "3_month",
				Label:       "3-Month Follow-up",
				Description: "3 months post-baseline",
				File:        "Patient-3-month-Data.csv",
			},
			{
				Key:         "6_month",
				Label:       "6-Month Follow-up",
				Description: "6 months post-baseline",
				File:        "Patient-6-month-Data.csv",
			},
			{
				Key:         "12_month",
				Label:       "12-Month Follow-up",
				Description: "12 months post-baseline",
				File:        "Patient-12-month-Data.csv",
			},
			{
				Key:         "18_month",
				Label:       "18-Month Follow-up",
				Description: "18 months post-baseline (May 2021)",
				File:        "Patient-18-month-Data.csv",
			},
		},
		Medications: []Medication{
			{
				Key:         "buprenorphine",
				Name:        "Buprenorphine",
				Description: "Partial opioid agonist that reduces cravings and withdrawal symptoms",
				BrandNames:  []string{"Suboxone", "Subutex", "Zubsolv"},
			},
			{
				Key:         "methadone",
				Name:        "Methadone",
				Description: "Full opioid agonist administered in specialized clinics",
				BrandNames:  []string{"Dolophine", "Methadose"},
			},
			{
				Key:         "naltrexone",
				Name:        "Naltrexone",
				Description: "Opioid antagonist that blocks the effects of opioids",
				BrandNames:  []string{"Vivitrol", "ReVia", "Depade"},
			},
		},
	}
}
