// Package config loads the study description: wave files, display metadata,
// and medication reference text. Every field has a compiled default matching
// the MOUD study, so a config file only needs the fields a team wants to
// override.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cri-tools/study-atlas/pkg/models/domain"
)

type Period struct {
	StartDate      string `mapstructure:"start_date" yaml:"start_date"`
	EndDate        string `mapstructure:"end_date" yaml:"end_date"`
	Duration       string `mapstructure:"duration" yaml:"duration"`
	FollowUpPeriod string `mapstructure:"follow_up_period" yaml:"follow_up_period"`
}

type Study struct {
	Title                string            `mapstructure:"title" yaml:"title"`
	Description          string            `mapstructure:"description" yaml:"description"`
	Period               Period            `mapstructure:"period" yaml:"period"`
	Locations            []string          `mapstructure:"locations" yaml:"locations"`
	DataCollectionPeriod string            `mapstructure:"data_collection_period" yaml:"data_collection_period"`
	ResponseRates        map[string]string `mapstructure:"response_rates" yaml:"response_rates"`
}

type Wave struct {
	Key         string `mapstructure:"key" yaml:"key"`
	Label       string `mapstructure:"label" yaml:"label"`
	Description string `mapstructure:"description" yaml:"description"`
	File        string `mapstructure:"file" yaml:"file"`
}

type Medication struct {
	Key         string   `mapstructure:"key" yaml:"key"`
	Name        string   `mapstructure:"name" yaml:"name"`
	Description string   `mapstructure:"description" yaml:"description"`
	BrandNames  []string `mapstructure:"brand_names" yaml:"brand_names"`
}

type Config struct {
	Study       Study        `mapstructure:"study" yaml:"study"`
	IDColumn    string       `mapstructure:"id_column" yaml:"id_column"`
	Waves       []Wave       `mapstructure:"waves" yaml:"waves"`
	Medications []Medication `mapstructure:"medications" yaml:"medications"`
}

// LoadConfig reads a YAML study config on top of the compiled defaults.
// An empty path returns the defaults untouched.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read study config: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse study config: %w", err)
	}
	return &cfg, nil
}

// WriteDefault writes the compiled defaults as an editable YAML file.
func WriteDefault(path string) error {
	out, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to render default config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// StudyInfo converts the study block to its domain form.
func (c *Config) StudyInfo() domain.StudyInfo {
	rates := make(map[domain.Timepoint]string, len(c.Study.ResponseRates))
	for k, v := range c.Study.ResponseRates {
		rates[domain.Timepoint(k)] = v
	}
	locations := make([]string, len(c.Study.Locations))
	copy(locations, c.Study.Locations)
	return domain.StudyInfo{
		Title:       c.Study.Title,
		Description: c.Study.Description,
		Period: domain.StudyPeriod{
			StartDate:      c.Study.Period.StartDate,
			EndDate:        c.Study.Period.EndDate,
			Duration:       c.Study.Period.Duration,
			FollowUpPeriod: c.Study.Period.FollowUpPeriod,
		},
		Locations:            locations,
		DataCollectionPeriod: c.Study.DataCollectionPeriod,
		ResponseRates:        rates,
	}
}

// TimepointInfos converts the wave list to its domain form, preserving order.
func (c *Config) TimepointInfos() []domain.TimepointInfo {
	infos := make([]domain.TimepointInfo, 0, len(c.Waves))
	for _, w := range c.Waves {
		infos = append(infos, domain.TimepointInfo{
			Key:         domain.Timepoint(w.Key),
			Label:       w.Label,
			Description: w.Description,
			File:        w.File,
		})
	}
	return infos
}

// MedicationInfos keys the medication reference text for the snapshot.
func (c *Config) MedicationInfos() map[string]domain.Medication {
	meds := make(map[string]domain.Medication, len(c.Medications))
	for _, m := range c.Medications {
		brands := make([]string, len(m.BrandNames))
		copy(brands, m.BrandNames)
		meds[m.Key] = domain.Medication{
			Name:        m.Name,
			Description: m.Description,
			BrandNames:  brands,
		}
	}
	return meds
}
