package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/cri-tools/study-atlas/pkg/models/domain"
)

type studiesRegistry struct {
	cfg *ini.File
}

// NewStudyRegistry loads the profile registry, an INI file with one section
// per study. Sections without keys (including the implicit default section)
// are not profiles.
func NewStudyRegistry(path string) (StudyRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &studiesRegistry{cfg: cfg}, nil
}

func (sr *studiesRegistry) GetStudies(_ context.Context) ([]string, error) {
	var studies []string
	for _, section := range sr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			studies = append(studies, section.Name())
		}
	}
	return studies, nil
}

func (sr *studiesRegistry) GetStudy(_ context.Context, name string) (*domain.StudyProfile, error) {
	section, err := sr.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("study %s not found", name)
	}

	return &domain.StudyProfile{
		Name:    name,
		DataDir: section.Key("data_dir").String(),
		Output:  section.Key("output").String(),
		Config:  section.Key("config").String(),
	}, nil
}

// DefaultPath is where the CLI looks for the registry unless told otherwise.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".studyatlas"), nil
}
