package registry

import (
	"context"

	"github.com/cri-tools/study-atlas/pkg/models/domain"
)

// StudyRegistry resolves named study profiles so the CLI can address a study
// without repeating its paths on every invocation.
type StudyRegistry interface {
	GetStudies(ctx context.Context) ([]string, error)
	GetStudy(ctx context.Context, name string) (*domain.StudyProfile, error)
}
