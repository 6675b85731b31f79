package domain

import "fmt"

// StudyProfile is a named entry from the profile registry, pointing the CLI
// at a study's data directory and preferred outputs.
type StudyProfile struct {
	Name    string
	DataDir string
	Output  string
	Config  string
}

func (p StudyProfile) String() string {
	return fmt.Sprintf("%s:%s", p.Name, p.DataDir)
}
