package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"
)

// Profile names one vendor's audit wiring: where its rate standards live and
// which optional collaborators are configured.
type Profile struct {
	Name          string
	RatesDBPath   string
	Location      string
	ModelEndpoint string // empty disables model-backed anomaly scoring
	Region        string
	ReportBucket  string // empty disables report archiving
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (*Profile, error)
}

type profileRegistry struct {
	cfg *ini.File
}

// NewRegistry loads vendor profiles from an ini file, one section per vendor.
func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &profileRegistry{cfg: cfg}, nil
}

func (pr *profileRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range pr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (pr *profileRegistry) GetProfile(_ context.Context, name string) (*Profile, error) {
	section, err := pr.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", name)
	}

	profile := &Profile{
		Name:          name,
		RatesDBPath:   section.Key("rates_db").String(),
		Location:      section.Key("location").String(),
		ModelEndpoint: section.Key("model_endpoint").String(),
		Region:        section.Key("region").String(),
		ReportBucket:  section.Key("report_bucket").String(),
	}
	if profile.RatesDBPath == "" {
		return nil, fmt.Errorf("profile %s is missing rates_db", name)
	}
	return profile, nil
}
