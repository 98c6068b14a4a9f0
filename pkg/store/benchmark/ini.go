package benchmark

import (
	"context"
	"fmt"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// FileSource reads benchmarks from an INI file: the [default] section (or
// keys outside any section) holds the industry-agnostic row, every other
// section one industry.
//
//	conversion_rate = 10
//	[retail]
//	conversion_rate = 4
type FileSource struct {
	cfg *ini.File
}

func NewFileSource(path string) (*FileSource, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load benchmarks file: %w", err)
	}
	return &FileSource{cfg: cfg}, nil
}

func NewSourceFromBytes(data []byte) (*FileSource, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parse benchmarks: %w", err)
	}
	return &FileSource{cfg: cfg}, nil
}

func (f *FileSource) Lookup(_ context.Context, industry string) (domain.Benchmarks, error) {
	var names []string
	for _, section := range f.cfg.Sections() {
		if len(section.Keys()) > 0 {
			names = append(names, section.Name())
		}
	}

	result := domain.Benchmarks{}
	found := false
	for _, name := range names {
		if domain.NormalizeIndustry(name) == domain.DefaultIndustry {
			if err := readSection(f.cfg.Section(name), result); err != nil {
				return nil, err
			}
			found = true
		}
	}

	if matched := domain.MatchIndustry(industry, names); matched != "" {
		if err := readSection(f.cfg.Section(matched), result); err != nil {
			return nil, err
		}
		found = true
	}

	if !found {
		return nil, fmt.Errorf("%w: %q", domain.ErrBenchmarkNotFound, industry)
	}
	return result, nil
}

func readSection(section *ini.Section, into domain.Benchmarks) error {
	for _, key := range section.Keys() {
		v, err := key.Float64()
		if err != nil {
			return fmt.Errorf("benchmark %s.%s: %w", section.Name(), key.Name(), err)
		}
		into[key.Name()] = v
	}
	return nil
}
