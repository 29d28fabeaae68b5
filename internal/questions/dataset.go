package questions

import (
	"embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
)

//go:embed data/*.yaml
var datasets embed.FS

const (
	DatasetDefault    = "default"
	DatasetRichPotato = "rich-potato"
)

type questionFile struct {
	Questions []questionRecord `yaml:"questions"`
}

type questionRecord struct {
	ID           string   `yaml:"id"`
	Crop         string   `yaml:"crop"`
	Level        int      `yaml:"level"`
	Prompt       string   `yaml:"prompt"`
	Options      []string `yaml:"options"`
	Correct      int      `yaml:"correct"`
	Explanations []string `yaml:"explanations"`
	Points       int      `yaml:"points"`
}

// LoadDataset parses and validates the embedded dataset called name.
func LoadDataset(name string) ([]farmquest.Question, error) {
	data, err := datasets.ReadFile("data/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("reading dataset %q: %w", name, err)
	}
	return ParseDataset(data)
}

// ParseDataset decodes a YAML question bank.
func ParseDataset(data []byte) ([]farmquest.Question, error) {
	var f questionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Questions))
	out := make([]farmquest.Question, 0, len(f.Questions))
	for _, r := range f.Questions {
		crop, err := farmquest.ParseCropType(r.Crop)
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", r.ID, err)
		}
		q := farmquest.Question{
			ID:                 r.ID,
			CropType:           crop,
			LevelID:            r.Level,
			Prompt:             r.Prompt,
			Options:            r.Options,
			CorrectAnswerIndex: r.Correct,
			Explanations:       r.Explanations,
			PointValue:         r.Points,
		}
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %s", q.ID)
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out, nil
}

// Overlay replaces every crop covered by extra with extra's questions.
func Overlay(base, extra []farmquest.Question) []farmquest.Question {
	var crops []farmquest.CropType
	for _, q := range extra {
		if !slices.Contains(crops, q.CropType) {
			crops = append(crops, q.CropType)
		}
	}

	out := make([]farmquest.Question, 0, len(base)+len(extra))
	for _, q := range base {
		if !slices.Contains(crops, q.CropType) {
			out = append(out, q)
		}
	}
	return append(out, extra...)
}

// Load resolves a dataset selector. "default" returns the base bank; any
// other name is overlaid on top of it.
func Load(name string) ([]farmquest.Question, error) {
	base, err := LoadDataset(DatasetDefault)
	if err != nil {
		return nil, err
	}
	if name == "" || name == DatasetDefault {
		return base, nil
	}
	extra, err := LoadDataset(name)
	if err != nil {
		return nil, err
	}
	return Overlay(base, extra), nil
}
