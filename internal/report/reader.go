// Package report reads story reports written by the BDD runner. Every JSON
// file in the results directory holds one story.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/jiraexport/internal/constants"
	"github.com/mrz1836/jiraexport/internal/domain"
	"github.com/mrz1836/jiraexport/internal/errors"
)

// Reader loads stories from a results directory.
type Reader struct {
	logger zerolog.Logger
}

// NewReader creates a report reader.
func NewReader(logger zerolog.Logger) *Reader {
	return &Reader{logger: logger}
}

// ReadDir decodes every *.json file directly inside dir, in file name order.
// It fails with ErrNoReports when there is none and with ErrReportInvalid
// when a file cannot be decoded.
func (r *Reader) ReadDir(ctx context.Context, dir string) ([]*domain.Story, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), constants.ReportFileExt) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", errors.ErrNoReports, dir)
	}
	sort.Strings(files)

	stories := make([]*domain.Story, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		story, err := r.ReadFile(file)
		if err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}

	r.logger.Info().
		Str("dir", dir).
		Int("stories", len(stories)).
		Msg("story reports loaded")
	return stories, nil
}

// ReadFile decodes one story report.
func (r *Reader) ReadFile(path string) (*domain.Story, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the configured results directory
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}

	var story domain.Story
	if err := json.Unmarshal(data, &story); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrReportInvalid, path, err)
	}
	if err := normalize(&story); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrReportInvalid, path, err)
	}

	r.logger.Debug().
		Str("file", path).
		Str("story", story.Path).
		Int("scenarios", len(story.Scenarios)).
		Msg("story report read")
	return &story, nil
}

// normalize rewrites story paths, including those of given stories, to use
// '/'. It rejects null scenarios and null given stories.
func normalize(story *domain.Story) error {
	seen := make(map[*domain.Story]bool)
	stack := []*domain.Story{story}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[s] {
			continue
		}
		seen[s] = true
		s.Path = strings.ReplaceAll(s.Path, `\`, "/")

		given, err := givenStories(s.Path, s.GivenStories)
		if err != nil {
			return err
		}
		stack = append(stack, given...)
		for i, sc := range s.Scenarios {
			if sc == nil {
				return fmt.Errorf("story %s: scenario %d is null", s.Path, i+1)
			}
			given, err := givenStories(s.Path, sc.GivenStories)
			if err != nil {
				return err
			}
			stack = append(stack, given...)
		}
	}
	return nil
}

func givenStories(path string, given *domain.GivenStories) ([]*domain.Story, error) {
	stories := given.List()
	for i, g := range stories {
		if g == nil {
			return nil, fmt.Errorf("story %s: given story %d is null", path, i+1)
		}
	}
	return stories, nil
}
