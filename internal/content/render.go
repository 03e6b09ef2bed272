package content

import (
	"fmt"
	"strings"

	"github.com/mrz1836/jiraexport/internal/constants"
	"github.com/mrz1836/jiraexport/internal/domain"
	"github.com/mrz1836/jiraexport/internal/errors"
)

// Scenario types written to the cucumber scenario type field.
const (
	ScenarioTypePlain   = "Scenario"
	ScenarioTypeOutline = "Scenario Outline"
)

// ScenarioType returns the Gherkin keyword of a scenario.
func ScenarioType(sc *domain.Scenario) string {
	if hasTable(sc) {
		return ScenarioTypeOutline
	}
	return ScenarioTypePlain
}

// RenderScenario renders a scenario as Gherkin-like text: keyword and title,
// step texts, and the examples table when there is one.
func RenderScenario(sc *domain.Scenario) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", ScenarioType(sc), sc.Title)
	for _, text := range sc.StepTexts() {
		b.WriteString(text)
		b.WriteByte('\n')
	}
	if hasTable(sc) {
		params := sc.Examples.Parameters
		b.WriteString("Examples:\n")
		writeRow(&b, params.Names)
		for _, row := range params.Values {
			writeRow(&b, row)
		}
	}
	return b.String()
}

// StoryBlock is the part of a group that belongs to one story.
type StoryBlock struct {
	Story     *domain.Story
	Scenarios []*domain.Scenario
}

// RenderStory renders one story block: the story path, every given story of
// the story, then each scenario preceded by its own given stories.
func RenderStory(block StoryBlock) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Story: %s\n", block.Story.Path)

	if err := renderGivenStories(&b, block.Story.GivenStories); err != nil {
		return "", err
	}
	for _, sc := range block.Scenarios {
		if err := renderGivenStories(&b, sc.GivenStories); err != nil {
			return "", err
		}
		b.WriteByte('\n')
		b.WriteString(RenderScenario(sc))
	}
	return b.String(), nil
}

type givenItem struct {
	story *domain.Story
	depth int
	leave bool
}

// renderGivenStories renders the given stories of every root in turn. Each
// root's chain is emitted reversed, so nested given stories come before the
// stories that include them.
func renderGivenStories(b *strings.Builder, given *domain.GivenStories) error {
	for _, root := range given.List() {
		chain, err := givenChain(root)
		if err != nil {
			return err
		}
		for i := len(chain) - 1; i >= 0; i-- {
			fmt.Fprintf(b, "Given Story: %s\n", chain[i].Path)
			for _, sc := range chain[i].Scenarios {
				b.WriteString(RenderScenario(sc))
			}
		}
	}
	return nil
}

// givenChain collects root and its nested given stories depth-first,
// pre-order, with an explicit stack. A story that appears on its own ancestor
// path, or a nesting deeper than MaxGivenStoryDepth, fails with
// ErrGivenStoryCycle.
func givenChain(root *domain.Story) ([]*domain.Story, error) {
	var chain []*domain.Story
	stack := []givenItem{{story: root, depth: 1}}
	onPath := make(map[*domain.Story]bool)

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.leave {
			delete(onPath, item.story)
			continue
		}
		if item.story == nil {
			continue
		}
		if onPath[item.story] {
			return nil, fmt.Errorf("%w: %s includes itself", errors.ErrGivenStoryCycle, item.story.Path)
		}
		if item.depth > constants.MaxGivenStoryDepth {
			return nil, fmt.Errorf("%w: %s is nested %d levels deep", errors.ErrGivenStoryCycle, item.story.Path, item.depth)
		}

		chain = append(chain, item.story)
		onPath[item.story] = true
		stack = append(stack, givenItem{story: item.story, leave: true})
		children := item.story.GivenStories.List()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, givenItem{story: children[i], depth: item.depth + 1})
		}
	}
	return chain, nil
}

func hasTable(sc *domain.Scenario) bool {
	return sc.Examples != nil && sc.Examples.Parameters != nil && len(sc.Examples.Parameters.Names) > 0
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteByte('|')
	for _, cell := range cells {
		b.WriteString(cell)
		b.WriteByte('|')
	}
	b.WriteByte('\n')
}
