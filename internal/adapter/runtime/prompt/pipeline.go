package prompt

import (
	"context"
	"sort"
	"strings"

	"github.com/kiosk404/mahiro-adapter/pkg/logger"
)

// Pipeline assembles the prompt context patch from registered sections
// and mutators.
type Pipeline struct {
	sections []PromptSection
	mutators []PromptMutator
	sorted   bool
}

// NewPipeline creates an empty prompt pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// RegisterSection adds a PromptSection to the pipeline.
// Sections are sorted by Priority before first assembly.
func (p *Pipeline) RegisterSection(s PromptSection) {
	p.sections = append(p.sections, s)
	p.sorted = false
}

// RegisterMutator adds a PromptMutator to the pipeline.
// Mutators are sorted by Priority before first assembly.
func (p *Pipeline) RegisterMutator(m PromptMutator) {
	p.mutators = append(p.mutators, m)
	p.sorted = false
}

// ensureSorted sorts sections and mutators by priority.
// Called lazily before assembly.
func (p *Pipeline) ensureSorted() {
	if p.sorted {
		return
	}
	sort.Slice(p.sections, func(i, j int) bool {
		return p.sections[i].Priority() < p.sections[j].Priority()
	})
	sort.Slice(p.mutators, func(i, j int) bool {
		return p.mutators[i].Priority() < p.mutators[j].Priority()
	})
	p.sorted = true
}

// priorityThreshold defines the maximum section priority included for each
// PromptMode. Sections with priority above the threshold are excluded.
//
//   - PromptModeNone:    only priority <= 100
//   - PromptModeMinimal: only priority <= 500
//   - PromptModeFull:    all sections (no limit)
func priorityThreshold(mode PromptMode) int {
	switch mode {
	case PromptModeNone:
		return 100
	case PromptModeMinimal:
		return 500
	default:
		return 999999
	}
}

// Assemble executes the prompt assembly pipeline and returns the patch text.
//
// Flow:
//  1. Sort sections/mutators by priority (lazy)
//  2. For each section: check Enabled + PromptMode threshold, then Render
//  3. Apply mutators in order
//  4. Return final assembled text
//
// Individual section failures are logged and skipped: a broken section must
// never cost the host its reply.
func (p *Pipeline) Assemble(ctx context.Context, pc *PromptContext) (string, error) {
	p.ensureSorted()

	threshold := priorityThreshold(pc.Mode)
	var buf strings.Builder

	for _, section := range p.sections {
		if section.Priority() > threshold {
			continue
		}

		if !section.Enabled(ctx, pc) {
			continue
		}

		text, err := section.Render(ctx, pc)
		if err != nil {
			logger.Warn("[PromptPipeline] section %q render failed: %v", section.Name(), err)
			continue
		}
		if text == "" {
			continue
		}

		buf.WriteString(text)
		buf.WriteString("\n\n")
	}

	result := strings.TrimRight(buf.String(), "\n")

	for _, m := range p.mutators {
		mutated, err := m.Mutate(ctx, pc, result)
		if err != nil {
			logger.Warn("[PromptPipeline] mutator %q failed: %v", m.Name(), err)
			continue
		}
		result = mutated
	}

	return result, nil
}

// SectionCount returns the number of registered sections.
func (p *Pipeline) SectionCount() int {
	return len(p.sections)
}

// MutatorCount returns the number of registered mutators.
func (p *Pipeline) MutatorCount() int {
	return len(p.mutators)
}
