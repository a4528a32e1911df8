package match

import (
	"sort"
	"strings"

	"remotejobs-engine/internal/domain"
)

// maxSkillTerm caps the skill-overlap contribution; the title term is uncapped.
const maxSkillTerm = 2

// ScoredJob is a candidate together with its relevance to a source job.
type ScoredJob struct {
	domain.JobRecord
	RelevanceScore int `json:"relevanceScore"`
}

// Score rates how related candidate is to source. A candidate without a title
// scores zero.
func Score(source, candidate domain.JobRecord) int {
	if strings.TrimSpace(candidate.Title) == "" {
		return 0
	}
	return titleTerm(source.Title, candidate.Title) + skillTerm(source.Skills, candidate.Skills)
}

func titleTerm(source, candidate string) int {
	candidate = strings.ToLower(candidate)
	n := 0
	for _, w := range ScoringTokens(source) {
		if strings.Contains(candidate, w) {
			n++
		}
	}
	return n
}

func skillTerm(source, candidate domain.SkillList) int {
	src := source.Normalized()
	cand := candidate.Normalized()
	if len(src) == 0 || len(cand) == 0 {
		return 0
	}
	n := 0
	for _, c := range cand {
		for _, s := range src {
			if strings.Contains(c, s) {
				n++
				break
			}
		}
	}
	return min(n, maxSkillTerm)
}

// RankRelated scores every candidate against source and returns at most limit
// of them, best first. Equal scores keep their pool order. The source job is
// never part of its own result.
func RankRelated(source domain.JobRecord, candidates []domain.JobRecord, limit int) ([]ScoredJob, error) {
	if limit < 1 {
		return nil, invalid("limit", "must be at least 1, got %d", limit)
	}
	if strings.TrimSpace(source.ID) == "" {
		return nil, invalid("source.id", "is required")
	}

	scored := make([]ScoredJob, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == source.ID {
			continue
		}
		scored = append(scored, ScoredJob{JobRecord: c, RelevanceScore: Score(source, c)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	// truncate only after the full pool is ranked
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}
