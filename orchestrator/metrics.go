package orchestrator

import (
	"time"

	"github.com/hupe1980/convomesh/core"
)

const (
	decisionConfidence = 0.8
	solutionConfidence = 0.7

	// qualityTypeCeiling is the distinct message-type count treated as
	// maximally rich.
	qualityTypeCeiling = 5
)

// deriveOutcomes scans the message history: every decision message yields a
// decision outcome, every answer message a solution outcome, each credited
// to its single author.
func deriveOutcomes(msgs []core.Message, at time.Time) []core.Outcome {
	outcomes := []core.Outcome{}
	for _, m := range msgs {
		switch m.Type {
		case core.MessageDecision:
			outcomes = append(outcomes, core.Outcome{
				Type:         core.OutcomeDecision,
				Content:      m.Content,
				Confidence:   decisionConfidence,
				Contributors: []core.AgentID{m.FromAgent},
				Timestamp:    at,
			})
		case core.MessageAnswer:
			outcomes = append(outcomes, core.Outcome{
				Type:         core.OutcomeSolution,
				Content:      m.Content,
				Confidence:   solutionConfidence,
				Contributors: []core.AgentID{m.FromAgent},
				Timestamp:    at,
			})
		}
	}
	return outcomes
}

// consensusScore is agreements / (agreements + disagreements), 0.5 when the
// session has neither.
func consensusScore(msgs []core.Message) float64 {
	var agree, disagree int
	for _, m := range msgs {
		switch m.Type {
		case core.MessageAgreement:
			agree++
		case core.MessageDisagreement:
			disagree++
		}
	}
	if agree+disagree == 0 {
		return 0.5
	}
	return float64(agree) / float64(agree+disagree)
}

// qualityRating is the distinct message-type count divided by the ceiling,
// capped at 1.0.
func qualityRating(msgs []core.Message) float64 {
	types := map[core.MessageType]struct{}{}
	for _, m := range msgs {
		types[m.Type] = struct{}{}
	}
	rating := float64(len(types)) / qualityTypeCeiling
	if rating > 1 {
		rating = 1
	}
	return rating
}

// averageResponseTime is the mean of consecutive timestamp deltas over
// non-system messages, 0 when fewer than two such messages exist.
func averageResponseTime(msgs []core.Message) time.Duration {
	var (
		prev  time.Time
		seen  int
		total time.Duration
	)
	for _, m := range msgs {
		if m.Type == core.MessageSystemNotification {
			continue
		}
		if seen > 0 {
			total += m.Timestamp.Sub(prev)
		}
		prev = m.Timestamp
		seen++
	}
	if seen < 2 {
		return 0
	}
	return total / time.Duration(seen-1)
}
