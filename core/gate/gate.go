package gate

import (
	"github.com/Malowking/flowpilot/core/router"
)

const (
	// GovernanceThreshold 治理/策略问题要求严格的检索证据
	GovernanceThreshold = 0.60
	// HowtoThreshold 使用类问题允许较宽松的证据
	HowtoThreshold = 0.35
)

// AbstainDirective instructs the generator to decline instead of
// guessing when retrieval evidence is insufficient.
const AbstainDirective = `Retrieval confidence is below the acceptable threshold for this question.
Do NOT assert an answer that is not grounded in the retrieved evidence.
Explicitly say that you cannot confirm the answer from the available documentation,
then ask at most two short clarifying questions that would help locate the right source.`

// Decision is the gate outcome for one turn.
type Decision struct {
	Abstain bool
	// Directive is the extra system instruction for the generator.
	// Empty when the gate passes.
	Directive string
	// Threshold that was applied; 0 for ungated modes.
	Threshold float64
}

// Gate compares the retriever's top score against a mode-specific
// threshold and forces abstention when evidence is weak. It never
// discards retrieved context: only the generation directive changes.
type Gate struct{}

// NewGate creates a confidence gate.
func NewGate() *Gate {
	return &Gate{}
}

// Check applies the mode's threshold to topScore. A nil topScore means
// the vector leg produced nothing and counts as insufficient evidence
// for every gated mode. FLOW_REVIEW is never gated: its primary
// evidence is the pasted artifact, not the document index.
func (g *Gate) Check(mode router.Mode, topScore *float64) Decision {
	switch mode {
	case router.ModeFlowReview:
		return Decision{}
	case router.ModeGovernanceQnA:
		return gated(GovernanceThreshold, topScore)
	case router.ModeHowtoQnA:
		return gated(HowtoThreshold, topScore)
	default:
		// OUT_OF_SCOPE has no evidence basis in the corpus at all.
		return Decision{Abstain: true, Directive: AbstainDirective}
	}
}

func gated(threshold float64, topScore *float64) Decision {
	d := Decision{Threshold: threshold}
	if topScore == nil || *topScore < threshold {
		d.Abstain = true
		d.Directive = AbstainDirective
	}
	return d
}
