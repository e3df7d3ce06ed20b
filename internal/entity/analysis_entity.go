package entity

// Analysis is the structured read of one user message, produced by the
// generation gateway. It is never persisted on its own; it rides along as
// assistant-turn metadata and in the send-message response.
type Analysis struct {
	EmotionalState      string   `json:"emotionalState"`
	Themes              []string `json:"themes"`
	RiskLevel           int      `json:"riskLevel"`
	RecommendedApproach string   `json:"recommendedApproach"`
	ProgressIndicators  []string `json:"progressIndicators"`
}

// ProgressSummary condenses an Analysis to the two fields surfaced in
// session history.
type ProgressSummary struct {
	EmotionalState string `json:"emotionalState"`
	RiskLevel      int    `json:"riskLevel"`
}

func (a *Analysis) Summary() *ProgressSummary {
	return &ProgressSummary{
		EmotionalState: a.EmotionalState,
		RiskLevel:      a.RiskLevel,
	}
}
