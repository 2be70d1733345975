package checkout

import "encoding/json"

// Stage is a step of the checkout pipeline.
type Stage int

const (
	StageCart Stage = iota
	StageSummary
	StageDelivery
	StagePayment
	StageProcessing
	StageSuccess
)

var stageNames = [...]string{"cart", "summary", "delivery", "payment", "processing", "success"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
