package model

// LVRLookupRow maps a loan-to-value ratio to the price drop (percent) that triggers a margin call.
type LVRLookupRow struct {
	LVR          float64 `json:"lvr"`
	MCTriggerPct float64 `json:"mc_trigger_pct"`
}

// MarginCallRow is a lookup row annotated with the number of historical periods that breached it.
type MarginCallRow struct {
	LVRLookupRow
	MarginCalls int `json:"mc_count"`
}
