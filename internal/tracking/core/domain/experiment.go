package domain

// ExperimentKey is the bucket key holding a client's experiment 1 group.
const ExperimentKey = "EXPERIMENT1_GROUP"

type Group string

const (
	GroupControl   Group = "control"
	GroupTreatment Group = "treatment"
)

// GroupForCoin maps a coin flip in [0,1) to a group. The boundary 0.5 goes
// to control.
func GroupForCoin(coin float64) Group {
	if coin <= 0.5 {
		return GroupControl
	}
	return GroupTreatment
}
