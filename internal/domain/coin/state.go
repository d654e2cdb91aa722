package coin

// IssuanceState is how far a coin got on the ledger. Each state is readable
// from the ledger itself, so a later reconciliation job can pick up from it.
type IssuanceState string

const (
	StatePending          IssuanceState = "pending"
	StateMintCreated      IssuanceState = "mint_created"
	StateAccountReady     IssuanceState = "account_ready"
	StateSupplied         IssuanceState = "supplied"
	StateMetadataAttached IssuanceState = "metadata_attached"
)

var stateOrder = map[IssuanceState]int{
	StatePending:          0,
	StateMintCreated:      1,
	StateAccountReady:     2,
	StateSupplied:         3,
	StateMetadataAttached: 4,
}

// Reached reports whether s is at or past target.
func (s IssuanceState) Reached(target IssuanceState) bool {
	return stateOrder[s] >= stateOrder[target]
}

// Complete reports whether every ledger step has landed.
func (s IssuanceState) Complete() bool {
	return s == StateMetadataAttached
}

// Observation is what the ledger currently says about one mint.
type Observation struct {
	MintAddress     string        `json:"mintAddress"`
	State           IssuanceState `json:"state"`
	Decimals        uint8         `json:"decimals"`
	Supply          string        `json:"supply"`
	TokenAccount    string        `json:"tokenAccount"`
	MetadataAddress string        `json:"metadataAddress"`
}

// DeriveState folds per-step ledger facts into the furthest state reached.
// Later steps never count when an earlier one is missing.
func DeriveState(mintExists, accountExists, supplied, metadataExists bool) IssuanceState {
	switch {
	case !mintExists:
		return StatePending
	case !accountExists:
		return StateMintCreated
	case !supplied:
		return StateAccountReady
	case !metadataExists:
		return StateSupplied
	default:
		return StateMetadataAttached
	}
}
