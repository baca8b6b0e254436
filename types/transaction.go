package types

// TransactionResult is the outcome of dispatching a single call.
// Users of this struct should cast RawData to the type produced by the dispatcher in use.
type TransactionResult struct {
	Hash    string `json:"hash"`
	RawData any    `json:"rawData"`
}
