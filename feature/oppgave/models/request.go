package models

// ResponseStatus is the ternary outcome of a batch run.
type ResponseStatus string

const (
	// StatusOK means every candidate was written.
	StatusOK ResponseStatus = "OK"
	// StatusPartial means the written count differs from the candidate
	// count. Per-item write failures never escalate past this.
	StatusPartial ResponseStatus = "PARTIAL"
	// StatusError means the run could not even fetch records.
	StatusError ResponseStatus = "ERROR"
)

// BatchUpdateRequest configures a bulk hjemmel update run.
type BatchUpdateRequest struct {
	// DryRun computes the candidate set without issuing any writes.
	DryRun bool `json:"dryRun"`
	// OppgaveID limits the run to one record, skipping pagination.
	OppgaveID *int64 `json:"oppgaveId,omitempty"`
	// IncludeFrom is a lower date bound (ISO date) passed to the remote
	// fetch unchanged.
	IncludeFrom string `json:"includeFrom,omitempty"`
}

// BatchUpdateResponse is the structured result of a batch run. It is
// always returned, also for partially failed runs.
type BatchUpdateResponse struct {
	Finished string         `json:"finished"`
	Status   ResponseStatus `json:"status"`
	Message  string         `json:"message"`
}

// BatchStoreRequest configures a batch pull into the local copy store.
type BatchStoreRequest struct {
	DryRun          bool   `json:"dryRun"`
	IncludeFrom     string `json:"includeFrom,omitempty"`
	Tema            string `json:"tema,omitempty"`
	Behandlingstype string `json:"behandlingstype,omitempty"`
	TildeltEnhetsnr string `json:"tildeltEnhetsnr,omitempty"`
}

// BatchStoreResponse reports a batch store run.
type BatchStoreResponse struct {
	Finished string         `json:"finished"`
	Status   ResponseStatus `json:"status"`
	Message  string         `json:"message"`
}

// ItemState tracks one record through a batch run.
type ItemState string

const (
	ItemFetched       ItemState = "FETCHED"
	ItemFilteredOut   ItemState = "FILTERED_OUT"
	ItemNoWriteNeeded ItemState = "NO_WRITE_NEEDED"
	ItemWritePending  ItemState = "WRITE_PENDING"
	ItemWriteOK       ItemState = "WRITE_OK"
	ItemWriteFailed   ItemState = "WRITE_FAILED"
)
