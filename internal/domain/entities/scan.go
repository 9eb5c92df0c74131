package entities

// ScanStatus is the outcome of a bounded scan
type ScanStatus string

const (
	ScanStatusOK     ScanStatus = "ok"
	ScanStatusEmpty  ScanStatus = "empty"
	ScanStatusFailed ScanStatus = "failed"
)

// FailureKind classifies why a scan produced no data
type FailureKind string

const (
	FailureNone          FailureKind = ""
	FailureNotConfigured FailureKind = "not_configured"
	FailureContractCall  FailureKind = "contract_call"
	FailureCanceled      FailureKind = "canceled"
)

// ScanResult is always renderable: failures carry an empty item list.
type ScanResult[T any] struct {
	Status      ScanStatus  `json:"status"`
	FailureKind FailureKind `json:"failureKind,omitempty"`
	Items       []T         `json:"items"`
}

// NewScanResult reports ok or empty depending on items
func NewScanResult[T any](items []T) ScanResult[T] {
	if items == nil {
		items = []T{}
	}
	status := ScanStatusOK
	if len(items) == 0 {
		status = ScanStatusEmpty
	}
	return ScanResult[T]{Status: status, Items: items}
}

// FailedScan is a degraded scan result with no items
func FailedScan[T any](kind FailureKind) ScanResult[T] {
	return ScanResult[T]{Status: ScanStatusFailed, FailureKind: kind, Items: []T{}}
}
