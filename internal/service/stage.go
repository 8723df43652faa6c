package service

import "fmt"

// Stage is a step of one download run. Runs only move forward.
type Stage string

const (
	StageStart           Stage = "start"
	StageURLResolved     Stage = "url_resolved"
	StageMetadataFetched Stage = "metadata_fetched"
	StageQualitySelected Stage = "quality_selected"
	StageDownloaded      Stage = "downloaded"
	StageCombined        Stage = "combined"
	StageDone            Stage = "done"
)

// StageError records the last stage a failed run reached. The cause stays
// reachable through errors.Is and errors.As.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("download failed after %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
