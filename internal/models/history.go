package models

// HistoryRow is one logged step of a run's time-series history. Keys
// prefixed with an underscore (_step, _timestamp, _runtime) are service
// bookkeeping; everything else is a user-logged metric.
type HistoryRow map[string]any
