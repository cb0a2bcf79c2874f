package templates

type SummaryRow struct {
	Name       string
	Dispatches int
	Cycles     int
	Notified   int
}

type Summary struct {
	Observables int
	Rows        []SummaryRow
}
