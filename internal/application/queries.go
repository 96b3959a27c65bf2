package application

// HistoryQuery filters stored runs; zero values match everything.
type HistoryQuery struct {
	Trigger  string
	DataType string
	Limit    int
}
