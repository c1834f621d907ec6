package eventpubsub

const (
	FetchProgressEvent     = "FetchProgressEvent"
	ScreenProgressEvent    = "ScreenProgressEvent"
	BacktestCompletedEvent = "BacktestCompletedEvent"
	Error                  = "DefaultError"
)
