package pipeline

// Pool sizing
const (
	minWorkers          = 1 // A pool always runs at least one worker
	queueDepthPerWorker = 2 // Buffered jobs per worker before Submit blocks
)
