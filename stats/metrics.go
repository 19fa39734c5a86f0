package stats

// Metrics is a dumb data point computed from the open block.
type Metrics struct {
	Samples   int     // values in the open block
	Blocks    int     // number of completed blocks
	Best      float64 // best rtt in ms
	Worst     float64 // worst rtt in ms
	Mean      float64 // mean rtt in ms
	StdDev    float64 // std deviation in ms
	LastBlock float64 // average of the last completed block in ms, 0 if Blocks == 0
}
