package rewriter

// ExpandCounter expands a counter (sequence number, timestamp, or any other
// wrapping counter) into a wider counter using the latest observed value,
// so that wraparound can be detected and folded in. Updates *latest with the
// new value if the expanded value moved it forward. width is the bit width
// of the truncated (wire) counter.
func ExpandCounter(truncated, width uint64, latest *uint64) uint64 {
	mask := uint64(1)<<width - 1
	reallyBig := uint64(1) << (width - 1)

	truncatedLatest := *latest & mask
	latestROC := *latest >> width

	var roc uint64
	switch {
	case truncatedLatest > truncated && truncatedLatest-truncated > reallyBig:
		// Truncated counter is much smaller than the latest observed value: rollover.
		roc = latestROC + 1
	case latestROC > 0 && truncated > truncatedLatest && truncated-truncatedLatest > reallyBig:
		// Truncated counter is much bigger than the latest observed value: rollunder.
		roc = latestROC - 1
	default:
		roc = latestROC
	}

	expanded := roc<<width | (truncated & mask)

	if expanded > *latest {
		*latest = expanded
	}

	return expanded
}
