package util

import (
	"time"
)

var mockTime int64

var timeOffset int64

func GetTime() int64 {
	if mockTime > 0 {
		return mockTime
	}
	return time.Now().Unix()
}

// SetMockTime pins the clock for tests. A value of 0 restores the real clock.
func SetMockTime(time int64) {
	mockTime = time
}

// GetAdjustedTime is the network-adjusted current time: the local clock plus
// the median offset observed against our peers. The offset is maintained by
// the (external) peer layer via SetTimeOffset.
func GetAdjustedTime() int64 {
	return GetTime() + GetTimeOffset()
}

func GetTimeOffset() int64 {
	return timeOffset
}

func SetTimeOffset(offset int64) {
	timeOffset = offset
}
