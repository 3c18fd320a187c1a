package utils

import (
	"sync"
	"testing"
)

func TestGetLoggerConcurrentFirstUse(t *testing.T) {
	// Background tasks may be the first callers; simultaneous first calls
	// must initialize exactly once and all observe the same instance.
	const callers = 16
	var wg sync.WaitGroup
	loggers := make([]interface{}, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			loggers[i] = GetLogger()
		}(i)
	}
	wg.Wait()

	if loggers[0] == nil {
		t.Fatal("GetLogger returned nil")
	}
	for i := 1; i < callers; i++ {
		if loggers[i] != loggers[0] {
			t.Errorf("caller %d observed a different logger instance", i)
		}
	}
}
