package impulse

import "sync"

// task runs fn over data split in contiguous chunks, one goroutine per chunk.
// fn must only touch state owned by its element.
func task[T any](workersCount int, data []T, fn func(data T)) {
	dataSize := len(data)
	if dataSize == 0 {
		return
	}
	workersCount = min(max(workersCount, 1), dataSize)
	if workersCount == 1 {
		for _, d := range data {
			fn(d)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}
