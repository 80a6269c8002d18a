package neighbor3d

import "sync"

// runChunked splits the index range [0, n) into up to workers contiguous
// chunks and runs fn once per chunk, each in its own goroutine, blocking
// until all chunks complete. Chunking is by index range (map fragment),
// not by individual point, per spec.md §5: "work is chunked by map
// fragment, not by point." Within a chunk fn itself runs Pass A then
// Pass B sequentially, as spec.md §5 requires.
func runChunked(n, workers int, fn func(lo, hi int)) {
	if n == 0 {
		return
	}

	if workers <= 1 {
		fn(0, n)

		return
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup

	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}

		wg.Add(1)

		go func(lo, hi int) {
			defer wg.Done()

			fn(lo, hi)
		}(lo, hi)
	}

	wg.Wait()
}
