package sim_test

// Blank import triggers streamprefetch's init(), which registers
// NewPrefetcherFunc. This allows package sim's internal test files to
// construct prefetchers via MustNewPrefetcher without sim itself
// importing streamprefetch (which would create an import cycle).
import _ "github.com/memsim/memsim/streamprefetch"
