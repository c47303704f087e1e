// Command bench runs a synthetic workload against a composed store and
// exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/IvanBrykalov/collections/behavior"
	"github.com/IvanBrykalov/collections/behavior/lock"
	"github.com/IvanBrykalov/collections/behavior/lru"
	"github.com/IvanBrykalov/collections/behavior/ttl"
	"github.com/IvanBrykalov/collections/container/hashmap"
	"github.com/IvanBrykalov/collections/container/rbtree"
	pmet "github.com/IvanBrykalov/collections/metrics/prom"
	"github.com/IvanBrykalov/collections/store"
	"github.com/IvanBrykalov/collections/traits"
)

func main() {
	// ---- Flags ----
	var (
		container = flag.String("container", "hashmap", "backing container: hashmap | rbtree")
		capacity  = flag.Int("cap", 100_000, "LRU capacity (entries)")
		entryTTL  = flag.Duration("ttl", 0, "per-entry TTL (0 = no expiry)")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "collections", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build store ----
	var base store.Map[string, string]
	switch *container {
	case "hashmap":
		base = hashmap.NewWith(hashmap.Options[string, string]{
			InitialCapacity: *capacity,
			Hash:            traits.Hash[string](),
			KeyEq:           traits.Equal[string](),
		})
	case "rbtree":
		base = rbtree.New[string, string]()
	default:
		log.Fatalf("unknown container: %q (use hashmap or rbtree)", *container)
	}

	behaviors := make([]behavior.Behavior[string, string], 0, 3)
	var expiring *ttl.Store[string, string]
	if *entryTTL > 0 {
		behaviors = append(behaviors, func(s store.Map[string, string]) store.Map[string, string] {
			expiring = ttl.Wrap(s, ttl.Options[string, string]{
				TTL:     *entryTTL,
				Metrics: metrics,
			})
			return expiring
		})
	}
	behaviors = append(behaviors,
		lru.New[string, string](lru.Options[string, string]{
			Capacity: *capacity,
			Metrics:  metrics,
		}),
		lock.Mutex[string, string](),
	)
	c := behavior.Compose(behaviors...)(base)
	if expiring != nil {
		defer func() { _ = expiring.Close() }()
	}

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	for i := 0; i < pl; i++ {
		k := "k:" + strconv.Itoa(i)
		c.Set(k, "v"+strconv.Itoa(i))
	}

	// ---- Snapshot flags for goroutines ----
	readPctVal := *readPct
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var reads, writes, hits, misses, total uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(workersN)
	for w := 0; w < workersN; w++ {
		go func(id int) {
			defer wg.Done()

			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			keyByZipf := func() string {
				return "k:" + strconv.FormatUint(localZipf.Uint64(), 10)
			}

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddUint64(&total, 1)
				if int(localR.Int31n(100)) < readPctVal {
					atomic.AddUint64(&reads, 1)
					if _, err := c.Get(keyByZipf()); err == nil {
						atomic.AddUint64(&hits, 1)
					} else {
						atomic.AddUint64(&misses, 1)
					}
				} else {
					atomic.AddUint64(&writes, 1)
					k := keyByZipf()
					c.Set(k, "v"+strconv.Itoa(localR.Int()))
				}
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	readsN := atomic.LoadUint64(&reads)
	writesN := atomic.LoadUint64(&writes)
	hitsN := atomic.LoadUint64(&hits)
	missesN := atomic.LoadUint64(&misses)

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	fmt.Printf("container=%s cap=%d ttl=%v workers=%d keys=%d dur=%v seed=%d\n",
		*container, *capacity, *entryTTL, workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writesN)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hitsN, missesN, hitRate)
	fmt.Printf("Len()=%d\n", c.Len())
}
