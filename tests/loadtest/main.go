package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numUsers     = 200
	rowsPerPost  = 25
)

func scopedInsightsPaths(now time.Time) []string {
	year, week := now.ISOWeek()
	return []string{
		"/insights?scope=all",
		"/insights?scope=day&date=" + now.Format("2006-01-02"),
		fmt.Sprintf("/insights?scope=week&date=%d-W%02d", year, week),
		"/insights?scope=month&date=" + now.Format("2006-01"),
	}
}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== PAD Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Users: %d | Rows per POST: %d\n\n", numUsers, rowsPerPost)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Seed pings
	fmt.Println("\n--- Phase 1: Seeding rows (POST /rows) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doPostRows(rng)
	})

	// Trigger a refresh so reads see aggregates
	resp, err := httpClient.Post(baseURL+"/refresh", "application/json", nil)
	if err == nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	// Phase 2: Read endpoints
	fmt.Println("\n--- Phase 2: Reading (GET endpoints) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doGet(rng)
	})

	// Phase 3: Mixed load
	fmt.Println("\n--- Phase 3: Mixed load ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Intn(100) < 30 {
			return doPostRows(rng)
		}
		return doGet(rng)
	})
}

func runPhase(duration time.Duration, fn func(*rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var stop atomic.Bool

	collected := make(map[string]*stats)
	var collectWg sync.WaitGroup
	collectWg.Add(1)
	go func() {
		defer collectWg.Done()
		for r := range results {
			s, ok := collected[r.endpoint]
			if !ok {
				s = &stats{}
				collected[r.endpoint] = s
			}
			s.count++
			if r.err || r.status >= 400 {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
	}()

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for !stop.Load() {
				results <- fn(rng)
			}
		}(time.Now().UnixNano() + int64(w))
	}

	time.Sleep(duration)
	stop.Store(true)
	wg.Wait()
	close(results)
	collectWg.Wait()

	printStats(collected)
}

func doPostRows(rng *rand.Rand) result {
	rows := make([][]string, 0, rowsPerPost)
	now := time.Now()
	for i := 0; i < rowsPerPost; i++ {
		id := rng.Intn(numUsers)
		ts := now.Add(-time.Duration(rng.Intn(3600)) * time.Second)
		rows = append(rows, []string{
			fmt.Sprintf("User %d", id),
			fmt.Sprintf("%d", 100+rng.Intn(100000)),
			fmt.Sprintf("https://www.tiktok.com/@user_%d/live", id),
			ts.Format(time.RFC3339),
		})
	}
	body, _ := json.Marshal(rows)

	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/rows", "application/json", bytes.NewReader(body))
	latency := time.Since(start)
	if err != nil {
		return result{endpoint: "POST /rows", latency: latency, err: true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint: "POST /rows", status: resp.StatusCode, latency: latency}
}

func doGet(rng *rand.Rand) result {
	insights := scopedInsightsPaths(time.Now())
	endpoints := []string{
		"/aggregates?scope=all&sort=score&order=desc",
		"/aggregates?scope=all&sort=minutes&order=asc",
		"/live",
		insights[rng.Intn(len(insights))],
		"/export/report",
		"/export/usernames",
	}
	path := endpoints[rng.Intn(len(endpoints))]

	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	latency := time.Since(start)
	if err != nil {
		return result{endpoint: "GET " + path, latency: latency, err: true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint: "GET " + path, status: resp.StatusCode, latency: latency}
}

func printStats(collected map[string]*stats) {
	endpoints := make([]string, 0, len(collected))
	for e := range collected {
		endpoints = append(endpoints, e)
	}
	sort.Strings(endpoints)

	for _, e := range endpoints {
		s := collected[e]
		sort.Slice(s.latencies, func(i, j int) bool { return s.latencies[i] < s.latencies[j] })
		p50 := percentile(s.latencies, 50)
		p99 := percentile(s.latencies, 99)
		fmt.Printf("%-50s %8d reqs %6d errs  p50=%-10s p99=%s\n", e, s.count, s.errors, p50, p99)
	}
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
