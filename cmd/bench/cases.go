// README: Benchmark test cases for the quotation API; includes HTTP, DB, Redis, and performance checks.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	benchCustomer = "bench-customer"
	benchCarrier  = "bench-carrier"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

// do sends one JSON request and returns status, body and latency.
func (r *Runner) do(ctx context.Context, method, url string, body any) (int, []byte, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.AuthToken)
	}
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, time.Since(start), err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, b, time.Since(start), err
}

func legacyQuote(customerID string) map[string]any {
	return map[string]any{
		"customerID":      customerID,
		"userogpincode":   110001,
		"modeoftransport": "Road",
		"fromPincode":     110001,
		"toPincode":       400001,
		"noofboxes":       2,
		"length":          50,
		"width":           40,
		"height":          30,
		"weight":          12,
	}
}

func lineQuote(customerID string) map[string]any {
	return map[string]any{
		"customerID":      customerID,
		"modeoftransport": "Road",
		"fromPincode":     "110001",
		"toPincode":       "400001",
		"shipment_details": []map[string]any{
			{"count": 3, "length": 50, "width": 40, "height": 30, "weight": 12},
			{"count": 1, "length": 120, "width": 80, "height": 60, "weight": 40},
		},
	}
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name:  "Env: Postgres connect",
			Focus: "DB reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "Env: Redis connect",
			Focus: "Distance cache reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "SKIP", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "Migration: apply (optional)",
			Focus: "Apply migration SQL",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: "SKIP", Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, s := range splitSQL(string(sql)) {
					if _, err := r.db.Exec(ctx, s); err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "Migration: tables exist",
			Focus: "Tables from migrations/0001_init.sql exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
					if !exists {
						return Result{Status: "FAIL", Note: "missing table: " + t}
					}
				}
				return Result{Status: "PASS", Note: fmt.Sprintf("%d tables", len(tables))}
			},
		},
		{
			Name:  "Seed: bench fixtures (optional)",
			Focus: "One carrier on 110001→400001 and one unsubscribed customer",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.Seed {
					return Result{Status: "SKIP", Note: "seed=false"}
				}
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				if err := seed(ctx, r.db); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "API: health",
			Focus: "API responds",
			Run: func(ctx context.Context, r *Runner) Result {
				status, _, latency, err := r.do(ctx, http.MethodGet, base+"/health", nil)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", status)}
				}
				return Result{Status: "PASS", Latency: latency}
			},
		},

		// Quotation
		quoteCase("Quote: legacy box form", base, legacyQuote(benchCustomer)),
		quoteCase("Quote: shipment_details form", base, lineQuote(benchCustomer)),
		httpCase("Quote: missing fields -> 400", base+"/api/quotes", map[string]any{"customerID": benchCustomer}, []int{400}, nil),
		httpCase("Quote: both shipment forms -> 400", base+"/api/quotes", func() map[string]any {
			b := lineQuote(benchCustomer)
			for k, v := range legacyQuote(benchCustomer) {
				if _, ok := b[k]; !ok {
					b[k] = v
				}
			}
			return b
		}(), []int{400}, nil),
		httpCase("Quote: unknown customer -> 404", base+"/api/quotes", legacyQuote("bench-nobody"), []int{404}, nil),
		manualCase("Quote: provider outage falls back to pincode coordinates", "unset GOOGLE_MAP_API_KEY or block maps.googleapis.com and compare distance text"),
		manualCase("Quote: QuoteIssued event published", "consume FQ_KAFKA_TOPIC while issuing quotes"),

		// Tie-ups
		httpCase("Tie-up: missing fields -> 400", base+"/api/tie-ups", map[string]any{"customerID": benchCustomer}, []int{400}, nil),
		httpCase("Tie-up: unknown company -> pending", base+"/api/tie-ups", map[string]any{
			"customerID":  benchCustomer,
			"companyName": fmt.Sprintf("Bench Unlisted %d", time.Now().UnixNano()),
			"vendorCode":  "BENCH",
			"vendorPhone": "9000000000",
			"vendorEmail": "bench@example.com",
			"gstNo":       "27AAAAA0000A1Z5",
			"mode":        "Road",
			"address":     "1 Bench Rd",
			"state":       "DL",
			"pincode":     110001,
			"rating":      4,
			"priceRate":   map[string]any{"minCharges": 400},
			"priceChart":  map[string]any{"110001": map[string]any{"W1": 9}},
		}, []int{202}, []int{404}),
		httpCaseMethod("Tie-up: list", http.MethodGet, base+"/api/tie-ups?customerId="+benchCustomer, nil, []int{200}, nil),

		// Zone matrix
		httpCaseMethod("Zone matrix: get", http.MethodGet, base+"/api/carriers/"+benchCarrier+"/zone-matrix", nil, []int{200}, []int{404}),
		httpCaseMethod("Zone matrix: non-positive price -> 400", http.MethodPut, base+"/api/carriers/"+benchCarrier+"/zone-matrix",
			map[string]any{"zoneMatrix": map[string]any{"N1": map[string]any{"W1": 0}}}, []int{400}, nil),

		// Concurrency
		{
			Name:  "Concurrency: identical quotes agree",
			Focus: "Parallel requests for one route return the same totals",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentQuotes(ctx, r, base+"/api/quotes", legacyQuote(benchCustomer))
			},
		},

		// Performance
		{
			Name:  "Perf: quote throughput",
			Focus: "Sustained POST /api/quotes",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/quotes", lineQuote(benchCustomer))
			},
		},
	}
}

// quoteCase expects 200 and, once fixtures are seeded, at least one quote.
func quoteCase(name, base string, body map[string]any) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			status, b, latency, err := r.do(ctx, http.MethodPost, base+"/api/quotes", body)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			if status == http.StatusNotFound && !r.cfg.Seed {
				return Result{Status: "PENDING", Latency: latency, Note: "customer not seeded"}
			}
			if status != http.StatusOK {
				return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", status)}
			}
			var res quoteResponse
			if err := json.Unmarshal(b, &res); err != nil {
				return Result{Status: "FAIL", Latency: latency, Note: err.Error()}
			}
			n := len(res.TiedUp) + len(res.Public)
			if r.cfg.Seed && n == 0 {
				return Result{Status: "FAIL", Latency: latency, Note: "no quotes for seeded route"}
			}
			return Result{Status: "PASS", Latency: latency, Note: fmt.Sprintf("quotes=%d", n)}
		},
	}
}

type quoteResponse struct {
	Success bool             `json:"success"`
	TiedUp  []map[string]any `json:"tiedUpResults"`
	Public  []map[string]any `json:"publicResults"`
}

func httpCase(name, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses, pendingStatuses)
}

func httpCaseMethod(name, method, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			status, _, latency, err := r.do(ctx, method, url, body)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			note := fmt.Sprintf("status=%d", status)
			if contains(okStatuses, status) {
				return Result{Status: "PASS", Latency: latency, Note: note}
			}
			if contains(pendingStatuses, status) {
				return Result{Status: "PENDING", Latency: latency, Note: note}
			}
			return Result{Status: "FAIL", Latency: latency, Note: note}
		},
	}
}

func manualCase(name, note string) TestCase {
	return TestCase{
		Name:  name,
		Focus: "Manual",
		Run: func(ctx context.Context, r *Runner) Result {
			return Result{Status: "SKIP", Note: note}
		},
	}
}

func concurrentQuotes(ctx context.Context, r *Runner, url string, payload any) Result {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		totals = map[string]int{}
		failed int
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, b, _, err := r.do(ctx, http.MethodPost, url, payload)
			mu.Lock()
			defer mu.Unlock()
			if err != nil || status != http.StatusOK {
				failed++
				return
			}
			var res quoteResponse
			if json.Unmarshal(b, &res) != nil {
				failed++
				return
			}
			totals[fingerprint(res)]++
		}()
	}
	wg.Wait()

	if failed == r.cfg.Concurrency {
		return Result{Status: "PENDING", Note: "no successful quotes"}
	}
	if len(totals) > 1 {
		return Result{Status: "FAIL", Note: fmt.Sprintf("%d distinct results", len(totals))}
	}
	return Result{Status: "PASS", Note: fmt.Sprintf("ok=%d failed=%d", r.cfg.Concurrency-failed, failed)}
}

// fingerprint summarises the totals of a quote response in result order.
func fingerprint(res quoteResponse) string {
	var sb strings.Builder
	for _, group := range [][]map[string]any{res.TiedUp, res.Public} {
		for _, q := range group {
			fmt.Fprintf(&sb, "%v/%v;", q["companyId"], q["totalCharges"])
		}
		sb.WriteString("|")
	}
	return sb.String()
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		latencies []time.Duration
		errCount  int
	)

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				status, _, latency, err := r.do(ctx, http.MethodPost, url, payload)
				mu.Lock()
				if err != nil || status >= 500 {
					errCount++
				} else {
					latencies = append(latencies, latency)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(latencies) == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(len(latencies)) / r.cfg.Duration.Seconds()
	return Result{
		Status:  "PASS",
		Latency: percentile(latencies, 50),
		Note:    fmt.Sprintf("rps=%.1f p95=%s p99=%s errors=%d", rps, percentile(latencies, 95), percentile(latencies, 99), errCount),
	}
}

// percentile sorts ds in place.
func percentile(ds []time.Duration, p int) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })
	idx := (len(ds)*p + 99) / 100
	if idx < 1 {
		idx = 1
	}
	return ds[idx-1]
}

func seed(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO customers (id, is_subscribed) VALUES ($1, FALSE) ON CONFLICT (id) DO NOTHING`, []any{benchCustomer}},
		{`INSERT INTO carriers (id, name) VALUES ($1, 'Bench Express') ON CONFLICT (id) DO NOTHING`, []any{benchCarrier}},
		{`INSERT INTO carrier_service (carrier_id, pincode, zone, is_oda) VALUES ($1, 110001, 'N1', FALSE), ($1, 400001, 'W1', FALSE)
		  ON CONFLICT (carrier_id, pincode) DO NOTHING`, []any{benchCarrier}},
		{`INSERT INTO rate_cards (carrier_id, price_rate, zone_rates)
		  VALUES ($1, '{"minCharges": 500, "docketCharges": 50, "fuel": 10}'::jsonb, '{"N1": {"W1": 10}}'::jsonb)
		  ON CONFLICT (carrier_id) DO NOTHING`, []any{benchCarrier}},
	}
	for _, s := range stmts {
		if _, err := db.Exec(ctx, s.sql, s.args...); err != nil {
			return err
		}
	}
	return nil
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	parts := strings.Split(strings.Join(filtered, "\n"), ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
