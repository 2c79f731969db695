// burst dispara N POSTs simultâneos contra o gateway e mostra quantos foram
// admitidos e quantos receberam 429.
//
//	go run ./cmd/burst -url http://localhost:8080/api/v3/lk/documents/create -n 20
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"slices"
	"sync"
	"time"
)

const sampleDocument = `{"description":{"participant_inn":"7700000001"},"doc_id":"burst","doc_status":"NEW",` +
	`"doc_type":"LP_INTRODUCE_GOODS","importRequest":false,"owner_inn":"7700000002",` +
	`"participant_inn":"7700000001","producer_inn":"7700000003","production_date":"2024-01-20",` +
	`"production_type":"OWN_PRODUCTION","products":[],"reg_date":"2024-01-21","reg_number":"R-1"}`

// tally conta respostas por status; 0 = erro de transporte.
type tally map[int]int

func fire(ctx context.Context, client *http.Client, url string, n int) tally {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		out   = tally{}
		start = make(chan struct{})
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			code := post(ctx, client, url)
			mu.Lock()
			out[code]++
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()
	return out
}

func post(ctx context.Context, client *http.Client, url string) int {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(sampleDocument))
	if err != nil {
		return 0
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return 0
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

func (t tally) write(w io.Writer) {
	for _, code := range slices.Sorted(maps.Keys(t)) {
		label := http.StatusText(code)
		if code == 0 {
			label = "transport error"
		}
		fmt.Fprintf(w, "%d %-22s %d\n", code, label, t[code])
	}
}

func main() {
	url := flag.String("url", "http://localhost:8080/api/v3/lk/documents/create", "create endpoint")
	n := flag.Int("n", 20, "concurrent requests")
	timeout := flag.Duration("timeout", 10*time.Second, "overall timeout")
	flag.Parse()

	if *n <= 0 {
		slog.Error("invalid -n", "n", *n)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res := fire(ctx, &http.Client{Timeout: *timeout}, *url, *n)
	res.write(os.Stdout)
}
