package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"slices"
	"time"

	"bingo_webapp/internal/domain"
	"bingo_webapp/internal/logger"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// ws_smoke drives a running server: it creates a session, connects several
// observers, calls numbers and checks every observer saw the same draw in
// the same order.
func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := flag.String("addr", "127.0.0.1:"+port, "server host:port")
	observers := flag.Int("observers", 3, "number of websocket observers")
	calls := flag.Int("calls", 10, "numbers to call")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api := "http://" + *base + "/api/v1"

	var created struct {
		Game      domain.Game `json:"game"`
		HostToken string      `json:"host_token"`
	}
	if err := postJSON(ctx, api+"/games", "", map[string]any{"host_name": "smoke", "player_limit": *observers}, &created); err != nil {
		logger.Fatal("create game", "error", err)
	}
	gameID := created.Game.ID
	logger.Info("game created", "game_id", gameID)

	conns := make([]*websocket.Conn, 0, *observers)
	for i := 0; i < *observers; i++ {
		q := url.Values{"game": {gameID}, "player_name": {fmt.Sprintf("smoke-%d", i)}}
		u := url.URL{Scheme: "ws", Host: *base, Path: "/ws", RawQuery: q.Encode()}
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			logger.Fatal("dial", "observer", i, "error", err)
		}
		defer conn.Close()
		if err := waitFor(conn, "joined", 3*time.Second); err != nil {
			logger.Fatal("join", "observer", i, "error", err)
		}
		conns = append(conns, conn)
	}

	if err := postJSON(ctx, api+"/games/"+gameID+"/start", created.HostToken, nil, nil); err != nil {
		logger.Fatal("start", "error", err)
	}

	// concurrent calls: each must draw a distinct number
	var called []int
	callGroup, cctx := errgroup.WithContext(ctx)
	results := make(chan int, *calls)
	for i := 0; i < *calls; i++ {
		callGroup.Go(func() error {
			var res struct {
				Number int `json:"number"`
			}
			if err := postJSON(cctx, api+"/games/"+gameID+"/call", created.HostToken, nil, &res); err != nil {
				return err
			}
			results <- res.Number
			return nil
		})
	}
	if err := callGroup.Wait(); err != nil {
		logger.Fatal("call", "error", err)
	}
	close(results)
	for n := range results {
		called = append(called, n)
	}

	seen := make([][]int, len(conns))
	g := new(errgroup.Group)
	for i, conn := range conns {
		g.Go(func() error {
			nums, err := collectNumbers(conn, len(called), 5*time.Second)
			seen[i] = nums
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal("collect", "error", err)
	}

	for i := 1; i < len(seen); i++ {
		if !slices.Equal(seen[0], seen[i]) {
			logger.Fatal("observers disagree", "first", seen[0], "other", seen[i])
		}
	}
	sorted := slices.Clone(seen[0])
	slices.Sort(sorted)
	slices.Sort(called)
	if !slices.Equal(sorted, called) || len(slices.Compact(sorted)) != len(called) {
		logger.Fatal("draw mismatch", "called", called, "seen", seen[0])
	}

	logger.Info("smoke test finished", "game_id", gameID, "draw", seen[0])
}

func postJSON(ctx context.Context, u, token string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d", u, res.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func waitFor(conn *websocket.Conn, msgType string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		_ = conn.SetReadDeadline(deadline)
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			return err
		}
		if f.Type == msgType {
			return nil
		}
	}
}

func collectNumbers(conn *websocket.Conn, want int, timeout time.Duration) ([]int, error) {
	deadline := time.Now().Add(timeout)
	var nums []int
	for len(nums) < want {
		_ = conn.SetReadDeadline(deadline)
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			return nums, err
		}
		if f.Type != string(domain.EventNumberCalled) {
			continue
		}
		var p domain.NumberCalledPayload
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			return nums, err
		}
		nums = append(nums, p.Number)
	}
	return nums, nil
}
