package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bingo_webapp/internal/db"
	"bingo_webapp/internal/logger"
	"bingo_webapp/internal/repository"
	"bingo_webapp/internal/service"

	"github.com/joho/godotenv"
)

// seed_game creates a session with a few players directly in Postgres and
// prints the ids needed to drive it by hand.
func main() {
	host := flag.String("host", "Seed Host", "host name")
	players := flag.Int("players", 3, "players to join")
	cards := flag.Int("cards", 1, "cards per player")
	pattern := flag.String("pattern", "line", "win pattern")
	flag.Parse()

	_ = godotenv.Load()

	// expects DATABASE_URL env var
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}
	service.InitJWT(os.Getenv("JWT_SECRET"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool := db.Connect(ctx, dsn)
	defer pool.Close()

	svc := service.NewBingoService(repository.NewPostgresStore(pool), nil, nil, service.Options{})
	defer svc.Close()

	g, err := svc.CreateGame(ctx, *host, *players+1, *pattern)
	if err != nil {
		logger.Fatal("create game failed", "error", err)
	}
	token, err := service.GenerateHostJWT(g.ID, g.HostID)
	if err != nil {
		logger.Fatal("host token failed", "error", err)
	}

	fmt.Printf("game_id=%s\nhost_token=%s\n", g.ID, token)
	for i := 1; i <= *players; i++ {
		res, err := svc.Join(ctx, g.ID, fmt.Sprintf("Player %d", i), *cards)
		if err != nil {
			logger.Fatal("join failed", "player", i, "error", err)
		}
		fmt.Printf("player_id=%s cards=%d\n", res.Player.ID, len(res.Cards))
	}

	// verify read
	snap, err := svc.Snapshot(ctx, g.ID)
	if err != nil {
		logger.Fatal("snapshot failed", "error", err)
	}
	fmt.Printf("status=%s players=%d\n", snap.Game.Status, len(snap.Players))
}
