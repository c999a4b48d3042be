package handlers_test

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"tap-miner-backend/internal/config"
	"tap-miner-backend/internal/handlers"
	"tap-miner-backend/internal/models"
	"tap-miner-backend/internal/services"
)

// Drives hub broadcasts and PING replies at the same connection from two
// goroutines; writes must serialize instead of tripping gorilla's
// concurrent-write panic.
func TestWebSocketConcurrentWrites(t *testing.T) {
	cfg := &config.Config{
		RedisURL:  "localhost:6379",
		RedisPass: "",
		RedisDB:   0,
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer redisService.Close()

	engine := services.NewTapEngine(redisService, services.FixedBlock(1))
	wsHandler := handlers.NewWebSocketHandler(engine, redisService)

	address := "0x" + "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef"
	defer redisService.DeletePlayerData(address)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		c.Set("address", address)
		wsHandler.HandleWebSocket(c)
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	defer conn.Close()

	// Drain everything the server pushes.
	received := make(chan struct{})
	go func() {
		defer close(received)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			wsHandler.BroadcastTapResult(address, &models.TapRecord{
				ID:          models.GenerateTapID(),
				Address:     address,
				TotalReward: uint64(i),
				CreatedAt:   time.Now().Unix(),
			})
		}
	}()

	// PINGs make the server's reader goroutine write pongs while the hub
	// goroutine writes broadcasts.
	for i := 0; i < 200; i++ {
		if err := conn.WriteJSON(handlers.Message{Type: "PING"}); err != nil {
			t.Fatalf("Failed to send ping: %v", err)
		}
	}

	wg.Wait()

	// The connection must still be usable after the write storm.
	if err := conn.WriteJSON(handlers.Message{Type: "PING"}); err != nil {
		t.Errorf("Connection unusable after concurrent writes: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	conn.Close()

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Error("Reader did not shut down after close")
	}
}
