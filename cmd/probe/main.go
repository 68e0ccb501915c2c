package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// probe - manual smoke client: subscribes to one symbol and prints every
// message the bridge broadcasts.
//
//	go run ./cmd/probe -symbol ES -kind market_data
// -----------------------------------------------------------------------------

func main() {
	url := flag.String("url", "ws://127.0.0.1:8765/ws", "bridge WebSocket URL")
	symbol := flag.String("symbol", "AAPL", "symbol to subscribe")
	instrument := flag.String("instrument", "stock", "instrument type")
	kind := flag.String("kind", "market_data", "market_data | time_and_sales | bid_ask")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", *url, err)
	}
	defer conn.Close()

	cmd := map[string]interface{}{
		"command":         "subscribe_" + *kind,
		"symbol":          *symbol,
		"instrument_type": *instrument,
	}
	if err := conn.WriteJSON(cmd); err != nil {
		log.Fatalf("subscribe: %v", err)
	}
	log.Printf("subscribed %s (%s, %s), waiting for messages...", *symbol, *instrument, *kind)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Printf("read: %v", err)
				return
			}
			var pretty map[string]interface{}
			if json.Unmarshal(message, &pretty) == nil {
				out, _ := json.MarshalIndent(pretty, "", "  ")
				fmt.Println(string(out))
			} else {
				fmt.Println(string(message))
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	select {
	case <-done:
	case <-quit:
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}
