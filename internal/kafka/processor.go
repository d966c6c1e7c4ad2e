package kafka

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/chainguardia/chainguardia-backend/internal/scanner"
)

// ScanRequest is the payload published on the scan-requests topic. It asks
// for an immediate scan of one user, optionally narrowed by a feed keyword.
type ScanRequest struct {
	UserID  string `json:"user_id"`
	Keyword string `json:"keyword,omitempty"`
}

// RunScanProcessor consumes scan-requests and runs the scan pipeline for
// each message. It returns once the consumer goroutine is started.
func RunScanProcessor(ctx context.Context, sc *scanner.Scanner) error {
	brokersEnv := os.Getenv("KAFKA_BROKERS")
	var brokers []string
	if brokersEnv != "" {
		brokers = strings.Split(brokersEnv, ",")
	} else {
		brokers = []string{"localhost:9092"}
	}

	username := os.Getenv("KAFKA_API_KEY")
	password := os.Getenv("KAFKA_API_SECRET")

	var dialer *kafka.Dialer

	// SASL/TLS only when credentials are provided, plain dialer for local dev
	if username != "" && password != "" {
		mechanism := plain.Mechanism{
			Username: username,
			Password: password,
		}

		dialer = &kafka.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			SASLMechanism: mechanism,
			TLS:           &tls.Config{},
		}
	} else {
		dialer = &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
		}
	}

	topic := "scan-requests"
	var conn *kafka.Conn
	var err error

	// Retry logic: 3 tries
	for i := 1; i <= 3; i++ {
		log.Printf("Kafka connection attempt %d/3...", i)
		conn, err = dialer.DialContext(ctx, "tcp", brokers[0])
		if err == nil {
			conn.Close()
			break
		}
		if i < 3 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		return err
	}

	readerConfig := kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  "chainguardia-backend-worker",
		Topic:    topic,
		MaxBytes: 10e6,
		Dialer:   dialer,
	}

	reader := kafka.NewReader(readerConfig)

	go func() {
		defer reader.Close()

		log.Println("Kafka scan processor started. Listening for scan requests...")

		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := reader.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					continue
				}
				handleScanRequest(ctx, sc, msg.Value)
			}
		}
	}()

	return nil
}

func handleScanRequest(ctx context.Context, sc *scanner.Scanner, payload []byte) {
	var req ScanRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		log.Printf("Kafka: dropping malformed scan request: %v", err)
		return
	}
	if req.UserID == "" {
		log.Printf("Kafka: dropping scan request without user_id")
		return
	}
	if _, err := sc.ScanUser(ctx, req.UserID, req.Keyword); err != nil {
		log.Printf("Kafka: scan failed for user %s: %v", req.UserID, err)
	}
}
