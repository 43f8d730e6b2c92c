package ws_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/haingladys/jsdc-accounting/internal/core/events"
	"github.com/haingladys/jsdc-accounting/internal/transport/ws"
)

func TestWS(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "WebSocket Hub Suite")
}

var _ = Describe("Hub", func() {
	var (
		hub    *ws.Hub
		bus    *events.EventBus
		server *httptest.Server
		cancel context.CancelFunc
		conn   *websocket.Conn
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		hub = ws.NewHub(logger, nil)
		bus = events.NewEventBus(logger)
		hub.Subscribe(bus)

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		go hub.Run(ctx)

		server = httptest.NewServer(hub)
		url := "ws" + strings.TrimPrefix(server.URL, "http")

		var err error
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		Expect(err).NotTo(HaveOccurred())
		Eventually(hub.ClientCount).Should(Equal(1))
	})

	AfterEach(func() {
		_ = conn.Close()
		server.Close()
		cancel()
	})

	It("pushes published events to connected clients", func() {
		Expect(bus.PublishSync(context.Background(), events.NewRecordChangedEvent("income", "created", "rec-1"))).To(Succeed())

		Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
		_, data, err := conn.ReadMessage()
		Expect(err).NotTo(HaveOccurred())

		var msg struct {
			Type    string                 `json:"type"`
			ID      string                 `json:"id"`
			Payload map[string]interface{} `json:"payload"`
		}
		Expect(json.Unmarshal(data, &msg)).To(Succeed())
		Expect(msg.Type).To(Equal(events.EventTypeRecordChanged))
		Expect(msg.ID).NotTo(BeEmpty())
		Expect(msg.Payload).To(HaveKeyWithValue("record_id", "rec-1"))
	})

	It("forgets clients that disconnect", func() {
		Expect(conn.Close()).To(Succeed())
		Eventually(hub.ClientCount).Should(BeZero())
	})
})
