package server

import (
	"net/http"

	"enginecycle/calculator"
	"enginecycle/deque"
	"enginecycle/model"
	"enginecycle/storage"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// 每个连接保留的最近计算结果数
const historySize = 20

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	cfg      calculator.Config
	store    *storage.Store
}

// NewServer store 可以为 nil, 此时不保存计算记录
func NewServer(addr string, upgrader websocket.Upgrader, cfg calculator.Config, store *storage.Store) *Server {
	return &Server{
		addr:     addr,
		upgrader: upgrader,
		cfg:      cfg,
		store:    store,
	}
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade: ", err)
		return
	}
	defer conn.Close()

	hub := NewHub(calculator.NewCalculator(s.cfg), deque.NewListDeque(historySize), s.store)
	hub.conn = conn
	go hub.handleRequest()
	go hub.handleResponse()
	defer hub.Close()

	log.WithField("remote", conn.RemoteAddr().String()).Info("连接建立")
	for {
		var msg model.Msg
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("读取消息错误: ", err)
			}
			break
		}
		hub.msg <- msg
	}
	log.WithField("remote", conn.RemoteAddr().String()).Info("连接断开")
}

func (s *Server) Serve() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	log.WithField("addr", s.addr).Info("服务启动")
	return http.ListenAndServe(s.addr, mux)
}
