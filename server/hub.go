package server

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"enginecycle/calculator"
	"enginecycle/deque"
	"enginecycle/model"
	"enginecycle/storage"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// 消息类型
const (
	TypeEnv       = "env"
	TypeStart     = "start"
	TypeSample    = "sample"
	TypeTransient = "transient"
	TypeSlider    = "sliderCrank"
	TypeHistory   = "history"
	TypeStop      = "stop"

	TypeEnvSet  = "envSet"
	TypeStarted = "started"
	TypeSampled = "sampled"
	TypeStopped = "stopped"
	TypeError   = "error"
)

// 历史记录中从数据库取出的条数
const storedRuns = 10

// Hub 处理单个连接的请求
type Hub struct {
	c       calculator.Calculator
	conn    *websocket.Conn
	history deque.Deque
	store   *storage.Store
	env     model.Env

	// request
	msg chan model.Msg
	// response
	reply chan model.Msg
	done  chan struct{}
}

func NewHub(c calculator.Calculator, history deque.Deque, store *storage.Store) *Hub {
	return &Hub{
		c:       c,
		history: history,
		store:   store,
		msg:     make(chan model.Msg, 10),
		reply:   make(chan model.Msg, 10),
		done:    make(chan struct{}),
	}
}

func (h *Hub) Close() {
	close(h.done)
}

func (h *Hub) handleResponse() {
	for {
		select {
		case reply := <-h.reply:
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.Warn("发送消息错误: ", err)
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case msg := <-h.msg:
			reply := h.handle(msg)
			select {
			case h.reply <- reply:
			case <-h.done:
				return
			}
		case <-h.done:
			return
		}
	}
}

func errorReply(err error) model.Msg {
	return model.Msg{Type: TypeError, Content: err.Error()}
}

func jsonReply(typ string, v interface{}) model.Msg {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error("序列化错误: ", err)
		return errorReply(err)
	}
	return model.Msg{Type: typ, Content: string(data)}
}

// handle 根据请求类型计算并生成回复, 出错时回复 error 消息
func (h *Hub) handle(msg model.Msg) model.Msg {
	start := time.Now()
	defer func() {
		log.WithFields(log.Fields{
			"type": msg.Type,
			"cost": time.Since(start),
		}).Debug("请求处理完成")
	}()

	switch msg.Type {
	case TypeEnv:
		var env model.Env
		if err := json.Unmarshal([]byte(msg.Content), &env); err != nil {
			log.Warn("参数解析错误: ", err)
			return errorReply(err)
		}
		if err := h.c.SetEnv(env); err != nil {
			log.Warn("参数设置错误: ", err)
			return errorReply(err)
		}
		h.mergeEnv(env)
		return model.Msg{Type: TypeEnvSet, Content: "env is set"}
	case TypeStart:
		trace, err := h.cycle(msg.Content)
		if err != nil {
			return errorReply(err)
		}
		return h.traceReply(TypeStarted, trace)
	case TypeSlider:
		trace, err := h.c.SliderCrank()
		if err != nil {
			return errorReply(err)
		}
		return h.traceReply(TypeSlider, trace)
	case TypeSample:
		data, err := h.c.Sampled()
		if err != nil {
			return errorReply(err)
		}
		return jsonReply(TypeSampled, data)
	case TypeTransient:
		series, err := h.c.Transient()
		if err != nil {
			return errorReply(err)
		}
		return jsonReply(TypeTransient, series)
	case TypeHistory:
		history, err := h.buildHistory()
		if err != nil {
			return errorReply(err)
		}
		return jsonReply(TypeHistory, history)
	case TypeStop:
		return model.Msg{Type: TypeStopped, Content: "stopped"}
	default:
		log.WithField("type", msg.Type).Warn("no such type")
		return model.Msg{Type: TypeError, Content: "no such type: " + msg.Type}
	}
}

// traceReply 序列化成功后才记录结果, 无法序列化的结果不进入历史
func (h *Hub) traceReply(typ string, trace *model.Trace) model.Msg {
	data, err := json.Marshal(trace)
	if err != nil {
		log.Error("序列化错误: ", err)
		return errorReply(err)
	}
	h.record(trace)
	return model.Msg{Type: typ, Content: string(data)}
}

// cycle 消息内容为空时按配置点数计算, 为数字时重采样到对应点数
func (h *Hub) cycle(content string) (*model.Trace, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return h.c.Cycle()
	}
	n, err := strconv.Atoi(content)
	if err != nil {
		return nil, err
	}
	return h.c.Resampled(n)
}

// mergeEnv 非零字段覆盖已保存的参数
func (h *Hub) mergeEnv(env model.Env) {
	merge := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	merge(&h.env.RPM, env.RPM)
	merge(&h.env.CompressionRatio, env.CompressionRatio)
	merge(&h.env.AmbientTemp, env.AmbientTemp)
	merge(&h.env.InitialPressure, env.InitialPressure)
	merge(&h.env.CombustionStart, env.CombustionStart)
	merge(&h.env.CombustionSpan, env.CombustionSpan)
	merge(&h.env.PeakTemp, env.PeakTemp)
	merge(&h.env.ExhaustStart, env.ExhaustStart)
	merge(&h.env.BlowdownSpan, env.BlowdownSpan)
	merge(&h.env.TransientDuration, env.TransientDuration)
	if env.Points > 0 {
		h.env.Points = env.Points
	}
	if env.TransientPoints > 0 {
		h.env.TransientPoints = env.TransientPoints
	}
}

// record 结果放入最近记录, 配置了数据库时同时保存
func (h *Hub) record(trace *model.Trace) {
	h.history.Push(trace)
	if h.store == nil {
		return
	}
	env := h.env
	env.RPM = trace.RPM
	run, err := storage.NewRun(trace, env)
	if err != nil {
		log.Warn("生成计算记录错误: ", err)
		return
	}
	if err := h.store.SaveRun(&run); err != nil {
		log.Error("保存计算记录错误: ", err)
	}
}

// TraceInfo 最近结果的概要, 不含完整曲线
type TraceInfo struct {
	Kind            string  `json:"kind"`
	RPM             float64 `json:"rpm"`
	Points          int     `json:"points"`
	PeakTemperature float64 `json:"peak_temperature"`
	PeakPressure    float64 `json:"peak_pressure"`
}

type HistoryData struct {
	Recent []TraceInfo   `json:"recent"`
	Stored []storage.Run `json:"stored"`
}

func (h *Hub) buildHistory() (*HistoryData, error) {
	res := &HistoryData{Recent: make([]TraceInfo, 0, h.history.Size())}
	h.history.Traverse(func(i int, item *model.Trace) {
		peakT, peakP := calculator.Peak(item)
		res.Recent = append(res.Recent, TraceInfo{
			Kind:            item.Kind,
			RPM:             item.RPM,
			Points:          len(item.Points),
			PeakTemperature: peakT,
			PeakPressure:    peakP,
		})
	})
	if h.store == nil {
		return res, nil
	}
	runs, err := h.store.RecentRuns(storedRuns)
	if err != nil {
		return nil, err
	}
	res.Stored = runs
	return res, nil
}
