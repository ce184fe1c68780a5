package model

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Env 前端下发的计算参数, 为零值的字段保持原有配置
type Env struct {
	RPM              float64 `json:"rpm"`
	Points           int     `json:"points"`
	CompressionRatio float64 `json:"compression_ratio"`
	AmbientTemp      float64 `json:"ambient_temp"`
	InitialPressure  float64 `json:"initial_pressure"`
	CombustionStart  float64 `json:"combustion_start"`
	CombustionSpan   float64 `json:"combustion_duration"`
	PeakTemp         float64 `json:"peak_temp"`
	ExhaustStart     float64 `json:"exhaust_start"`
	BlowdownSpan     float64 `json:"blowdown_duration"`

	// 瞬态传热
	TransientDuration float64 `json:"transient_duration"`
	TransientPoints   int     `json:"transient_points"`
}

// CyclePoint 某一曲轴转角下的缸内状态
type CyclePoint struct {
	Angle       float64 `json:"angle"`       // deg
	Volume      float64 `json:"volume"`      // 无量纲容积或 m^3
	Temperature float64 `json:"temperature"` // °C 或 K, 见 Trace.Unit
	Pressure    float64 `json:"pressure"`    // Pa
	Time        float64 `json:"time"`        // s
	Stroke      string  `json:"stroke"`
}

// Trace 一个完整循环
type Trace struct {
	Kind   string       `json:"kind"`
	RPM    float64      `json:"rpm"`
	Unit   string       `json:"unit"` // 温度单位
	Points []CyclePoint `json:"points"`
}

// SampleRow 按固定转角间隔采样的一行数据
type SampleRow struct {
	Time        float64 `json:"time"`        // s, 4 位小数
	Angle       float64 `json:"angle"`       // deg
	Temperature float64 `json:"temperature"` // °C
	Pressure    float64 `json:"pressure"`    // bar
	Stroke      string  `json:"stroke"`
}

// Summary 采样数据的关键指标
type Summary struct {
	RPM             float64 `json:"rpm"`
	CycleDuration   float64 `json:"cycle_duration"`
	SamplePoints    int     `json:"sample_points"`
	SampleInterval  float64 `json:"sample_interval"`
	PeakTemperature float64 `json:"peak_temperature"`
	MinTemperature  float64 `json:"min_temperature"`
	MeanTemperature float64 `json:"mean_temperature"`
	PeakPressure    float64 `json:"peak_pressure"`
	MinPressure     float64 `json:"min_pressure"`
	MeanPressure    float64 `json:"mean_pressure"`
}

// StrokeStat 单个冲程的温度和压力统计
type StrokeStat struct {
	Stroke          string  `json:"stroke"`
	MeanTemperature float64 `json:"mean_temperature"`
	MinTemperature  float64 `json:"min_temperature"`
	MaxTemperature  float64 `json:"max_temperature"`
	MeanPressure    float64 `json:"mean_pressure"`
	MinPressure     float64 `json:"min_pressure"`
	MaxPressure     float64 `json:"max_pressure"`
}

// TransientPoint 瞬态传热模型中的一点
type TransientPoint struct {
	Time        float64 `json:"time"`        // s
	Temperature float64 `json:"temperature"` // °C
	Pressure    float64 `json:"pressure"`    // Pa
}

// SampledData 采样推送结构
type SampledData struct {
	Rows    []SampleRow  `json:"rows"`
	Summary Summary      `json:"summary"`
	Strokes []StrokeStat `json:"strokes"`
}
