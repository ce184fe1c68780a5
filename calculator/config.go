package calculator

import (
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

type Config struct {
	Addr     string
	LogLevel string

	Points          int     // 完整循环的计算点数
	SampleStep      float64 // 采样间隔, deg
	TransientPoints int
	TransientTime   float64 // s

	RPM              float64
	CompressionRatio float64
	Bore             float64
	Stroke           float64

	ExportDir   string
	Sweep       bool // 启动时导出各转速的循环数据
	SweepRPMs   []float64
	SliderCrank bool // 启动时导出曲柄连杆模型
	Transient   bool // 启动时导出瞬态传热模型

	// 活塞顶热流, 温度记录文件为空时不计算
	FluxLog        string
	Conductivities string
	Diameter       float64

	DatabasePath string

	TBCDataset    string // 涂层数据集, 为空时不进行优化
	TBCIterations int
	TBCCandidates int
	TBCSeed       int64
}

// LoadConfig 读取 ini 配置, 文件不存在时使用默认值
func LoadConfig(path string) Config {
	file, err := ini.Load(path)
	if err != nil {
		log.WithField("path", path).Warn("配置文件读取错误, 使用默认配置: ", err)
		file = ini.Empty()
	}
	return loadCfg(file)
}

func DefaultConfig() Config {
	return loadCfg(ini.Empty())
}

func loadCfg(file *ini.File) Config {
	return Config{
		Addr:     file.Section("server").Key("Addr").MustString(":9000"),
		LogLevel: file.Section("log").Key("Level").MustString("info"),

		Points:          file.Section("calculator").Key("Points").MustInt(720),
		SampleStep:      file.Section("calculator").Key("SampleStep").MustFloat64(10),
		TransientPoints: file.Section("calculator").Key("TransientPoints").MustInt(100),
		TransientTime:   file.Section("calculator").Key("TransientTime").MustFloat64(3600),

		RPM:              file.Section("engine").Key("RPM").MustFloat64(1200),
		CompressionRatio: file.Section("engine").Key("CompressionRatio").MustFloat64(10),
		Bore:             file.Section("engine").Key("Bore").MustFloat64(80e-3),
		Stroke:           file.Section("engine").Key("Stroke").MustFloat64(80e-3),

		ExportDir:   file.Section("export").Key("Dir").MustString("output"),
		Sweep:       file.Section("export").Key("Sweep").MustBool(false),
		SweepRPMs:   parseFloats(file.Section("export").Key("SweepRPMs").MustString("1000, 2000, 3000, 4000, 5000")),
		SliderCrank: file.Section("export").Key("SliderCrank").MustBool(false),
		Transient:   file.Section("export").Key("Transient").MustBool(false),

		FluxLog:        file.Section("flux").Key("LogPath").String(),
		Conductivities: file.Section("flux").Key("Conductivities").MustString("50, 100, 150"),
		Diameter:       file.Section("flux").Key("Diameter").MustFloat64(0.1),

		DatabasePath: file.Section("storage").Key("Path").String(),

		TBCDataset:    file.Section("tbc").Key("Dataset").String(),
		TBCIterations: file.Section("tbc").Key("Iterations").MustInt(75),
		TBCCandidates: file.Section("tbc").Key("Candidates").MustInt(100),
		TBCSeed:       file.Section("tbc").Key("Seed").MustInt64(42),
	}
}

func parseFloats(s string) []float64 {
	var res []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			log.WithField("value", field).Warn("忽略无法解析的数值")
			continue
		}
		res = append(res, v)
	}
	return res
}
