package coating

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// 活塞顶隔热涂层 (TBC) 的物性参数

const (
	// 计算热流密度时的涂层厚度, m
	DefaultThickness = 0.001
	// 默认活塞顶直径, m
	DefaultDiameter = 0.1
)

var ErrNoConductivity = errors.New("please enter at least one thermal conductivity value")

type Coating struct {
	Name         string
	Thickness    float64 // mm
	Conductivity float64 // W/(m·K)
	SpecificHeat float64 // J/(kg·K)
	CTE          float64 // 热膨胀系数 1/K
}

// Range 参数的上下限
type Range struct {
	Low  float64
	High float64
}

func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Bounds 优化时各参数的取值范围, 顺序与 ParameterNames 一致
type Bounds [4]Range

var ParameterNames = [4]string{"Thickness", "Thermal_Conductivity", "Specific_Heat_Capacity", "CTE"}

var DefaultBounds = Bounds{
	{0.1, 2.0},
	{1.0, 4.0},
	{500, 1000},
	{5e-6, 12e-6},
}

func (c Coating) Vector() []float64 {
	return []float64{c.Thickness, c.Conductivity, c.SpecificHeat, c.CTE}
}

func FromVector(name string, v []float64) Coating {
	c := Coating{Name: name}
	if len(v) != len(ParameterNames) {
		log.WithField("len", len(v)).Warn("涂层参数个数不正确")
		return c
	}
	c.Thickness, c.Conductivity, c.SpecificHeat, c.CTE = v[0], v[1], v[2], v[3]
	return c
}

// Within 涂层参数是否都在范围内
func (b Bounds) Within(c Coating) bool {
	for i, v := range c.Vector() {
		if !b[i].Contains(v) {
			return false
		}
	}
	return true
}

// PistonArea 活塞顶面积, m²
func PistonArea(diameter float64) float64 {
	return math.Pi * (diameter / 2) * (diameter / 2)
}

// ParseConductivities 解析逗号分隔的导热系数, 例如 "50, 100, 150"
func ParseConductivities(s string) ([]float64, error) {
	var res []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		k, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid thermal conductivity %q: %w", field, err)
		}
		res = append(res, k)
	}
	if len(res) == 0 {
		return nil, ErrNoConductivity
	}
	return res, nil
}
