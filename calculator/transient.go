package calculator

import (
	"errors"
	"fmt"
	"math"

	"enginecycle/model"
)

var ErrInvalidDuration = errors.New("transient duration must be positive")

// TransientParams 集总参数法瞬态传热模型, 温度单位 °C
type TransientParams struct {
	InitialTemp  float64 // °C
	InitialPress float64 // Pa
	AmbientTemp  float64 // °C
	HeatTransfer float64 // 换热系数 W/(m²·K)
	Volume       float64 // m³
	Mass         float64 // kg
	SpecificHeat float64 // J/(kg·K)
}

func DefaultTransientParams() TransientParams {
	return TransientParams{
		InitialTemp:  25,
		InitialPress: 101325,
		AmbientTemp:  20,
		HeatTransfer: 10,
		Volume:       1,
		Mass:         1,
		SpecificHeat: 1000,
	}
}

// Temperature T(t) = T_amb + (T_0 - T_amb) * exp(-h*t/(m*cp))
func (p TransientParams) Temperature(t float64) float64 {
	return p.AmbientTemp + (p.InitialTemp-p.AmbientTemp)*math.Exp(-p.HeatTransfer*t/(p.Mass*p.SpecificHeat))
}

// Pressure 定容理想气体 P(t) = P_0 * T(t)/T_0, 温度换算为 K
func (p TransientParams) Pressure(t float64) float64 {
	return p.InitialPress * (p.Temperature(t) + KelvinOffset) / (p.InitialTemp + KelvinOffset)
}

// TimeConstant m*cp/h, s
func (p TransientParams) TimeConstant() float64 {
	return p.Mass * p.SpecificHeat / p.HeatTransfer
}

func (p TransientParams) Series(duration float64, n int) ([]model.TransientPoint, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if n < 2 {
		return nil, fmt.Errorf("transient series with %d points: %w", n, ErrInvalidPoints)
	}
	times := span(0, duration, n)
	res := make([]model.TransientPoint, n)
	for i, t := range times {
		res[i] = model.TransientPoint{
			Time:        t,
			Temperature: p.Temperature(t),
			Pressure:    p.Pressure(t),
		}
	}
	return res, nil
}
