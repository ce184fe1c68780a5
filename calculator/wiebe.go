package calculator

import "math"

const (
	DefaultWiebeA = 5.0
	DefaultWiebeM = 3.0
)

// Wiebe 燃烧放热规律, 返回已燃质量分数
func Wiebe(theta, start, duration, a, m float64) float64 {
	if theta < start {
		return 0
	}
	// 持续角为 0 时视为瞬时燃烧
	if duration <= 0 {
		return 1
	}
	x := (theta - start) / duration
	if x > 1 {
		return 1
	}
	return 1 - math.Exp(-a*math.Pow(x, m))
}
