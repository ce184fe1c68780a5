package engine

type Stroke int

const (
	Intake Stroke = iota
	Compression
	Power
	Exhaust
)

var Strokes = []Stroke{Intake, Compression, Power, Exhaust}

func (s Stroke) String() string {
	switch s {
	case Intake:
		return "Intake"
	case Compression:
		return "Compression"
	case Power:
		return "Power"
	case Exhaust:
		return "Exhaust"
	}
	return "Unknown"
}

// WhichStroke 获取曲轴转角所在的冲程, 720 deg 归入排气冲程
func WhichStroke(theta float64) Stroke {
	switch {
	case theta < StrokeAngle:
		return Intake
	case theta < 2*StrokeAngle:
		return Compression
	case theta < 3*StrokeAngle:
		return Power
	default:
		return Exhaust
	}
}
