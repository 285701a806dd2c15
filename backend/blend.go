package backend

// BlendFactor is a blend equation factor.
type BlendFactor uint8

// Blend factors used by the pipeline.
const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
)

func (f BlendFactor) String() string {
	switch f {
	case BlendZero:
		return "zero"
	case BlendOne:
		return "one"
	case BlendSrcAlpha:
		return "src-alpha"
	case BlendOneMinusSrcAlpha:
		return "one-minus-src-alpha"
	default:
		return "unknown"
	}
}

// BlendComponent is one additive blend equation: src*Src + dst*Dst.
type BlendComponent struct {
	Src, Dst BlendFactor
}

// BlendState describes color and alpha blending.
type BlendState struct {
	Color BlendComponent
	Alpha BlendComponent
}

// Blend is the single blend state every backend realizes: source over
// destination, additive, with unpremultiplied source factors for color.
var Blend = BlendState{
	Color: BlendComponent{Src: BlendSrcAlpha, Dst: BlendOne},
	Alpha: BlendComponent{Src: BlendOne, Dst: BlendOne},
}

// factor evaluates f for a source alpha.
func (f BlendFactor) factor(srcAlpha float32) float32 {
	switch f {
	case BlendOne:
		return 1
	case BlendSrcAlpha:
		return srcAlpha
	case BlendOneMinusSrcAlpha:
		return 1 - srcAlpha
	default:
		return 0
	}
}

// Apply evaluates the equation for one channel, clamped to [0, 1].
func (c BlendComponent) Apply(src, dst, srcAlpha float32) float32 {
	v := src*c.Src.factor(srcAlpha) + dst*c.Dst.factor(srcAlpha)
	return min(max(v, 0), 1)
}

// Apply blends src over dst channel by channel.
func (s BlendState) Apply(src, dst [4]float32) [4]float32 {
	a := src[3]
	return [4]float32{
		s.Color.Apply(src[0], dst[0], a),
		s.Color.Apply(src[1], dst[1], a),
		s.Color.Apply(src[2], dst[2], a),
		s.Alpha.Apply(src[3], dst[3], a),
	}
}
