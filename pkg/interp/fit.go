package interp

import "fmt"

// Method names a fitting kernel.
type Method string

const (
	MethodPCHIP         Method = "pchip"
	MethodAkima         Method = "akima"
	MethodNaturalSpline Method = "naturalSpline"
	MethodCatmullRom    Method = "catmullRom"
	// MethodLinear tags curves built by blending two fitted curves.
	MethodLinear Method = "linearInterpolation"
)

// Methods lists the kernels Fit can dispatch to.
var Methods = []Method{MethodPCHIP, MethodAkima, MethodNaturalSpline, MethodCatmullRom}

// ParseMethod validates a method name.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown interpolation method %q", s)
}

// Fit runs the named kernel and reports the kernel that actually produced
// the output: Akima below AkimaMinPoints or with repeated x values, and
// degenerate natural splines, report MethodPCHIP.
func Fit(method Method, points []Point, n int) ([]Point, Method, error) {
	switch method {
	case MethodPCHIP:
		return PCHIP(points, n), MethodPCHIP, nil
	case MethodAkima:
		if !akimaUsable(prepare(points)) {
			return PCHIP(points, n), MethodPCHIP, nil
		}
		return Akima(points, n), MethodAkima, nil
	case MethodNaturalSpline:
		out, fellBack := naturalSpline(points, n)
		if fellBack {
			return out, MethodPCHIP, nil
		}
		return out, MethodNaturalSpline, nil
	case MethodCatmullRom:
		return CatmullRom(points, n, DefaultTension), MethodCatmullRom, nil
	}
	return nil, method, fmt.Errorf("unknown interpolation method %q", method)
}
