package projection

import "math"

// Ellipsoid is a reference ellipsoid given by its semi-major axis and
// flattening.
type Ellipsoid struct {
	A float64 // semi-major axis, metres
	F float64 // flattening
}

// WGS84 is the ellipsoid used by GPS, UTM and MGRS.
var WGS84 = Ellipsoid{A: 6378137, F: 1 / 298.257223563}

const (
	seriesOrder  = 6
	inverseEps   = 1e-12
	inverseSteps = 16
)

// TransverseMercator maps Gauss-Krüger plane coordinates back to geodetic
// ones with the sixth order Krüger series. Accuracy is well below a
// millimetre inside a UTM zone.
type TransverseMercator struct {
	e     float64 // first eccentricity
	es    float64 // e squared
	scale float64 // k0 * A, the rectifying radius times the scale factor
	beta  [seriesOrder + 1]float64
}

// NewTransverseMercator prepares the series coefficients for an ellipsoid
// and central scale factor.
func NewTransverseMercator(el Ellipsoid, k0 float64) *TransverseMercator {
	f := el.F
	n := f / (2 - f)
	n2, n3 := n*n, n*n*n
	n4, n5, n6 := n2*n2, n2*n3, n3*n3

	rect := el.A / (1 + n) * (1 + n2/4 + n4/64 + n6/256)

	tm := &TransverseMercator{
		es:    f * (2 - f),
		scale: k0 * rect,
	}
	tm.e = math.Sqrt(tm.es)

	tm.beta = [seriesOrder + 1]float64{0,
		n/2 - 2*n2/3 + 37*n3/96 - n4/360 - 81*n5/512 + 96199*n6/604800,
		n2/48 + n3/15 - 437*n4/1440 + 46*n5/105 - 1118711*n6/3870720,
		17*n3/480 - 37*n4/840 - 209*n5/4480 + 5569*n6/90720,
		4397*n4/161280 - 11*n5/504 - 830251*n6/7257600,
		4583*n5/161280 - 108847*n6/3991680,
		20648693 * n6 / 638668800,
	}
	return tm
}

// conformal maps tan(latitude) to tan(conformal latitude).
func (tm *TransverseMercator) conformal(tau float64) float64 {
	sigma := math.Sinh(tm.e * math.Atanh(tm.e*tau/math.Sqrt(1+tau*tau)))
	return tau*math.Sqrt(1+sigma*sigma) - sigma*math.Sqrt(1+tau*tau)
}

// Inverse takes plane metres, before false origin offsets, back to latitude
// and longitude relative to the central meridian, in degrees.
func (tm *TransverseMercator) Inverse(x, y float64) (lat, dlon float64) {
	eta := x / tm.scale
	xi := y / tm.scale

	xiP, etaP := xi, eta
	for j := 1; j <= seriesOrder; j++ {
		k := 2 * float64(j)
		xiP -= tm.beta[j] * math.Sin(k*xi) * math.Cosh(k*eta)
		etaP -= tm.beta[j] * math.Cos(k*xi) * math.Sinh(k*eta)
	}

	sinhEtaP := math.Sinh(etaP)
	sinXiP, cosXiP := math.Sincos(xiP)
	r := math.Sqrt(sinhEtaP*sinhEtaP + cosXiP*cosXiP)
	if r == 0 {
		return math.Copysign(90, sinXiP), 0
	}
	tauP := sinXiP / r

	// Newton iteration for tan(latitude) from tan(conformal latitude).
	tau := tauP
	for i := 0; i < inverseSteps; i++ {
		tauI := tm.conformal(tau)
		delta := (tauP - tauI) / math.Sqrt(1+tauI*tauI) *
			(1 + (1-tm.es)*tau*tau) / ((1 - tm.es) * math.Sqrt(1+tau*tau))
		tau += delta
		if math.Abs(delta) < inverseEps {
			break
		}
	}

	lat = math.Atan(tau) * 180 / math.Pi
	dlon = math.Atan2(sinhEtaP, cosXiP) * 180 / math.Pi
	return lat, dlon
}
