package indicators

import (
	"github.com/montanaflynn/stats"
)

// MacKinnon (1994) approximate asymptotic p-values and MacKinnon (2010)
// response surface critical values for the Dickey-Fuller distribution, single
// series, constant and no trend.

const (
	tauMaxC  = 2.74
	tauMinC  = -18.83
	tauStarC = -1.61
)

var tauSmallPC = []float64{2.1659, 1.4412, 0.038269}

var tauLargePC = []float64{1.7339, 0.93202, -0.12745, -0.010368}

var tauCritC = [3][4]float64{
	{-3.43035, -6.5393, -16.786, -79.433},
	{-2.86154, -2.8903, -4.234, -40.040},
	{-2.56677, -1.5384, -2.809, 0},
}

func polyval(coefs []float64, x float64) float64 {
	var result, pow float64
	pow = 1
	for _, c := range coefs {
		result += c * pow
		pow *= x
	}

	return result
}

// mackinnonP maps an ADF test statistic to its approximate p-value.
func mackinnonP(tstat float64) float64 {
	if tstat > tauMaxC {
		return 1.0
	}

	if tstat < tauMinC {
		return 0.0
	}

	coefs := tauLargePC
	if tstat <= tauStarC {
		coefs = tauSmallPC
	}

	return stats.NormCdf(polyval(coefs, tstat), 0, 1)
}

// mackinnonCrit returns the finite sample 1%, 5% and 10% critical values for
// nobs effective observations.
func mackinnonCrit(nobs int) map[string]float64 {
	t := float64(nobs)
	levels := []string{"1%", "5%", "10%"}

	crit := make(map[string]float64, len(levels))
	for i, level := range levels {
		c := tauCritC[i]
		crit[level] = c[0] + c[1]/t + c[2]/(t*t) + c[3]/(t*t*t)
	}

	return crit
}
