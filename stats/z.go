package stats

import "gonum.org/v1/gonum/stat/distuv"

// ZVal is the two-tailed standard normal critical value for a confidence
// level given in percent, e.g. 1.96 for 95.
func ZVal(pct float64) float64 {
	return distuv.UnitNormal.Quantile(0.5 + pct/200)
}
