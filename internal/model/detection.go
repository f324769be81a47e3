package model

// DetectionConfig holds the thresholds for one detection run.
// Crypto needs a high z-threshold: 5-10% intraday moves are routine,
// so anything below ~8 flags ordinary volatility.
type DetectionConfig struct {
	Window        int     // trailing bars used for rolling statistics
	ZThreshold    float64 // minimum z-score of the price needle
	VolMultiplier float64 // minimum volume as a multiple of the rolling average
}
