// Package quant implements the four quantization variants (Scalar,
// SubByte, HalfPrecisionFP, FullPrecisionFP) and the five distance
// kernels used by the proximity-graph index (spec §4.5 "Quantizers &
// Distance"). The sparse index quantizes its values itself and does
// not use this package.
package quant
