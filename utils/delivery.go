package utils

import "math"

// DeliveryPricing holds the tariff applied to delivery orders. Values come
// from configuration, not from call sites.
type DeliveryPricing struct {
	CostPerKm            float64
	MinCost              float64
	FreeWeightKg         float64
	WeightSurchargePerKg float64
}

// DeliveryCost computes the delivery price in euros for a given distance and
// total cart weight. The base fare is per-kilometer with a floor, plus a
// per-kilogram surcharge above the free weight threshold. The result is
// rounded up to a whole euro.
func DeliveryCost(distanceM, totalWeightKg float64, pricing DeliveryPricing) float64 {
	distanceKm := distanceM / 1000
	base := math.Max(pricing.MinCost, distanceKm*pricing.CostPerKm)
	surcharge := math.Max(0, totalWeightKg-pricing.FreeWeightKg) * pricing.WeightSurchargePerKg
	return math.Ceil(base + surcharge)
}

// WithinDeliveryZone reports whether an address at the given distance from
// the bakery is eligible for delivery.
func WithinDeliveryZone(distanceM, zoneRadiusM float64) bool {
	return distanceM <= zoneRadiusM
}

const earthRadiusM = 6371000

// HaversineMeters returns the great-circle distance in meters between two
// coordinates.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}
