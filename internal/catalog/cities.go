package catalog

import "github.com/OCAP2/globe/pkg/core"

// DefaultCities is the built-in marker list. It repeats a few cities on
// purpose; Catalog.Load collapses exact duplicates.
func DefaultCities() []core.GeoPoint {
	return []core.GeoPoint{
		{Latitude: 51.507351, Longitude: -0.127758, Label: "London"},
		{Latitude: 35.689487, Longitude: 139.691711, Label: "Tokyo"},
		{Latitude: -33.868820, Longitude: 151.209290, Label: "Sydney"},
		{Latitude: 48.856613, Longitude: 2.352222, Label: "Paris"},
		{Latitude: 55.755825, Longitude: 37.617298, Label: "Moscow"},
		{Latitude: 19.432608, Longitude: -99.133209, Label: "Mexico City"},
		{Latitude: 28.613939, Longitude: 77.209023, Label: "New Delhi"},
		{Latitude: -23.550520, Longitude: -46.633308, Label: "São Paulo"},
		{Latitude: 40.712776, Longitude: -74.005974, Label: "New York"},
		{Latitude: 34.052235, Longitude: -118.243683, Label: "Los Angeles"},
		{Latitude: 41.878113, Longitude: -87.629799, Label: "Chicago"},
		{Latitude: 29.760427, Longitude: -95.369804, Label: "Houston"},
		{Latitude: 33.448376, Longitude: -112.074036, Label: "Phoenix"},
		{Latitude: 39.739235, Longitude: -104.990250, Label: "Denver"},
		{Latitude: 47.606209, Longitude: -122.332069, Label: "Seattle"},
		{Latitude: 25.761680, Longitude: -80.191790, Label: "Miami"},
		{Latitude: 38.907192, Longitude: -77.036873, Label: "Washington, D.C."},
		{Latitude: 37.774929, Longitude: -122.419418, Label: "San Francisco"},
		{Latitude: 32.715736, Longitude: -117.161087, Label: "San Diego"},
		{Latitude: 29.424122, Longitude: -98.493629, Label: "San Antonio"},
		{Latitude: 32.776665, Longitude: -96.796989, Label: "Dallas"},
		{Latitude: 30.267153, Longitude: -97.743057, Label: "Austin"},
		{Latitude: 39.952583, Longitude: -75.165222, Label: "Philadelphia"},
		{Latitude: 42.360081, Longitude: -71.058884, Label: "Boston"},
		{Latitude: 36.162663, Longitude: -86.781601, Label: "Nashville"},
		{Latitude: 35.227085, Longitude: -80.843124, Label: "Charlotte"},
		{Latitude: 36.169941, Longitude: -115.139832, Label: "Las Vegas"},
		{Latitude: 52.520008, Longitude: 13.404954, Label: "Berlin"},
		{Latitude: 40.730610, Longitude: -73.935242, Label: "New York City"},
		{Latitude: 43.653225, Longitude: -79.383186, Label: "Toronto"},
		{Latitude: 39.904202, Longitude: 116.407394, Label: "Beijing"},
		{Latitude: 34.052235, Longitude: -118.243683, Label: "Los Angeles"},
		{Latitude: 55.953252, Longitude: -3.188267, Label: "Edinburgh"},
		{Latitude: 37.566536, Longitude: 126.977968, Label: "Seoul"},
		{Latitude: 59.934280, Longitude: 30.335099, Label: "Saint Petersburg"},
		{Latitude: 22.319303, Longitude: 114.169361, Label: "Hong Kong"},
		{Latitude: -34.603722, Longitude: -58.381592, Label: "Buenos Aires"},
		{Latitude: -26.204103, Longitude: 28.047305, Label: "Johannesburg"},
		{Latitude: 48.208174, Longitude: 16.373819, Label: "Vienna"},
		{Latitude: 50.850346, Longitude: 4.351721, Label: "Brussels"},
		{Latitude: 41.902782, Longitude: 12.496366, Label: "Rome"},
		{Latitude: 52.229676, Longitude: 21.012229, Label: "Warsaw"},
		{Latitude: 31.549333, Longitude: 74.343611, Label: "Lahore"},
		{Latitude: 40.416775, Longitude: -3.703790, Label: "Madrid"},
		{Latitude: 55.676098, Longitude: 12.568337, Label: "Copenhagen"},
		{Latitude: 37.983810, Longitude: 23.727539, Label: "Athens"},
		{Latitude: 1.352083, Longitude: 103.819836, Label: "Singapore"},
		{Latitude: -22.906847, Longitude: -43.172897, Label: "Rio de Janeiro"},
		{Latitude: -12.046374, Longitude: -77.042793, Label: "Lima"},
		{Latitude: 19.076090, Longitude: 72.877426, Label: "Mumbai"},
		{Latitude: 4.610628, Longitude: -74.081749, Label: "Bogotá"},
		{Latitude: 39.904202, Longitude: 116.407394, Label: "Beijing"},
		{Latitude: 18.520430, Longitude: 73.856743, Label: "Pune"},
		{Latitude: 37.774929, Longitude: -122.419418, Label: "San Francisco"},
		{Latitude: 23.810310, Longitude: 90.412521, Label: "Dhaka"},
		{Latitude: 30.044420, Longitude: 31.235712, Label: "Cairo"},
		{Latitude: 44.426767, Longitude: 26.102538, Label: "Bucharest"},
		{Latitude: 39.961176, Longitude: -82.998795, Label: "Columbus"},
	}
}
